package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homevault-project/homevault-go/pkg/model"
	"github.com/homevault-project/homevault-go/pkg/scanlog"
)

// Scanner errors.
var (
	ErrNoEndpoint = errors.New("no endpoint to resolve")
)

// EventType classifies a scanner event.
type EventType int

const (
	// EventScanStarted signals that a scan session began.
	EventScanStarted EventType = iota

	// EventScanStopped signals that the session ended, explicitly or by
	// the scan-window timer.
	EventScanStopped

	// EventDeviceFound signals a newly observed device (pre-resolution).
	EventDeviceFound

	// EventDeviceResolved signals that a device's endpoint was resolved.
	EventDeviceResolved

	// EventBrowseError signals a non-fatal subscription failure.
	EventBrowseError
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventScanStarted:
		return "SCAN_STARTED"
	case EventScanStopped:
		return "SCAN_STOPPED"
	case EventDeviceFound:
		return "DEVICE_FOUND"
	case EventDeviceResolved:
		return "DEVICE_RESOLVED"
	case EventBrowseError:
		return "BROWSE_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is delivered to the OnEvent callback as a scan progresses.
type Event struct {
	// Type classifies the event.
	Type EventType

	// Device is a snapshot of the affected device, set for DEVICE_FOUND
	// and DEVICE_RESOLVED events.
	Device *model.DiscoveredDevice

	// Err is set for BROWSE_ERROR events.
	Err error
}

// dedupKey is the composite identity of one observation.
type dedupKey struct {
	name string
	tag  model.ServiceTypeTag
}

// Scanner runs bounded, best-effort censuses of the local network.
// All methods are safe for concurrent use; results are delivered through
// the OnEvent callback and the Devices snapshot.
type Scanner struct {
	config   Config
	browser  Browser
	resolver Resolver
	log      scanlog.Logger

	mu        sync.Mutex
	scanning  bool
	gen       uint64
	sessionID string
	cancel    context.CancelFunc
	stopTimer *time.Timer
	devices   []*model.DiscoveredDevice
	seen      map[dedupKey]struct{}
	status    string
	onEvent   func(Event)
}

// New creates a scanner with the given configuration. Zero config fields
// fall back to defaults; browsing and resolution default to mDNS-backed
// implementations.
func New(config Config) *Scanner {
	if config.ScanWindow <= 0 {
		config.ScanWindow = ScanWindow
	}
	if config.ResolveTimeout <= 0 {
		config.ResolveTimeout = ResolveTimeout
	}
	return &Scanner{
		config:   config,
		browser:  NewMDNSBrowser(config.Interface),
		resolver: NetResolver{},
		log:      scanlog.NoopLogger{},
		status:   "Idle",
	}
}

// SetBrowser replaces the browse implementation. Set this in tests to
// inject fake subscriptions. Must be called before StartScan.
func (s *Scanner) SetBrowser(b Browser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.browser = b
}

// SetResolver replaces the endpoint resolver. Must be called before StartScan.
func (s *Scanner) SetResolver(r Resolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver = r
}

// SetLogger sets the scan event logger. Pass nil to disable logging.
func (s *Scanner) SetLogger(l scanlog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l == nil {
		l = scanlog.NoopLogger{}
	}
	s.log = l
}

// OnEvent registers the event callback. The callback is invoked from
// scanner goroutines and must not call back into StartScan or StopScan.
func (s *Scanner) OnEvent(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = fn
}

// StartScan begins a new scan session. Any active session is stopped
// first, and the discovered-device list resets to empty. One browse
// subscription is opened per known service-type tag; subscription
// failures are surfaced as BROWSE_ERROR events and do not abort the
// session. The session stops itself after the configured scan window.
func (s *Scanner) StartScan() {
	s.mu.Lock()

	if s.scanning {
		s.stopLocked()
	}

	s.gen++
	gen := s.gen
	s.sessionID = uuid.NewString()
	s.devices = nil
	s.seen = make(map[dedupKey]struct{})
	s.scanning = true
	s.status = "Scanning"

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.stopTimer = time.AfterFunc(s.config.ScanWindow, func() {
		s.autoStop(gen)
	})

	browser := s.browser
	logger := s.log
	sessionID := s.sessionID
	tags := model.ScanServiceTags
	s.mu.Unlock()

	logger.Log(scanlog.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Type:      scanlog.EventSessionStart,
	})
	s.emit(Event{Type: EventScanStarted})

	for _, tag := range tags {
		tag := tag
		err := browser.Browse(ctx, tag.ServiceType(),
			func(e Entry) { s.handleEntry(ctx, gen, tag, e) },
			func(err error) { s.handleBrowseError(gen, tag, err) },
		)
		if err != nil {
			s.handleBrowseError(gen, tag, err)
		}
	}
}

// StopScan cancels every open subscription and pending resolution and
// returns the scanner to Idle. Calling StopScan when not scanning is a
// no-op. The discovered-device list is retained until the next StartScan.
func (s *Scanner) StopScan() {
	s.mu.Lock()
	stopped := s.stopLocked()
	s.mu.Unlock()

	if stopped {
		s.emit(Event{Type: EventScanStopped})
	}
}

// stopLocked tears down the active session. Caller holds s.mu.
func (s *Scanner) stopLocked() bool {
	if !s.scanning {
		return false
	}

	s.scanning = false
	s.status = "Idle"
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.stopTimer != nil {
		s.stopTimer.Stop()
		s.stopTimer = nil
	}

	s.log.Log(scanlog.Event{
		Timestamp: time.Now(),
		SessionID: s.sessionID,
		Type:      scanlog.EventSessionStop,
	})
	return true
}

// autoStop ends the session when the scan window elapses. A stale
// generation means a newer session replaced this one already.
func (s *Scanner) autoStop(gen uint64) {
	s.mu.Lock()
	stopped := false
	if gen == s.gen {
		stopped = s.stopLocked()
	}
	s.mu.Unlock()

	if stopped {
		s.emit(Event{Type: EventScanStopped})
	}
}

// IsScanning reports whether a scan session is active.
func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// Status returns the user-visible scanner status line.
func (s *Scanner) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SessionID returns the identifier of the current or most recent session.
func (s *Scanner) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Devices returns a snapshot of the devices discovered so far.
func (s *Scanner) Devices() []model.DiscoveredDevice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.DiscoveredDevice, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, *d)
	}
	return out
}

// handleEntry records one browse observation and kicks off its bounded
// resolution. Observations repeating an already-seen (name, tag) pair are
// discarded without merging.
func (s *Scanner) handleEntry(ctx context.Context, gen uint64, tag model.ServiceTypeTag, e Entry) {
	s.mu.Lock()
	if gen != s.gen || !s.scanning {
		s.mu.Unlock()
		return
	}

	key := dedupKey{name: e.Instance, tag: tag}
	if _, dup := s.seen[key]; dup {
		s.mu.Unlock()
		return
	}
	s.seen[key] = struct{}{}

	device := &model.DiscoveredDevice{
		ID:             uuid.NewString(),
		Name:           e.Instance,
		ServiceTypeTag: tag,
		Metadata:       parseTXT(e.Text),
		DiscoveredAt:   time.Now(),
	}
	if vendor, ok := model.InferManufacturer(e.Instance); ok {
		device.Manufacturer = vendor
	}
	s.devices = append(s.devices, device)

	snapshot := *device
	sessionID := s.sessionID
	logger := s.log
	resolver := s.resolver
	timeout := s.config.ResolveTimeout
	s.mu.Unlock()

	logger.Log(scanlog.Event{
		Timestamp:   time.Now(),
		SessionID:   sessionID,
		Type:        scanlog.EventDeviceFound,
		Name:        snapshot.Name,
		ServiceType: snapshot.ServiceTypeTag.String(),
	})
	s.emit(Event{Type: EventDeviceFound, Device: &snapshot})

	// The subscription may already carry addresses; otherwise race a
	// resolution attempt against its own timeout. Either way the device
	// stays recorded if resolution fails.
	if len(e.Addrs) > 0 {
		s.applyResolution(gen, device.ID, e.Addrs[0], e.Port)
		return
	}

	go func() {
		rctx, rcancel := context.WithTimeout(ctx, timeout)
		defer rcancel()

		addr, port, err := resolver.Resolve(rctx, e)
		if err != nil {
			logger.Log(scanlog.Event{
				Timestamp:   time.Now(),
				SessionID:   sessionID,
				Type:        scanlog.EventBrowseError,
				Name:        e.Instance,
				ServiceType: tag.String(),
				Message:     fmt.Sprintf("resolution failed: %v", err),
			})
			return
		}
		s.applyResolution(gen, device.ID, addr, port)
	}()
}

// applyResolution fills in a device's endpoint. Resolutions that finish
// after the session ended (or after a newer session started) are ignored.
func (s *Scanner) applyResolution(gen uint64, deviceID, addr string, port uint16) {
	s.mu.Lock()
	if gen != s.gen || !s.scanning {
		s.mu.Unlock()
		return
	}

	var snapshot *model.DiscoveredDevice
	for _, d := range s.devices {
		if d.ID == deviceID {
			d.IPAddress = addr
			d.Port = port
			copied := *d
			snapshot = &copied
			break
		}
	}
	sessionID := s.sessionID
	logger := s.log
	s.mu.Unlock()

	if snapshot == nil {
		return
	}

	logger.Log(scanlog.Event{
		Timestamp:   time.Now(),
		SessionID:   sessionID,
		Type:        scanlog.EventDeviceResolved,
		Name:        snapshot.Name,
		ServiceType: snapshot.ServiceTypeTag.String(),
		Address:     addr,
		Port:        port,
	})
	s.emit(Event{Type: EventDeviceResolved, Device: snapshot})
}

// handleBrowseError surfaces a failed subscription as a status message and
// a non-fatal event. Sibling subscriptions keep running; no retry is made
// until the next StartScan.
func (s *Scanner) handleBrowseError(gen uint64, tag model.ServiceTypeTag, err error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.status = fmt.Sprintf("Browse failed for %s: %v", tag.Label(), err)
	sessionID := s.sessionID
	logger := s.log
	s.mu.Unlock()

	logger.Log(scanlog.Event{
		Timestamp:   time.Now(),
		SessionID:   sessionID,
		Type:        scanlog.EventBrowseError,
		ServiceType: tag.String(),
		Message:     err.Error(),
	})
	s.emit(Event{Type: EventBrowseError, Err: fmt.Errorf("%s: %w", tag.Label(), err)})
}

// emit invokes the event callback outside the scanner lock.
func (s *Scanner) emit(event Event) {
	s.mu.Lock()
	fn := s.onEvent
	s.mu.Unlock()

	if fn != nil {
		fn(event)
	}
}
