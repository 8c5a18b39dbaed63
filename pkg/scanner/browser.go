package scanner

import (
	"context"
	"strings"
	"time"
)

// Timing constants.
const (
	// ScanWindow is the default length of a scan session.
	ScanWindow = 30 * time.Second

	// ResolveTimeout is the default bound on one endpoint resolution.
	ResolveTimeout = 5 * time.Second
)

// Entry is one raw advertisement observation from a browse subscription.
type Entry struct {
	// Instance is the advertised instance name.
	Instance string

	// Host is the advertised hostname (e.g. "bridge.local.").
	Host string

	// Port is the advertised service port.
	Port uint16

	// Text contains the raw TXT records ("key=value" strings).
	Text []string

	// Addrs contains any addresses the subscription already resolved.
	Addrs []string
}

// Browser opens passive mDNS browse subscriptions.
// Implementations must return from Browse immediately and deliver
// observations asynchronously until the context is cancelled.
type Browser interface {
	// Browse opens one subscription for serviceType and invokes handler
	// for every advertisement that arrives. Setup failures are returned
	// synchronously; failures after setup are reported through errHandler.
	// Both callbacks may be invoked from internal goroutines.
	Browse(ctx context.Context, serviceType string, handler func(Entry), errHandler func(error)) error
}

// Resolver resolves an advertisement to a concrete endpoint.
type Resolver interface {
	// Resolve returns the address and port for an entry, respecting the
	// context deadline. A failed or expired resolution returns an error;
	// the caller records the device either way.
	Resolve(ctx context.Context, entry Entry) (addr string, port uint16, err error)
}

// Config configures scan behavior.
type Config struct {
	// ScanWindow is how long a session runs before stopping itself.
	// Default: 30 seconds.
	ScanWindow time.Duration

	// ResolveTimeout bounds each per-device resolution attempt.
	// Default: 5 seconds.
	ResolveTimeout time.Duration

	// Interface specifies which network interface to browse on.
	// Empty string means all interfaces.
	Interface string
}

// DefaultConfig returns the default scanner configuration.
func DefaultConfig() Config {
	return Config{
		ScanWindow:     ScanWindow,
		ResolveTimeout: ResolveTimeout,
	}
}

// parseTXT converts raw TXT record strings into a key/value map.
// Records without '=' are stored with an empty value.
func parseTXT(text []string) map[string]string {
	if len(text) == 0 {
		return nil
	}
	m := make(map[string]string, len(text))
	for _, s := range text {
		if s == "" {
			continue
		}
		key, value, _ := strings.Cut(s, "=")
		m[key] = value
	}
	return m
}
