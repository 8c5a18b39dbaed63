package scanlog

import "time"

// EventType classifies a scan log event.
type EventType uint8

const (
	// EventSessionStart marks the beginning of a scan session.
	EventSessionStart EventType = 0

	// EventSessionStop marks the end of a scan session.
	EventSessionStop EventType = 1

	// EventDeviceFound records a newly observed advertisement.
	EventDeviceFound EventType = 2

	// EventDeviceResolved records a successful address resolution.
	EventDeviceResolved EventType = 3

	// EventBrowseError records a failed browse subscription or resolution.
	EventBrowseError EventType = 4
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventSessionStart:
		return "SESSION_START"
	case EventSessionStop:
		return "SESSION_STOP"
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

// Event is one scan log entry.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the scan session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Type classifies the event.
	Type EventType `cbor:"3,keyasint"`

	// Name is the advertised instance name, if any.
	Name string `cbor:"4,keyasint,omitempty"`

	// ServiceType is the mDNS service type tag, if any.
	ServiceType string `cbor:"5,keyasint,omitempty"`

	// Address is the resolved IP address, if any.
	Address string `cbor:"6,keyasint,omitempty"`

	// Port is the resolved port, if any.
	Port uint16 `cbor:"7,keyasint,omitempty"`

	// Message carries error or status text, if any.
	Message string `cbor:"8,keyasint,omitempty"`
}
