package model

import "errors"

// mDNS service type constants for the local-network census.
const (
	// MDNSServiceHAP is the HomeKit Accessory Protocol service type.
	MDNSServiceHAP = "_hap._tcp"

	// MDNSServiceMatterCommissioning is the Matter commissioning service type.
	MDNSServiceMatterCommissioning = "_matterc._udp"

	// MDNSServiceMatterOperational is the Matter operational service type.
	MDNSServiceMatterOperational = "_matter._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// Model errors.
var (
	ErrInvalidSetupCode  = errors.New("invalid setup code")
	ErrUnknownCodeFormat = errors.New("unknown code format")
	ErrUnknownServiceTag = errors.New("unknown service type tag")
)

// ServiceTypeTag classifies a discovered device by the mDNS service type
// that advertised it.
type ServiceTypeTag string

const (
	// TagHAP is a HomeKit accessory (_hap._tcp).
	TagHAP ServiceTypeTag = "hap-tcp"

	// TagMatterCommissioning is an unpaired Matter device (_matterc._udp).
	TagMatterCommissioning ServiceTypeTag = "matter-commissioning-udp"

	// TagMatterOperational is a paired Matter device (_matter._tcp).
	TagMatterOperational ServiceTypeTag = "matter-operational-tcp"

	// TagOther is any service type outside the known set.
	TagOther ServiceTypeTag = "other"
)

// ScanServiceTags lists the service types browsed during a scan, in the
// order their subscriptions are opened.
var ScanServiceTags = []ServiceTypeTag{
	TagHAP,
	TagMatterCommissioning,
	TagMatterOperational,
}

// TagForServiceType maps an mDNS service type string to its tag.
// Unknown service types map to TagOther.
func TagForServiceType(serviceType string) ServiceTypeTag {
	switch serviceType {
	case MDNSServiceHAP:
		return TagHAP
	case MDNSServiceMatterCommissioning:
		return TagMatterCommissioning
	case MDNSServiceMatterOperational:
		return TagMatterOperational
	default:
		return TagOther
	}
}

// ServiceType returns the mDNS service type string for the tag.
func (t ServiceTypeTag) ServiceType() string {
	switch t {
	case TagHAP:
		return MDNSServiceHAP
	case TagMatterCommissioning:
		return MDNSServiceMatterCommissioning
	case TagMatterOperational:
		return MDNSServiceMatterOperational
	default:
		return ""
	}
}

// Label returns the user-facing name for the tag.
func (t ServiceTypeTag) Label() string {
	switch t {
	case TagHAP:
		return "HomeKit"
	case TagMatterCommissioning:
		return "Matter (commissioning)"
	case TagMatterOperational:
		return "Matter (paired)"
	default:
		return "Other"
	}
}

// Category returns the inventory category label used when a discovered
// device is promoted to an accessory record.
func (t ServiceTypeTag) Category() string {
	switch t {
	case TagHAP:
		return "HomeKit Accessory"
	case TagMatterCommissioning:
		return "Matter Device"
	case TagMatterOperational:
		return "Matter Device"
	default:
		return "Network Device"
	}
}

// Paired reports whether devices advertising this tag are classified as
// paired. Only operational Matter advertisements imply pairing.
func (t ServiceTypeTag) Paired() bool {
	return t == TagMatterOperational
}

// String returns the tag value.
func (t ServiceTypeTag) String() string {
	return string(t)
}

// CodeFormat identifies how a setup code was captured.
type CodeFormat string

const (
	// FormatNumeric is a hand-typed numeric code.
	FormatNumeric CodeFormat = "numeric"

	// FormatQRCode is a code read from a QR label.
	FormatQRCode CodeFormat = "qrCode"

	// FormatNFC is a code read from an NFC tag.
	FormatNFC CodeFormat = "nfc"

	// FormatUnknown is an unclassified code.
	FormatUnknown CodeFormat = "unknown"
)

// ParseCodeFormat parses a code format string.
func ParseCodeFormat(s string) (CodeFormat, error) {
	switch CodeFormat(s) {
	case FormatNumeric, FormatQRCode, FormatNFC, FormatUnknown:
		return CodeFormat(s), nil
	default:
		return FormatUnknown, ErrUnknownCodeFormat
	}
}

// Label returns the user-facing name for the format.
func (f CodeFormat) Label() string {
	switch f {
	case FormatNumeric:
		return "Numeric"
	case FormatQRCode:
		return "QR Code"
	case FormatNFC:
		return "NFC"
	default:
		return "Unknown"
	}
}

// String returns the format value.
func (f CodeFormat) String() string {
	return string(f)
}
