package model

import (
	"time"

	"github.com/google/uuid"
)

// SetupCodeRecord is a user-entered setup code stored in the vault.
type SetupCodeRecord struct {
	// ID is the unique, immutable record identifier.
	ID string `json:"id"`

	// LinkedAccessoryID optionally references AccessoryRecord.HomeKitUUID.
	// The link is weak: neither side enforces referential integrity.
	LinkedAccessoryID string `json:"linked_accessory_id,omitempty"`

	// AccessoryName is the display name, also the fallback join key when
	// LinkedAccessoryID is empty.
	AccessoryName string `json:"accessory_name"`

	// Manufacturer is the vendor name.
	Manufacturer string `json:"manufacturer,omitempty"`

	// Model is the model name.
	Model string `json:"model,omitempty"`

	// Code is the raw setup code digits.
	Code string `json:"code"`

	// CodeFormat records how the code was captured.
	CodeFormat CodeFormat `json:"code_format"`

	// PhotoRef is the path to the record's photo asset, if any.
	PhotoRef string `json:"photo_ref,omitempty"`

	// LocationHint is free text describing where the physical code lives.
	LocationHint string `json:"location_hint,omitempty"`

	// Notes is free text.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is when the record was first saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed on every save. Always >= CreatedAt.
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessoryRecord is a manually curated inventory entry.
type AccessoryRecord struct {
	// ID is the unique record identifier. Names are not unique.
	ID string `json:"id"`

	// HomeKitUUID is an optional correlation key toward
	// SetupCodeRecord.LinkedAccessoryID.
	HomeKitUUID string `json:"homekit_uuid,omitempty"`

	// Name is the display name.
	Name string `json:"name"`

	// Manufacturer is the vendor name.
	Manufacturer string `json:"manufacturer,omitempty"`

	// Model is the model name.
	Model string `json:"model,omitempty"`

	// Room is the optional room assignment.
	Room string `json:"room,omitempty"`

	// Home is the optional home assignment.
	Home string `json:"home,omitempty"`

	// Category is a free-text tag (e.g. "HomeKit Accessory").
	Category string `json:"category,omitempty"`

	// IsReachable records whether the accessory responded last time it
	// was seen on the network.
	IsReachable bool `json:"is_reachable"`

	// IPAddress is the last known address, if any.
	IPAddress string `json:"ip_address,omitempty"`

	// LastSeen is when the accessory was last observed.
	LastSeen time.Time `json:"last_seen,omitempty"`

	// SetupCode is an optional inline convenience copy of the code.
	SetupCode string `json:"setup_code,omitempty"`
}

// DiscoveredDevice is one observation from a scan session. It lives only
// for the duration of the session and is never persisted.
type DiscoveredDevice struct {
	// ID is a session-scoped identifier.
	ID string `json:"id"`

	// Name is the advertised instance name.
	Name string `json:"name"`

	// ServiceTypeTag classifies the advertisement.
	ServiceTypeTag ServiceTypeTag `json:"service_type_tag"`

	// IPAddress is the resolved address, empty if resolution failed.
	IPAddress string `json:"ip_address,omitempty"`

	// Port is the resolved port, zero if resolution failed.
	Port uint16 `json:"port,omitempty"`

	// Metadata holds the advertisement TXT records.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Manufacturer is inferred from the advertised name, empty if no
	// known vendor fragment matched.
	Manufacturer string `json:"manufacturer,omitempty"`

	// DiscoveredAt is when the advertisement arrived.
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Paired reports whether the device is classified as paired.
// Classification is purely service-type based.
func (d *DiscoveredDevice) Paired() bool {
	return d.ServiceTypeTag.Paired()
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}
