// Package model defines the data types shared by the scanner, vault,
// inventory and export layers.
//
// # Records
//
// SetupCodeRecord is a user-entered setup code kept in the protected vault.
// AccessoryRecord is a manually curated inventory entry. DiscoveredDevice is
// an ephemeral, session-scoped observation from one local-network scan; it is
// never persisted.
//
// # Service types
//
// Devices are classified by the mDNS service type that advertised them:
//
//   - _hap._tcp      HomeKit Accessory Protocol
//   - _matterc._udp  Matter commissioning (unpaired)
//   - _matter._tcp   Matter operational (paired)
//
// A device advertising _matter._tcp is treated as paired. This is a
// classification heuristic based purely on the advertised service type; no
// pairing handshake is performed.
//
// # Setup codes
//
// Setup codes are stored as raw digit strings and displayed in the
// XXX-XX-XXX grouping printed on HomeKit accessory labels.
package model
