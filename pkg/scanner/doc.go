// Package scanner implements the bounded local-network census of HomeKit
// and Matter advertisements.
//
// A scan session opens one passive mDNS browse subscription per known
// service type (_hap._tcp, _matterc._udp, _matter._tcp), deduplicates
// observations by (instance name, service type), attempts a bounded
// endpoint resolution for each new device, and stops automatically after a
// fixed scan window.
//
// # Lifecycle
//
// The scanner moves between exactly two states: Idle and Scanning.
// StartScan enters Scanning (stopping any active session first) and
// StopScan or the scan-window timer returns it to Idle. Subscription and
// resolution failures never abort the session; they degrade the affected
// device or subscription only.
//
// # Events
//
// Results stream to the consumer through a callback registered with
// OnEvent. Within one service type's subscription, events arrive in
// advertisement order; across service types no interleaving is defined.
package scanner
