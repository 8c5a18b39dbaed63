// Package scanlog records discovery scan sessions to a compact CBOR event
// log.
//
// Each scan session emits a SessionStart event, one DeviceFound (and
// possibly DeviceResolved) event per discovered device, BrowseError events
// for failed subscriptions, and a SessionStop event. Events are appended to
// a file via FileLogger and read back with Reader.
//
// Applications that only want console output can wrap a *slog.Logger with
// SlogAdapter, or disable logging entirely with NoopLogger.
package scanlog
