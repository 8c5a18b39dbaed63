// Package export renders a snapshot of the accessory inventory and the
// setup code vault into CSV, JSON, or plain text. The renderers are pure:
// they take both lists as arguments and write to an io.Writer, keeping no
// state of their own.
//
// Codes are joined to accessories by correlation id first, then by exact
// name. Codes that match no accessory still appear in every format as
// standalone entries.
package export
