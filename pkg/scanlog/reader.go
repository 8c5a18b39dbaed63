package scanlog

import (
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Reader reads scan events from a CBOR-encoded log file.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
}

// NewReader opens a scan log file for reading.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		file:    f,
		decoder: NewDecoder(f),
	}, nil
}

// Next returns the next event in the log.
// Returns io.EOF when the end of the file is reached.
func (r *Reader) Next() (Event, error) {
	var event Event
	if err := r.decoder.Decode(&event); err != nil {
		if err == io.EOF {
			return Event{}, io.EOF
		}
		return Event{}, err
	}
	return event, nil
}

// ReadAll reads every remaining event in the log.
func (r *Reader) ReadAll() ([]Event, error) {
	var events []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
