package monitor

import "bytes"

// markerByte is the value tallied as a "signal" whenever it appears anywhere
// in a response body.
const markerByte = 128

// markerScanner is an io.Writer that discards everything written to it while
// scanning for a marker byte. The scan accumulates across chunks: once the
// marker is seen, found stays set until Reset, and later chunks are no longer
// searched.
type markerScanner struct {
	marker byte
	found  bool
}

func newMarkerScanner(marker byte) *markerScanner {
	return &markerScanner{marker: marker}
}

// Write never fails; the body is consumed in full so the connection can be
// reused.
func (s *markerScanner) Write(p []byte) (int, error) {
	if !s.found && bytes.IndexByte(p, s.marker) >= 0 {
		s.found = true
	}
	return len(p), nil
}

// Found reports whether the marker has been seen since the last Reset.
func (s *markerScanner) Found() bool {
	return s.found
}

// Reset prepares the scanner for the next response.
func (s *markerScanner) Reset() {
	s.found = false
}
