package core

// Segments holds the three encoded parts of a compact JWT exactly as they
// appeared in the source string.
type Segments struct {
	Header    string
	Payload   string
	Signature string
}

// SigningInput returns the bytes every signature family signs: the raw
// header and payload segments joined by a dot.
func (s Segments) SigningInput() string {
	return SigningInput(s.Header, s.Payload)
}

// String reassembles the compact serialization.
func (s Segments) String() string {
	return Join(s.Header, s.Payload, s.Signature)
}

const (
	// SegmentCount is the number of dot-separated parts in a compact JWT.
	SegmentCount = 3

	separator = '.'
)
