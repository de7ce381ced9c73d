package record

import "time"

// EpinFileHeader is the optional leading header line of an EPIN file:
// a 13-digit routing number followed by a space-separated timestamp,
// sequence number, client id, and file-sequence token. Preserved
// verbatim and parsed best-effort.
type EpinFileHeader struct {
	Envelope

	RoutingNumber    string
	FileTimestampRaw string
	FileTimestamp    time.Time
	SequenceNumber   string
	ClientID         string
	FileSequence     string
}
