package parse

import (
	"strings"

	"github.com/eviepay/vss-settlement/record"
)

// ParseHeader best-effort decodes the optional leading file header
// line: a 13-digit routing number followed by whitespace-separated
// timestamp, sequence number, client id, and file-sequence tokens.
// The header is never fatal to parse -- it is preserved verbatim
// regardless of how many of the trailing tokens are present.
func ParseHeader(line string, jobID string, lineNumber int) *record.EpinFileHeader {
	env := record.Envelope{JobID: jobID, RawLine: line, LineNumber: lineNumber, IsValid: true}
	hdr := &record.EpinFileHeader{Envelope: env}

	if len(line) < 13 {
		hdr.Envelope.AddError("header line shorter than routing number field")
		return hdr
	}
	hdr.RoutingNumber = line[0:13]

	fields := strings.Fields(strings.TrimSpace(line[13:]))
	if len(fields) > 0 {
		hdr.FileTimestampRaw = fields[0]
	}
	if len(fields) > 1 {
		hdr.SequenceNumber = fields[1]
	}
	if len(fields) > 2 {
		hdr.ClientID = fields[2]
	}
	if len(fields) > 3 {
		hdr.FileSequence = fields[3]
	}

	return hdr
}
