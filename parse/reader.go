package parse

import (
	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/verr"
)

// fieldReader extracts fields from one line against one envelope,
// uniformly applying the strict/lenient error policy: in strict mode a
// missing field aborts parsing (err returned to caller); in lenient
// mode the envelope is marked invalid and extraction continues with an
// empty string so the rest of the record can still be decoded.
type fieldReader struct {
	line   string
	env    *record.Envelope
	opts   Options
	format verr.FormatTag
	fatal  error
}

func newFieldReader(line string, env *record.Envelope, opts Options, format verr.FormatTag) *fieldReader {
	return &fieldReader{line: line, env: env, opts: opts, format: format}
}

// get extracts f, recording or failing per the strict/lenient policy.
// Once fatal is set, subsequent calls are no-ops returning "".
func (r *fieldReader) get(f codec.Field) string {
	if r.fatal != nil {
		return ""
	}
	v, err := codec.Extract(r.line, f, r.format, r.env.LineNumber)
	if err != nil {
		if r.opts.Strict {
			r.fatal = err
			return ""
		}
		r.env.AddError(err.Error())
		return ""
	}
	return v
}

// err returns the first fatal error encountered, if any (strict mode only).
func (r *fieldReader) err() error { return r.fatal }
