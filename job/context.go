package job

import "github.com/eviepay/vss-settlement/record"

// parentContext is the pipeline-local, single-slot "active parent
// TCR0" cache (§4.3). It is created fresh per submit/retry call and
// passed by value/pointer between batch invocations -- never shared
// across jobs -- so concurrent jobs never interfere with each other's
// carry-over state.
type parentContext struct {
	active *record.Vss120LikeRecord
}

// set makes rec the active parent for subsequent TCR1 lines.
func (c *parentContext) set(rec *record.Vss120LikeRecord) {
	c.active = rec
}

// get returns the active parent, or nil if none is cached (a restart
// between batches, or a TCR1 as the very first subgroup-4 line).
func (c *parentContext) get() *record.Vss120LikeRecord {
	return c.active
}
