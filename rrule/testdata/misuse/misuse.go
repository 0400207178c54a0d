// Package misuse must not compile: it hands unvalidated rules to code that
// requires validated ones.
package misuse

import (
	"time"

	"github.com/warp/recurrence/core"
	"github.com/warp/recurrence/rrule"
)

func consume(r rrule.RRule[core.Validated]) bool {
	return rrule.Matches(r, time.Now())
}

func PassUnvalidated() bool {
	r := rrule.New(rrule.Daily, time.Now())
	return consume(r)
}

func MatchUnvalidated() bool {
	return rrule.Matches(rrule.New(rrule.Daily, time.Now()), time.Now())
}

func ConvertUnvalidated() rrule.RRule[core.Validated] {
	return rrule.RRule[core.Validated](rrule.New(rrule.Daily, time.Now()))
}
