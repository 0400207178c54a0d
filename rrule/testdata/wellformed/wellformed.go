// Package wellformed is the control for misuse: the same calls, validated first.
package wellformed

import (
	"time"

	"github.com/warp/recurrence/core"
	"github.com/warp/recurrence/rrule"
)

func consume(r rrule.RRule[core.Validated]) bool {
	return rrule.Matches(r, time.Now())
}

func PassValidated() (bool, error) {
	v, err := rrule.Validate(rrule.New(rrule.Daily, time.Now()))
	if err != nil {
		return false, err
	}
	return consume(v), nil
}
