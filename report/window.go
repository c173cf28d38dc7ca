package report

import (
	"github.com/weaveworks/common/mtime"
)

// TimeWindow is the symbolic lower bound applied to relation fetches.
type TimeWindow string

// Time windows offered to the user.
const (
	WindowAll TimeWindow = "ALL"
	Window7D  TimeWindow = "7D"
	Window30D TimeWindow = "30D"
	Window90D TimeWindow = "90D"
)

// DefaultTimeWindow is selected until the user picks another.
const DefaultTimeWindow = Window30D

// TimeWindows lists the valid windows in display order.
var TimeWindows = []TimeWindow{WindowAll, Window7D, Window30D, Window90D}

const dateFormat = "2006-01-02"

var windowDays = map[TimeWindow]int{
	Window7D:  7,
	Window30D: 30,
	Window90D: 90,
}

// Valid returns true for the four known tokens.
func (w TimeWindow) Valid() bool {
	if w == WindowAll {
		return true
	}
	_, ok := windowDays[w]
	return ok
}

// ResolveTimeWindow maps a window token to a YYYY-MM-DD lower bound, with
// ok false meaning "no bound". Unknown tokens are unbounded rather than
// rejected. Now is read on every call.
func ResolveTimeWindow(w TimeWindow) (from string, ok bool) {
	days, known := windowDays[w]
	if !known {
		return "", false
	}
	return mtime.Now().UTC().AddDate(0, 0, -days).Format(dateFormat), true
}
