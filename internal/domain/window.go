package domain

import "time"

// KST is the timezone all report boundaries and human-readable dates use.
// A fixed offset is fine here since KST has no daylight saving.
var KST = time.FixedZone("KST", 9*60*60)

const (
	anchorWeekday = time.Friday
	anchorHour    = 16
)

// ReportWindow is the 7-day interval a weekly report covers. End always falls
// on a Friday at 16:00 KST; Start is exactly seven days earlier.
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

// ResolveWindow computes the window for a run at the given instant. End is the
// anchor instant on the current or upcoming Friday: when the run happens on a
// Friday, End is that day's 16:00 whether the run is before or after it.
func ResolveWindow(now time.Time) ReportWindow {
	nowKST := now.In(KST)
	daysUntilFriday := (int(anchorWeekday) - int(nowKST.Weekday()) + 7) % 7
	end := time.Date(nowKST.Year(), nowKST.Month(), nowKST.Day()+daysUntilFriday, anchorHour, 0, 0, 0, KST)
	return ReportWindow{Start: end.AddDate(0, 0, -7), End: end}
}

// Contains reports whether t falls inside the window, inclusive on both ends.
// A review submitted exactly on a boundary counts toward the report.
func (w ReportWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
