package models

// Period is the coarse time window sent to list and report endpoints.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// HistoryPeriods are the windows the inventory history and orders lists accept.
var HistoryPeriods = []Period{PeriodAll, PeriodWeek, PeriodMonth}

// ReportPeriods are the windows the sales report accepts.
var ReportPeriods = []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodAll}

// ParsePeriod returns the period for s when it is one of allowed.
func ParsePeriod(s string, allowed []Period) (Period, bool) {
	for _, p := range allowed {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Label returns the filter label shown next to lists
func (p Period) Label() string {
	switch p {
	case PeriodDay:
		return "Today"
	case PeriodWeek:
		return "This Week"
	case PeriodMonth:
		return "This Month"
	default:
		return "All Time"
	}
}
