package alert

import "github.com/trezcool/proctor/core"

// Filter keeps the alerts matching every present criterion, in their original order.
func Filter(alerts []Alert, qf QueryFilter) []Alert {
	if qf.IsEmpty() {
		return alerts
	}
	return core.FilterSlice(alerts, func(a Alert) bool { return Match(a, qf) })
}

func Match(a Alert, qf QueryFilter) bool {
	return core.ContainsFold(qf.Search, a.Title, a.Message) &&
		Severities.Match(a.Severity, qf.Severity) &&
		Statuses.Match(a.Status, qf.Status)
}
