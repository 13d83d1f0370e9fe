package core

import "time"

// Summary is the compact stat block shown at the top of the dashboard.
type Summary struct {
	Projects       int
	ActiveProjects int
	Clients        int
	Hours          float64
	BillableHours  float64
}

// Summarize computes dashboard stats at now. Hour totals cover only the
// entries passing the filter; the caller is expected to pass the entries of
// the currently selected project.
func Summarize(projects []Project, clients []Client, entries []TimeEntry, filter Filter, now time.Time) Summary {
	s := Summary{
		Projects: len(projects),
		Clients:  len(clients),
	}
	for _, p := range projects {
		if p.Active {
			s.ActiveProjects++
		}
	}
	for _, e := range entries {
		if !filter.Matches(now, e.Date) {
			continue
		}
		s.Hours += e.Hours
		if e.Billable {
			s.BillableHours += e.Hours
		}
	}
	return s
}
