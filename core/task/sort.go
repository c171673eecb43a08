package task

import (
	"sort"

	"github.com/trezcool/protimer/core"
)

var priorityRank = map[string]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}

// DefaultOrdering is by date then start time.
var DefaultOrdering = []core.DBOrdering{{Field: "date", Ascending: true}, {Field: "start_time", Ascending: true}}

// Sort orders tasks the way the SQL repositories do, ties broken by id.
// Priorities sort by importance, high first.
func Sort(tasks []Task, ordering []core.DBOrdering) {
	if len(ordering) == 0 {
		ordering = DefaultOrdering
	}
	ordering = append(ordering[:len(ordering):len(ordering)], core.DBOrdering{Field: "id", Ascending: true})
	sort.SliceStable(tasks, func(i, j int) bool {
		for _, ord := range ordering {
			c := compare(tasks[i], tasks[j], ord.Field)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compare(a, b Task, field string) int {
	cmpStr := func(x, y string) int {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	cmpInt := func(x, y int) int { return x - y }
	b2i := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}

	switch field {
	case "name":
		return cmpStr(a.Name, b.Name)
	case "date":
		return cmpStr(a.Date, b.Date)
	case "start_time":
		return cmpStr(a.StartTime, b.StartTime)
	case "priority":
		return cmpInt(priorityRank[a.Priority], priorityRank[b.Priority])
	case "completed":
		return cmpInt(b2i(a.Completed), b2i(b.Completed))
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "id":
		return cmpInt(a.ID, b.ID)
	}
	return 0
}

// Matches reports whether t passes the filter.
func (qf QueryFilter) Matches(t Task) bool {
	return (qf.Date == "" || t.Date == qf.Date) &&
		(qf.Completed == nil || t.Completed == *qf.Completed) &&
		(qf.Priority == "" || t.Priority == qf.Priority)
}
