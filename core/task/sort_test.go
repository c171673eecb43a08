package task

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/protimer/core"
)

func TestSort(t *testing.T) {
	newTasks := func() []Task {
		return []Task{
			{ID: 1, Name: "b", Date: "2024-03-10", StartTime: "10:00", Priority: PriorityLow},
			{ID: 2, Name: "a", Date: "2024-03-10", StartTime: "08:00", Priority: PriorityHigh, Completed: true},
			{ID: 3, Name: "c", Date: "2024-03-09", Priority: PriorityMedium},
			{ID: 4, Name: "a", Date: "2024-03-09", Priority: PriorityLow},
		}
	}
	ids := func(tasks []Task) []int {
		out := make([]int, 0, len(tasks))
		for _, tsk := range tasks {
			out = append(out, tsk.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     []int
	}{
		{name: "default", want: []int{3, 4, 2, 1}},
		{name: "priority asc", ordering: []core.DBOrdering{{Field: "priority", Ascending: true}}, want: []int{2, 3, 1, 4}},
		{name: "priority desc", ordering: []core.DBOrdering{{Field: "priority"}}, want: []int{1, 4, 3, 2}},
		{name: "name then date desc", ordering: []core.DBOrdering{{Field: "name", Ascending: true}, {Field: "date"}}, want: []int{2, 4, 1, 3}},
		{name: "completed", ordering: []core.DBOrdering{{Field: "completed"}}, want: []int{2, 1, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := newTasks()
			Sort(tasks, tt.ordering)
			assert.Equal(t, tt.want, ids(tasks))
		})
	}
}

func TestQueryFilter_Matches(t *testing.T) {
	yes, no := true, false
	tsk := Task{Date: "2024-03-10", Priority: PriorityHigh, Completed: true}

	assert.True(t, QueryFilter{}.Matches(tsk))
	assert.True(t, QueryFilter{Date: "2024-03-10", Completed: &yes, Priority: PriorityHigh}.Matches(tsk))
	assert.False(t, QueryFilter{Date: "2024-03-11"}.Matches(tsk))
	assert.False(t, QueryFilter{Completed: &no}.Matches(tsk))
	assert.False(t, QueryFilter{Priority: PriorityLow}.Matches(tsk))
}
