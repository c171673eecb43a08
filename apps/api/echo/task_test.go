package echoapi

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core/task"
)

func Test_taskApi(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "awe", "awe@test.cd", true)
	other := env.createUser(t, "other", "other@test.cd", true)
	token := env.getToken(t, usr)
	otherToken := env.getToken(t, other)

	create := func(t *testing.T, token string, nt task.NewTask) task.Task {
		t.Helper()
		var created task.Task
		require.Equal(t, http.StatusCreated, env.doJSON(t, http.MethodPost, "/api/tasks", token, nt, &created))
		return created
	}

	t1 := create(t, token, task.NewTask{Name: "  Read  ", Date: "2024-03-10", StartTime: "10:00", Priority: "LOW"})
	t2 := create(t, token, task.NewTask{Name: "Write", Date: "2024-03-10", StartTime: "08:00", Priority: "high"})
	t3 := create(t, token, task.NewTask{Name: "Review", Date: "2024-03-09", Completed: true})
	foreign := create(t, otherToken, task.NewTask{Name: "Not yours", Date: "2024-03-10"})

	assert.Equal(t, "Read", t1.Name)
	assert.Equal(t, task.PriorityLow, t1.Priority)
	assert.Equal(t, task.PriorityMedium, t3.Priority)
	assert.Equal(t, usr.ID, t1.UserID)

	t.Run("create validation", func(t *testing.T) {
		runHTTPTests(t, env, []httpTest{
			{
				name:     "missing fields",
				method:   http.MethodPost,
				path:     "/api/tasks",
				token:    token,
				body:     marchallObj(t, task.NewTask{Name: "  "}),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{
					"name": "this field is required",
					"date": "this field is required",
				}),
			},
			{
				name:     "bad priority and clock",
				method:   http.MethodPost,
				path:     "/api/tasks",
				token:    token,
				body:     marchallObj(t, task.NewTask{Name: "x", Date: "2024-03-10", StartTime: "25:00", Priority: "urgent"}),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{
					"start_time": "time must be formatted as HH:MM",
					"priority":   "priority must be one of high, medium, low",
				}),
			},
			{
				name:     "end before start",
				method:   http.MethodPost,
				path:     "/api/tasks",
				token:    token,
				body:     marchallObj(t, task.NewTask{Name: "x", Date: "2024-03-10", StartTime: "10:00", EndTime: "09:00"}),
				wantCode: http.StatusBadRequest,
				wantData: marchallObj(t, map[string]string{"end_time": "end_time cannot be before start_time"}),
			},
			{
				name:     "unauthenticated",
				method:   http.MethodPost,
				path:     "/api/tasks",
				body:     marchallObj(t, task.NewTask{Name: "x", Date: "2024-03-10"}),
				wantCode: http.StatusUnauthorized,
			},
		})
	})

	t.Run("list", func(t *testing.T) {
		ids := func(path string) []int {
			var tasks []task.Task
			require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, path, token, nil, &tasks))
			out := make([]int, 0, len(tasks))
			for _, tsk := range tasks {
				out = append(out, tsk.ID)
			}
			return out
		}

		assert.Equal(t, []int{t3.ID, t2.ID, t1.ID}, ids("/api/tasks"))
		assert.Equal(t, []int{t2.ID, t1.ID}, ids("/api/tasks/date/2024-03-10"))
		assert.Equal(t, []int{t2.ID, t1.ID}, ids("/api/tasks?date=2024-03-10"))
		assert.Equal(t, []int{t3.ID}, ids("/api/tasks?completed=true"))
		assert.Equal(t, []int{t2.ID}, ids("/api/tasks?priority=high"))
		assert.Equal(t, []int{t2.ID, t3.ID, t1.ID}, ids("/api/tasks?ordering=priority"))
		assert.Equal(t, []int{t2.ID, t3.ID, t1.ID}, ids("/api/tasks?ordering=-name"))
		assert.Equal(t, []int{}, ids("/api/tasks/date/2020-01-01"))

		rec := env.do(http.MethodGet, "/api/tasks/date/not-a-date", token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("detail", func(t *testing.T) {
		path := "/api/tasks/" + strconv.Itoa(t1.ID)
		runHTTPTests(t, env, []httpTest{
			{
				name:     "retrieve",
				method:   http.MethodGet,
				path:     path,
				token:    token,
				wantCode: http.StatusOK,
				wantData: marchallObj(t, t1),
			},
			{
				name:     "someone else's",
				method:   http.MethodGet,
				path:     "/api/tasks/" + strconv.Itoa(foreign.ID),
				token:    token,
				wantCode: http.StatusForbidden,
			},
			{
				name:     "unknown",
				method:   http.MethodGet,
				path:     "/api/tasks/9999",
				token:    token,
				wantCode: http.StatusNotFound,
				wantData: marchallObj(t, httpErr{Error: task.ErrNotFound.Error()}),
			},
			{
				name:     "malformed id",
				method:   http.MethodGet,
				path:     "/api/tasks/abc",
				token:    token,
				wantCode: http.StatusNotFound,
			},
			{
				name:     "end before kept start",
				method:   http.MethodPut,
				path:     path,
				token:    token,
				body:     []byte(`{"end_time": "09:30"}`),
				wantCode: http.StatusBadRequest,
			},
		})
	})

	t.Run("update", func(t *testing.T) {
		var updated task.Task
		code := env.doJSON(t, http.MethodPut, "/api/tasks/"+strconv.Itoa(t1.ID), token,
			map[string]interface{}{"completed": true, "end_time": "11:00"}, &updated)
		require.Equal(t, http.StatusOK, code)
		assert.True(t, updated.Completed)
		assert.Equal(t, "11:00", updated.EndTime)
		assert.Equal(t, t1.Name, updated.Name)
		assert.Equal(t, t1.StartTime, updated.StartTime)

		code = env.doJSON(t, http.MethodPut, "/api/tasks/"+strconv.Itoa(foreign.ID), token,
			map[string]interface{}{"completed": true}, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, "/api/tasks/"+strconv.Itoa(foreign.ID), token).Code)
		assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/tasks/"+strconv.Itoa(t3.ID), token).Code)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/tasks/"+strconv.Itoa(t3.ID), token).Code)
	})
}
