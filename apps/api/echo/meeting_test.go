package echoapi

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/protimer/core/meeting"
)

func Test_meetingApi(t *testing.T) {
	env := setup(t)
	usr := env.createUser(t, "awe", "awe@test.cd", true)
	other := env.createUser(t, "other", "other@test.cd", true)
	token := env.getToken(t, usr)

	var standup, retro, foreign meeting.Meeting
	require.Equal(t, http.StatusCreated, env.doJSON(t, http.MethodPost, "/api/meetings", token, meeting.NewMeeting{
		Name: "Standup", Date: "2024-03-11", Time: "09:00", Duration: 15,
		Participants: []string{" ana ", "", "bo"},
	}, &standup))
	require.Equal(t, http.StatusCreated, env.doJSON(t, http.MethodPost, "/api/meetings", token, meeting.NewMeeting{
		Name: "Retro", Date: "2024-03-10", Time: "16:00", Duration: 60,
	}, &retro))
	require.Equal(t, http.StatusCreated, env.doJSON(t, http.MethodPost, "/api/meetings", env.getToken(t, other), meeting.NewMeeting{
		Name: "Private", Date: "2024-03-10",
	}, &foreign))

	assert.Equal(t, []string{"ana", "bo"}, standup.Participants)
	assert.Equal(t, []string{}, retro.Participants)
	assert.Equal(t, []string{}, retro.ActionItems)

	runHTTPTests(t, env, []httpTest{
		{
			name:     "invalid",
			method:   http.MethodPost,
			path:     "/api/meetings",
			token:    token,
			body:     marchallObj(t, meeting.NewMeeting{Name: "x", Date: "2024-03-10", Time: "9am", Duration: -1}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "list by date then time",
			method:   http.MethodGet,
			path:     "/api/meetings",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []meeting.Meeting{retro, standup}),
		},
		{
			name:     "list filtered by date",
			method:   http.MethodGet,
			path:     "/api/meetings?date=2024-03-11",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []meeting.Meeting{standup}),
		},
		{
			name:     "someone else's",
			method:   http.MethodDelete,
			path:     "/api/meetings/" + strconv.Itoa(foreign.ID),
			token:    token,
			wantCode: http.StatusForbidden,
		},
	})

	t.Run("update", func(t *testing.T) {
		var updated meeting.Meeting
		require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodPut, "/api/meetings/"+strconv.Itoa(standup.ID), token,
			map[string]interface{}{"notes": "all good", "action_items": []string{"ship it"}}, &updated))
		assert.Equal(t, "all good", updated.Notes)
		assert.Equal(t, []string{"ship it"}, updated.ActionItems)
		assert.Equal(t, standup.Participants, updated.Participants)
		assert.Equal(t, standup.Duration, updated.Duration)
	})

	t.Run("delete", func(t *testing.T) {
		path := "/api/meetings/" + strconv.Itoa(retro.ID)
		assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, token).Code)
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, token).Code)
	})
}
