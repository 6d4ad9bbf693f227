package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/geopin/geopin-bot/internal/group"
	"github.com/geopin/geopin-bot/internal/location"
	"github.com/geopin/geopin-bot/internal/repository"
	"github.com/geopin/geopin-bot/internal/user"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDB(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := repository.NewUserRepository(db, log)
	groups := repository.NewGroupRepository(db, log)
	locations := repository.NewLocationRepository(db, log)

	handler := NewHandler(
		user.NewService(users, log),
		group.NewService(groups, users, log),
		location.NewService(locations, users, log),
		nil,
		log,
	)

	return handler.InitRoutes()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env), "body: %s", recorder.Body.String())

	return recorder, env
}

func registerUser(t *testing.T, router *gin.Engine, telegramID int64, username, firstName string) {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/api/user/add", gin.H{
		"telegram_id": telegramID,
		"username":    username,
		"first_name":  firstName,
	})
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, rec.Code)
	require.Equal(t, "success", env.Status)
}

func trainingStage(t *testing.T, env envelope) int {
	t.Helper()

	var data struct {
		TrainingStage int `json:"training_stage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.TrainingStage
}

func TestOnboardingFlow(t *testing.T) {
	router := newTestRouter(t)

	// new user starts at stage 0
	rec, env := doJSON(t, router, http.MethodPost, "/api/user/add", gin.H{
		"telegram_id": 42, "username": "ivan", "first_name": "Ivan",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 0, trainingStage(t, env))

	// opening the map advances to 1
	_, env = doJSON(t, router, http.MethodPost, "/api/user/update_training_stage", gin.H{
		"telegram_id": 42, "new_training_stage": 1,
	})
	require.Equal(t, 1, trainingStage(t, env))

	// location saved advances to at least 3
	rec, _ = doJSON(t, router, http.MethodPost, "/api/location/add", gin.H{
		"telegram_id": 42, "latitude": 55.7, "longitude": 37.6, "description": "home",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	_, env = doJSON(t, router, http.MethodPost, "/api/user/update_training_stage", gin.H{
		"telegram_id": 42, "new_training_stage": 3,
	})
	require.GreaterOrEqual(t, trainingStage(t, env), 3)

	// the stored location is listed for its owner
	rec, env = doJSON(t, router, http.MethodGet, "/api/user/42/locations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var locations []LocationSummary
	require.NoError(t, json.Unmarshal(env.Data, &locations))
	require.Len(t, locations, 1)
	require.Equal(t, "home", locations[0].Description)

	// listing graduates the user; repeating the update changes nothing
	for i := 0; i < 2; i++ {
		_, env = doJSON(t, router, http.MethodPost, "/api/user/update_training_stage", gin.H{
			"telegram_id": 42, "new_training_stage": 4,
		})
		require.Equal(t, 4, trainingStage(t, env))
	}

	// an out-of-order action never lowers the stage
	_, env = doJSON(t, router, http.MethodPost, "/api/user/update_training_stage", gin.H{
		"telegram_id": 42, "new_training_stage": 1,
	})
	require.Equal(t, 4, trainingStage(t, env))

	// explicit repeat resets with force
	_, env = doJSON(t, router, http.MethodPost, "/api/user/update_training_stage", gin.H{
		"telegram_id": 42, "new_training_stage": 0, "force": true,
	})
	require.Equal(t, 0, trainingStage(t, env))
}

func TestGroupSlugsAreSuffixed(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, 100, "admin1", "First")
	registerUser(t, router, 200, "admin2", "Second")

	var links []string
	for _, id := range []int64{100, 200} {
		rec, env := doJSON(t, router, http.MethodPost, "/api/group/create", gin.H{
			"telegram_id": id, "title": "Bike Club",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var data struct {
			GroupLink string `json:"group_link"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		links = append(links, data.GroupLink)
	}

	require.Equal(t, []string{"bike-club", "bike-club-1"}, links)
}

func TestJoinGroupIdempotent(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, 100, "admin", "Admin")
	registerUser(t, router, 200, "member", "Member")

	_, env := doJSON(t, router, http.MethodPost, "/api/group/create", gin.H{
		"telegram_id": 100, "title": "Hiking",
	})
	var created struct {
		GroupLink string `json:"group_link"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env := doJSON(t, router, http.MethodPost, "/api/group/"+created.GroupLink+"/join", gin.H{"telegram_id": 200})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "success", env.Status)

	rec, env = doJSON(t, router, http.MethodPost, "/api/group/"+created.GroupLink+"/join", gin.H{"telegram_id": 200})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", env.Status)
	require.Equal(t, "Пользователь уже в группе", env.Message)

	// membership listed exactly once
	_, env = doJSON(t, router, http.MethodGet, "/api/user/200/groups", nil)
	var groups []GroupSummary
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups, 1)
}

func TestJoinNonexistentInvite(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, 200, "member", "Member")

	rec, env := doJSON(t, router, http.MethodGet, "/api/invite/no-such-code/check", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "error", env.Status)

	rec, env = doJSON(t, router, http.MethodPost, "/api/group/no-such-code/join", gin.H{"telegram_id": 200})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "error", env.Status)

	// no membership was created
	_, env = doJSON(t, router, http.MethodGet, "/api/user/200/groups", nil)
	var groups []GroupSummary
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Empty(t, groups)
}

func TestDeleteGroup(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, 100, "admin", "Admin")
	registerUser(t, router, 200, "member", "Member")

	_, env := doJSON(t, router, http.MethodPost, "/api/group/create", gin.H{
		"telegram_id": 100, "title": "Climbing",
	})
	var created struct {
		GroupLink string `json:"group_link"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	_, env = doJSON(t, router, http.MethodPost, "/api/group/"+created.GroupLink+"/join", gin.H{"telegram_id": 200})

	_, env = doJSON(t, router, http.MethodGet, "/api/invite/"+created.GroupLink+"/check", nil)
	var invite InviteCheck
	require.NoError(t, json.Unmarshal(env.Data, &invite))

	groupPath := fmt.Sprintf("/api/group/%d/delete", invite.GroupID)

	// a non-admin cannot delete and the group's existence is not revealed
	rec, _ := doJSON(t, router, http.MethodDelete, groupPath, gin.H{"telegram_id": 200})
	require.Equal(t, http.StatusNotFound, rec.Code)

	// still intact
	rec, _ = doJSON(t, router, http.MethodGet, "/api/invite/"+created.GroupLink+"/check", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// the admin deletes it, cascading memberships
	rec, _ = doJSON(t, router, http.MethodDelete, groupPath, gin.H{"telegram_id": 100})
	require.Equal(t, http.StatusOK, rec.Code)

	_, env = doJSON(t, router, http.MethodGet, "/api/user/200/groups", nil)
	var groups []GroupSummary
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Empty(t, groups)
}

func TestValidationErrors(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, 42, "ivan", "Ivan")

	testCases := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{name: "user add without telegram_id", method: http.MethodPost, path: "/api/user/add", body: gin.H{"username": "x"}},
		{name: "stage update without stage", method: http.MethodPost, path: "/api/user/update_training_stage", body: gin.H{"telegram_id": 42}},
		{name: "location without coordinates", method: http.MethodPost, path: "/api/location/add", body: gin.H{"telegram_id": 42, "description": "x"}},
		{name: "group create without title", method: http.MethodPost, path: "/api/group/create", body: gin.H{"telegram_id": 42}},
		{name: "join without body", method: http.MethodPost, path: "/api/group/some-code/join", body: nil},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doJSON(t, router, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, "error", env.Status)
		})
	}
}

func TestAllMapData(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, 42, "ivan", "Ivan")

	_, _ = doJSON(t, router, http.MethodPost, "/api/location/add", gin.H{
		"telegram_id": 42, "latitude": 55.7, "longitude": 37.6, "description": "home",
	})

	rec, env := doJSON(t, router, http.MethodGet, "/api/all-map-data", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Locations []struct {
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			Description string  `json:"description"`
			FirstName   string  `json:"first_name"`
			Username    string  `json:"username"`
		} `json:"locations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Locations, 1)
	require.Equal(t, "Ivan", data.Locations[0].FirstName)
}
