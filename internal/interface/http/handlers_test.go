package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trainingapp "github.com/fittrack-hub/fitness-tracker-hub/internal/application/training"
	userapp "github.com/fittrack-hub/fitness-tracker-hub/internal/application/user"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/notification"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/persistence/memory"
)

type nopSender struct{}

func (nopSender) Send(ctx context.Context, p notification.Payload) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	users := memory.NewUserRepository()
	trainings := memory.NewTrainingRepository()

	cfg := DefaultConfig()
	cfg.EnableMetrics = false

	return NewServer(cfg, Dependencies{
		Trainings: trainingapp.NewService(trainings, users, nopSender{}, nil),
		Users:     userapp.NewService(users, nil),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func createUser(t *testing.T, s *Server, email string) userapp.UserDTO {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/v1/users", userapp.UserDTO{
		FirstName: "Emma",
		LastName:  "Johansson",
		Birthdate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Email:     email,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto userapp.UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.NotNil(t, dto.ID)
	return dto
}

func createTraining(t *testing.T, s *Server, userID int64, activity string, end time.Time) trainingapp.TrainingDTO {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/api/v1/trainings", trainingapp.TrainingDTO{
		UserID:       userID,
		StartTime:    end.Add(-time.Hour),
		EndTime:      end,
		ActivityType: activity,
		Distance:     10,
		AverageSpeed: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto trainingapp.TrainingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.NotNil(t, dto.ID)
	return dto
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestServer(t)

	created := createUser(t, s, "emma@domain.com")

	rec := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", *created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got userapp.UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.Email, got.Email)
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/users/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/users/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	createUser(t, s, "emma@domain.com")

	rec := doJSON(t, s, http.MethodPost, "/api/v1/users", userapp.UserDTO{
		FirstName: "Other",
		Birthdate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Email:     "emma@domain.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSearchUsers(t *testing.T) {
	s := newTestServer(t)

	createUser(t, s, "emma@domain.com")
	createUser(t, s, "erik@example.org")

	rec := doJSON(t, s, http.MethodGet, "/api/v1/users/search?email=domain", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var found []userapp.UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "emma@domain.com", found[0].Email)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/users/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "a search criterion is required")
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)

	created := createUser(t, s, "emma@domain.com")

	rec := doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", *created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", *created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTraining(t *testing.T) {
	s := newTestServer(t)

	owner := createUser(t, s, "emma@domain.com")
	end := time.Date(2024, 1, 19, 9, 30, 0, 0, time.UTC)
	created := createTraining(t, s, *owner.ID, "RUNNING", end)

	rec := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/v1/trainings/%d", *created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got trainingapp.TrainingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *owner.ID, got.UserID)
	assert.True(t, got.EndTime.Equal(end))
}

func TestCreateTrainingUnknownOwner(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/v1/trainings", trainingapp.TrainingDTO{
		UserID:       12345,
		StartTime:    time.Now().Add(-time.Hour),
		EndTime:      time.Now(),
		ActivityType: "RUNNING",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown owner is a client-input error")
}

func TestGetTrainingNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/trainings/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTrainingsEndedAfter(t *testing.T) {
	s := newTestServer(t)

	owner := createUser(t, s, "emma@domain.com")

	// Ends on January 19th: excluded for date=2024-01-19.
	createTraining(t, s, *owner.ID, "RUNNING", time.Date(2024, 1, 19, 23, 0, 0, 0, time.UTC))
	// Ends on January 20th: included.
	later := createTraining(t, s, *owner.ID, "RUNNING", time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC))

	rec := doJSON(t, s, http.MethodGet, "/api/v1/trainings/ended-after?date=2024-01-19", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []trainingapp.TrainingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1, "entries on the threshold date itself are excluded")
	assert.Equal(t, *later.ID, *got[0].ID)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/trainings/ended-after?date=19-01-2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/trainings/ended-after", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTrainingsByActivity(t *testing.T) {
	s := newTestServer(t)

	owner := createUser(t, s, "emma@domain.com")
	end := time.Date(2024, 1, 19, 9, 0, 0, 0, time.UTC)
	createTraining(t, s, *owner.ID, "RUNNING", end)
	createTraining(t, s, *owner.ID, "CYCLING", end)

	rec := doJSON(t, s, http.MethodGet, "/api/v1/trainings/activity/CYCLING", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []trainingapp.TrainingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "CYCLING", got[0].ActivityType)

	rec = doJSON(t, s, http.MethodGet, "/api/v1/trainings/activity/YOGA", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTrainingDistance(t *testing.T) {
	s := newTestServer(t)

	owner := createUser(t, s, "emma@domain.com")
	end := time.Date(2024, 1, 19, 9, 0, 0, 0, time.UTC)
	created := createTraining(t, s, *owner.ID, "RUNNING", end)

	rec := doJSON(t, s, http.MethodPatch,
		fmt.Sprintf("/api/v1/trainings/%d/distance", *created.ID),
		map[string]float64{"distance": 21.1})
	require.Equal(t, http.StatusOK, rec.Code)

	var got trainingapp.TrainingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 21.1, got.Distance)
	assert.Equal(t, created.ActivityType, got.ActivityType)

	rec = doJSON(t, s, http.MethodPatch, "/api/v1/trainings/404/distance",
		map[string]float64{"distance": 21.1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateTrainingFull(t *testing.T) {
	s := newTestServer(t)

	owner := createUser(t, s, "emma@domain.com")
	end := time.Date(2024, 1, 19, 9, 0, 0, 0, time.UTC)
	created := createTraining(t, s, *owner.ID, "RUNNING", end)

	rec := doJSON(t, s, http.MethodPut,
		fmt.Sprintf("/api/v1/trainings/%d", *created.ID),
		trainingapp.TrainingDTO{
			UserID:       99999, // ignored
			StartTime:    end,
			EndTime:      end.Add(time.Hour),
			ActivityType: "SWIMMING",
			Distance:     2,
			AverageSpeed: 2,
		})
	require.Equal(t, http.StatusOK, rec.Code)

	var got trainingapp.TrainingDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "SWIMMING", got.ActivityType)
	assert.Equal(t, *owner.ID, got.UserID, "owner is immutable")
}

func TestNotifyTrainingCompleted(t *testing.T) {
	s := newTestServer(t)

	owner := createUser(t, s, "emma@domain.com")
	end := time.Date(2024, 1, 19, 9, 30, 0, 0, time.UTC)
	created := createTraining(t, s, *owner.ID, "RUNNING", end)

	rec := doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/api/v1/trainings/%d/notify", *created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "emma@domain.com", got["recipient"])
	assert.Equal(t, notification.CompletionSubject, got["subject"])
	assert.Contains(t, got["body"], "60 minutes")
}

func TestNotifyTrainingCompletedOwnerDeleted(t *testing.T) {
	s := newTestServer(t)

	owner := createUser(t, s, "emma@domain.com")
	end := time.Date(2024, 1, 19, 9, 0, 0, 0, time.UTC)
	created := createTraining(t, s, *owner.ID, "RUNNING", end)

	rec := doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", *owner.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodPost,
		fmt.Sprintf("/api/v1/trainings/%d/notify", *created.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
