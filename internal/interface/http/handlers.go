package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	trainingapp "github.com/fittrack-hub/fitness-tracker-hub/internal/application/training"
	userapp "github.com/fittrack-hub/fitness-tracker-hub/internal/application/user"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/shared"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
	"github.com/fittrack-hub/fitness-tracker-hub/pkg/timeutil"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain error kinds onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case shared.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case shared.IsAlreadyExists(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, shared.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// ─────────────────────────────────────────────────────────────────────────────
// Health handlers
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthCheck != nil {
		if err := s.deps.HealthCheck(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"reason": err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ─────────────────────────────────────────────────────────────────────────────
// User handlers
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Users.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var dto userapp.UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := s.deps.Users.Create(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	dto, err := s.deps.Users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if dto == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	var dto userapp.UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.deps.Users.Update(r.Context(), id, dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	if err := s.deps.Users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSearchUsers searches by email fragment or by minimum age, exactly
// one of which must be provided.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	ageParam := r.URL.Query().Get("age")

	switch {
	case email != "":
		users, err := s.deps.Users.SearchByEmail(r.Context(), email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	case ageParam != "":
		age, err := strconv.Atoi(ageParam)
		if err != nil || age < 0 {
			writeBadRequest(w, "invalid age")
			return
		}
		users, err := s.deps.Users.ListOlderThan(r.Context(), age)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	default:
		writeBadRequest(w, "either email or age query parameter is required")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Training handlers
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := s.deps.Trainings.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trainings)
}

func (s *Server) handleCreateTraining(w http.ResponseWriter, r *http.Request) {
	var dto trainingapp.TrainingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := s.deps.Trainings.Create(r.Context(), dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTraining(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid training id")
		return
	}

	dto, err := s.deps.Trainings.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if dto == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "training not found"})
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleListTrainingsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}

	trainings, err := s.deps.Trainings.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trainings)
}

// handleListTrainingsEndedAfter expects date=YYYY-MM-DD. The threshold
// passed to the service is the midnight following that date, so trainings
// ending on the date itself are excluded.
func (s *Server) handleListTrainingsEndedAfter(w http.ResponseWriter, r *http.Request) {
	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		writeBadRequest(w, "date query parameter is required")
		return
	}

	date, err := timeutil.ParseDate(dateParam)
	if err != nil {
		writeBadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	trainings, err := s.deps.Trainings.ListEndedAfter(r.Context(), timeutil.NextMidnight(date))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trainings)
}

func (s *Server) handleListTrainingsByActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := training.ParseActivityType(r.PathValue("activityType"))
	if err != nil {
		writeError(w, err)
		return
	}

	trainings, err := s.deps.Trainings.ListByActivity(r.Context(), activity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trainings)
}

func (s *Server) handleUpdateTraining(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid training id")
		return
	}

	var dto trainingapp.TrainingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.deps.Trainings.UpdateFull(r.Context(), id, dto)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleUpdateTrainingDistance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid training id")
		return
	}

	var body struct {
		Distance float64 `json:"distance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := s.deps.Trainings.UpdateDistance(r.Context(), id, body.Distance)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleNotifyTrainingCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid training id")
		return
	}

	payload, err := s.deps.Trainings.ComposeCompletionNotification(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"recipient": payload.RecipientAddress,
		"subject":   payload.Subject,
		"body":      payload.Body,
	})
}
