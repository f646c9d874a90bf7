package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
)

// TrainingRepository implements training.Repository for PostgreSQL.
type TrainingRepository struct {
	conn *Connection
}

// NewTrainingRepository creates a new TrainingRepository.
func NewTrainingRepository(conn *Connection) *TrainingRepository {
	return &TrainingRepository{conn: conn}
}

const trainingColumns = "id, user_id, start_time, end_time, activity_type, distance, average_speed"

// Insert persists a new training and returns it with its assigned ID.
func (r *TrainingRepository) Insert(ctx context.Context, t *training.Training) (*training.Training, error) {
	query := `
		INSERT INTO trainings (user_id, start_time, end_time, activity_type, distance, average_speed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + trainingColumns

	row := r.conn.QueryRow(ctx, query,
		t.UserID,
		t.StartTime,
		t.EndTime,
		string(t.ActivityType),
		t.Distance,
		t.AverageSpeed,
	)
	saved, err := scanTraining(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert training: %w", err)
	}
	return saved, nil
}

// FindByID returns the training with the given ID, or nil if none exists.
func (r *TrainingRepository) FindByID(ctx context.Context, id int64) (*training.Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings WHERE id = $1`

	t, err := scanTraining(r.conn.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find training by id: %w", err)
	}
	return t, nil
}

// FindAll returns every training ordered by ID.
func (r *TrainingRepository) FindAll(ctx context.Context) ([]*training.Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings ORDER BY id`
	return r.queryTrainings(ctx, query)
}

// FindByUser returns trainings owned by the given user.
func (r *TrainingRepository) FindByUser(ctx context.Context, userID int64) ([]*training.Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings WHERE user_id = $1 ORDER BY id`
	return r.queryTrainings(ctx, query, userID)
}

// FindEndedAfter returns trainings whose end time is strictly after the
// threshold.
func (r *TrainingRepository) FindEndedAfter(ctx context.Context, threshold time.Time) ([]*training.Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings WHERE end_time > $1 ORDER BY id`
	return r.queryTrainings(ctx, query, threshold)
}

// FindByActivity returns trainings with exactly the given activity type.
func (r *TrainingRepository) FindByActivity(ctx context.Context, activity training.ActivityType) ([]*training.Training, error) {
	query := `SELECT ` + trainingColumns + ` FROM trainings WHERE activity_type = $1 ORDER BY id`
	return r.queryTrainings(ctx, query, string(activity))
}

// Save upserts a training keyed by its ID. A single statement, so the
// per-record write is atomic on the database side.
func (r *TrainingRepository) Save(ctx context.Context, t *training.Training) (*training.Training, error) {
	query := `
		INSERT INTO trainings (id, user_id, start_time, end_time, activity_type, distance, average_speed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			activity_type = EXCLUDED.activity_type,
			distance = EXCLUDED.distance,
			average_speed = EXCLUDED.average_speed
		RETURNING ` + trainingColumns

	row := r.conn.QueryRow(ctx, query,
		t.ID,
		t.UserID,
		t.StartTime,
		t.EndTime,
		string(t.ActivityType),
		t.Distance,
		t.AverageSpeed,
	)
	saved, err := scanTraining(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save training: %w", err)
	}
	return saved, nil
}

func (r *TrainingRepository) queryTrainings(ctx context.Context, query string, args ...any) ([]*training.Training, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trainings: %w", err)
	}
	defer rows.Close()

	trainings := make([]*training.Training, 0)
	for rows.Next() {
		t, err := scanTraining(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training: %w", err)
		}
		trainings = append(trainings, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trainings: %w", err)
	}
	return trainings, nil
}

func scanTraining(row pgx.Row) (*training.Training, error) {
	var (
		t        training.Training
		activity string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.StartTime, &t.EndTime, &activity, &t.Distance, &t.AverageSpeed)
	if err != nil {
		return nil, err
	}
	t.ActivityType = training.ActivityType(activity)
	return &t, nil
}
