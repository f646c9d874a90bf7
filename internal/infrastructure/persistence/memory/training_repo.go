package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
)

// TrainingRepository implements training.Repository in memory.
type TrainingRepository struct {
	mu        sync.RWMutex
	seq       int64
	trainings map[int64]*training.Training
}

// NewTrainingRepository creates an empty TrainingRepository.
func NewTrainingRepository() *TrainingRepository {
	return &TrainingRepository{trainings: make(map[int64]*training.Training)}
}

// Insert stores a new training, assigning the next ID.
func (r *TrainingRepository) Insert(ctx context.Context, t *training.Training) (*training.Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	stored := *t
	stored.ID = r.seq
	r.trainings[stored.ID] = &stored

	out := stored
	return &out, nil
}

// FindByID returns the training with the given ID, or nil if none exists.
func (r *TrainingRepository) FindByID(ctx context.Context, id int64) (*training.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trainings[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

// FindAll returns every training ordered by ID.
func (r *TrainingRepository) FindAll(ctx context.Context) ([]*training.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*training.Training) bool { return true }), nil
}

// FindByUser returns trainings owned by the given user.
func (r *TrainingRepository) FindByUser(ctx context.Context, userID int64) ([]*training.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(t *training.Training) bool {
		return t.UserID == userID
	}), nil
}

// FindEndedAfter returns trainings whose end time is strictly after the
// threshold.
func (r *TrainingRepository) FindEndedAfter(ctx context.Context, threshold time.Time) ([]*training.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(t *training.Training) bool {
		return t.EndTime.After(threshold)
	}), nil
}

// FindByActivity returns trainings with exactly the given activity type.
func (r *TrainingRepository) FindByActivity(ctx context.Context, activity training.ActivityType) ([]*training.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(t *training.Training) bool {
		return t.ActivityType == activity
	}), nil
}

// Save upserts a training keyed by its ID. Held under the write lock, so the
// read-modify-write of a single record cannot interleave with another save.
func (r *TrainingRepository) Save(ctx context.Context, t *training.Training) (*training.Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *t
	if stored.ID == 0 {
		r.seq++
		stored.ID = r.seq
	}
	r.trainings[stored.ID] = &stored

	out := stored
	return &out, nil
}

// collect returns copies of all trainings matching the predicate, ordered by
// ID. Callers must hold at least the read lock.
func (r *TrainingRepository) collect(match func(*training.Training) bool) []*training.Training {
	out := make([]*training.Training, 0, len(r.trainings))
	for _, t := range r.trainings {
		if match(t) {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
