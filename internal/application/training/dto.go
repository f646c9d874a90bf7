// Package training implements the training management service: the use-case
// orchestrator, the wire DTO, and the DTO-to-entity mapper.
package training

import (
	"time"
)

// TrainingDTO is the flat wire representation of a training. It carries the
// owner's ID only, never the full owner record. ID is nil before the store
// has assigned one. Timestamps are absolute instants (RFC 3339 on the wire).
type TrainingDTO struct {
	ID           *int64    `json:"id,omitempty"`
	UserID       int64     `json:"userId"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	ActivityType string    `json:"activityType"`
	Distance     float64   `json:"distance"`
	AverageSpeed float64   `json:"averageSpeed"`
}
