// Package notification derives completion messages from trainings and their
// owners. Composition is pure; delivery is behind the Sender interface and
// owned by the infrastructure layer.
package notification

import (
	"context"
	"fmt"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
)

// SenderName is the fixed signature appended to every outbound message.
const SenderName = "Fitness Tracker Hub"

// CompletionSubject is the fixed subject line for completion notifications.
const CompletionSubject = "Training completed"

// completionTemplate interpolates the owner's first name, the activity
// display label, the duration in whole minutes, and the sender name.
const completionTemplate = "Hi %s,\n\n" +
	"Congratulations! Your training is complete.\n\n" +
	"Details:\n" +
	"- Activity: %s\n" +
	"- Duration: %d minutes\n\n" +
	"Keep it up!\n\n" +
	"%s"

// Payload is the composed message handed to the delivery collaborator.
type Payload struct {
	RecipientAddress string
	Subject          string
	Body             string
}

// Sender delivers a composed payload. Delivery is fire-and-forget from the
// service's perspective; failures are logged, never surfaced to callers.
type Sender interface {
	Send(ctx context.Context, p Payload) error
}

// ComposeCompletion builds the completion message for a training and its
// owner. Pure function: no I/O, no persistence.
func ComposeCompletion(t *training.Training, owner *user.User) Payload {
	return Payload{
		RecipientAddress: owner.Email,
		Subject:          CompletionSubject,
		Body: fmt.Sprintf(completionTemplate,
			owner.FirstName,
			t.ActivityType.DisplayName(),
			t.DurationMinutes(),
			SenderName,
		),
	}
}
