package scheduler

import (
	"context"

	"github.com/KasumiMercury/primind-habit-reminder/internal/domain"
)

//go:generate mockgen -source=delivery.go -destination=delivery_mock.go -package=scheduler

type OutcomeKind int

const (
	OutcomeDelivered OutcomeKind = iota
	OutcomeTransientFailure
	OutcomePermanentInvalidTarget
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeTransientFailure:
		return "transient_failure"
	case OutcomePermanentInvalidTarget:
		return "permanent_invalid_target"
	default:
		return "unknown"
	}
}

// Outcome is the result of a single delivery attempt. Reason is set for
// failures only.
type Outcome struct {
	Kind      OutcomeKind
	Reason    error
	MessageID string
}

func Delivered(messageID string) Outcome {
	return Outcome{Kind: OutcomeDelivered, MessageID: messageID}
}

func TransientFailure(reason error) Outcome {
	return Outcome{Kind: OutcomeTransientFailure, Reason: reason}
}

func PermanentInvalidTarget(reason error) Outcome {
	return Outcome{Kind: OutcomePermanentInvalidTarget, Reason: reason}
}

func (o Outcome) ReasonString() string {
	if o.Reason == nil {
		return ""
	}

	return o.Reason.Error()
}

type Payload struct {
	Title string
	Body  string
	Data  map[string]string
}

const (
	reminderTitle = "Daily Habit Reminder"
	reminderBody  = "Don't forget to check your habits for today!"
	reminderType  = "daily_reminder"

	// AndroidChannel is the notification channel the mobile app registers.
	AndroidChannel = "daily_reminder"
)

func NewDailyReminderPayload(userID domain.UserID, reminderTime domain.ReminderTime, tz domain.Timezone) Payload {
	return Payload{
		Title: reminderTitle,
		Body:  reminderBody,
		Data: map[string]string{
			"type":          reminderType,
			"userId":        userID.String(),
			"scheduledTime": reminderTime.String(),
			"timezone":      tz.Name(),
		},
	}
}

// DeliveryClient sends one push message. Implementations classify every
// failure into an Outcome and never retry on their own.
type DeliveryClient interface {
	Send(ctx context.Context, target domain.DeliveryTarget, payload Payload) Outcome
}
