package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypePaymentApplied     = "payment.applied"
	EventTypeFinancingCompleted = "financing.completed"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// PaymentAppliedEvent - payment rows created and financing status recomputed
type PaymentAppliedEvent struct {
	BaseEvent
	Payload PaymentAppliedPayload `json:"payload"`
}

func (e PaymentAppliedEvent) GetPayload() interface{} { return e.Payload }

type PaymentAppliedPayload struct {
	FinancingID        string    `json:"financing_id"`
	ControlNumber      string    `json:"control_number"`
	ClientID           string    `json:"client_id"`
	Amount             int64     `json:"amount"`
	InstallmentNumbers []int     `json:"installment_numbers"`
	TotalCollected     int64     `json:"total_collected"`
	PendingAmount      int64     `json:"pending_amount"`
	OverdueCount       int       `json:"overdue_count"`
	Status             string    `json:"status"`
	IsCompleted        bool      `json:"is_completed"`
	AppliedAt          time.Time `json:"applied_at"`
}

func NewPaymentAppliedEvent(financingID string, payload PaymentAppliedPayload) *PaymentAppliedEvent {
	return &PaymentAppliedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			EventType:   EventTypePaymentApplied,
			AggregateID: financingID,
			OccurredAt:  time.Now(),
		},
		Payload: payload,
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
