package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/domain"
)

// NotificationService handles side effects like SMS receipts and collection
// alerts, driven by events off the stream.
type NotificationService struct {
	clientRepo domain.ClientRepository
	logger     *zap.Logger
}

func NewNotificationService(clientRepo domain.ClientRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// HandlePaymentApplied handles payment applied events
func (s *NotificationService) HandlePaymentApplied(ctx context.Context, event domain.DomainEvent) error {
	paymentEvent, ok := event.(*domain.PaymentAppliedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := paymentEvent.Payload

	s.logger.Info("handling payment applied event",
		zap.String("event_id", event.GetEventID()),
		zap.String("financing_id", payload.FinancingID),
		zap.String("control_number", payload.ControlNumber),
		zap.Int64("amount", payload.Amount),
	)

	clientName := payload.ClientID
	if client, err := s.clientRepo.FindByID(ctx, payload.ClientID); err == nil {
		clientName = client.FullName
	}

	// Receipt notification goes out for every payment.
	s.logger.Info("payment receipt sent",
		zap.String("client", clientName),
		zap.String("message", fmt.Sprintf("Pago de %.2f recibido sobre %s. Saldo pendiente: %.2f",
			float64(payload.Amount)/100, payload.ControlNumber, float64(payload.PendingAmount)/100)),
	)

	if payload.IsCompleted {
		s.logger.Info("completion notice sent",
			zap.String("client", clientName),
			zap.String("message", fmt.Sprintf("Financiamiento %s liquidado. Gracias por su pago.", payload.ControlNumber)),
		)
		return nil
	}

	if payload.OverdueCount > 0 {
		s.logger.Info("arrears reminder sent",
			zap.String("client", clientName),
			zap.Int("overdue_count", payload.OverdueCount),
			zap.String("message", fmt.Sprintf("Financiamiento %s tiene %d cuota(s) atrasada(s).",
				payload.ControlNumber, payload.OverdueCount)),
		)
	}

	return nil
}
