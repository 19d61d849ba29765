package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/application/service"
	"github.com/lostiburones/cobranza-service/internal/interface/http/dto"
)

type CollectionHandler struct {
	collectionService *service.CollectionService
	logger            *zap.Logger
}

func NewCollectionHandler(collectionService *service.CollectionService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger,
	}
}

// OverdueReport returns the cobranza worklist, worst first
func (h *CollectionHandler) OverdueReport(w http.ResponseWriter, r *http.Request) {
	entries, err := h.collectionService.OverdueReport(r.Context())
	if err != nil {
		h.logger.Error("failed to build overdue report", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	response := make([]dto.OverdueEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = dto.OverdueEntryResponse{
			FinancingID:   e.Financing.ID,
			ControlNumber: e.Financing.ControlNumber,
			ClientID:      e.Financing.ClientID,
			ClientName:    e.ClientName,
			Total:         e.Financing.Total,
			PendingAmount: e.Ledger.PendingAmount,
			OverdueCount:  e.Arrears.OverdueCount,
			OverdueAmount: e.Arrears.OverdueAmount,
			Severity:      string(e.Severity),
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(response),
		"entries": response,
	})
}
