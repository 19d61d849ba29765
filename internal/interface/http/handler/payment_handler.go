package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/application/service"
	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/interface/http/dto"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// ApplyPayment handles an incoming collection
func (h *PaymentHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyPaymentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	amount, err := req.AmountCentavos()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", err)
		return
	}

	date, err := req.GetDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	result, err := h.paymentService.ApplyPayment(r.Context(), service.ApplyPaymentRequest{
		FinancingID:     req.FinancingID,
		Amount:          amount,
		Date:            date,
		Method:          req.Method,
		ReceiptRef:      req.ReceiptRef,
		ReceiptImageURL: req.ReceiptImageURL,
		Note:            req.Note,
	})

	if err != nil {
		h.logger.Error("failed to apply payment",
			zap.Error(err),
			zap.String("financing_id", req.FinancingID),
		)
		respondDomainError(w, err)
		return
	}

	response := dto.ApplyPaymentResponse{
		FinancingID:      req.FinancingID,
		Status:           string(result.Status),
		Payments:         toPaymentRecords(result.Payments),
		TotalCollected:   result.Ledger.TotalCollected,
		PendingAmount:    result.Ledger.PendingAmount,
		OverpaidAmount:   result.Ledger.OverpaidAmount,
		ProgressPct:      result.Ledger.ProgressPct,
		InstallmentsPaid: result.Ledger.InstallmentsPaid,
		OverdueCount:     result.Arrears.OverdueCount,
		OverdueAmount:    result.Arrears.OverdueAmount,
		Severity:         string(result.Severity),
	}

	respondJSON(w, http.StatusCreated, response)
}

// GetStatement returns the financing with its recomputed ledger and arrears
func (h *PaymentHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	financingID := chi.URLParam(r, "financing_id")
	if financingID == "" {
		respondError(w, http.StatusBadRequest, "financing_id is required", nil)
		return
	}

	statement, err := h.paymentService.GetStatement(r.Context(), financingID)
	if err != nil {
		h.logger.Error("failed to get statement",
			zap.Error(err),
			zap.String("financing_id", financingID),
		)
		respondDomainError(w, err)
		return
	}

	f := statement.Financing
	response := dto.StatementResponse{
		FinancingID:         f.ID,
		ControlNumber:       f.ControlNumber,
		ClientID:            f.ClientID,
		SaleType:            string(f.SaleType),
		Total:               f.Total,
		Installments:        f.Installments,
		StartDate:           f.StartDate.Format("2006-01-02"),
		Status:              string(f.Status),
		TotalCollected:      statement.Ledger.TotalCollected,
		PendingAmount:       statement.Ledger.PendingAmount,
		OverpaidAmount:      statement.Ledger.OverpaidAmount,
		ProgressPct:         statement.Ledger.ProgressPct,
		InstallmentsPaid:    statement.Ledger.InstallmentsPaid,
		InstallmentsPending: statement.Ledger.InstallmentsPending,
		OverdueCount:        statement.Arrears.OverdueCount,
		OverdueAmount:       statement.Arrears.OverdueAmount,
		Severity:            string(statement.Severity),
		Payments:            toPaymentRecords(statement.Payments),
	}

	respondJSON(w, http.StatusOK, response)
}

// GetFinancingPayments lists payments for a financing, optionally paginated
func (h *PaymentHandler) GetFinancingPayments(w http.ResponseWriter, r *http.Request) {
	financingID := r.URL.Query().Get("financing_id")
	if financingID == "" {
		respondError(w, http.StatusBadRequest, "financing_id is required", nil)
		return
	}

	pageStr := r.URL.Query().Get("page")
	pageSizeStr := r.URL.Query().Get("page_size")

	if pageStr != "" || pageSizeStr != "" {
		h.getFinancingPaymentsPaginated(w, r, financingID, pageStr, pageSizeStr)
		return
	}

	payments, err := h.paymentService.GetFinancingPayments(r.Context(), financingID)
	if err != nil {
		h.logger.Error("failed to get financing payments",
			zap.Error(err),
			zap.String("financing_id", financingID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"financing_id": financingID,
		"count":        len(payments),
		"payments":     toPaymentRecords(payments),
	})
}

func (h *PaymentHandler) getFinancingPaymentsPaginated(w http.ResponseWriter, r *http.Request, financingID, pageStr, pageSizeStr string) {
	page := 1
	pageSize := 10

	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if pageSizeStr != "" {
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 {
			pageSize = ps
		}
	}

	result, err := h.paymentService.GetFinancingPaymentsPaginated(r.Context(), financingID, service.PaginationParams{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.logger.Error("failed to get financing payments with pagination",
			zap.Error(err),
			zap.String("financing_id", financingID),
			zap.Int("page", page),
			zap.Int("page_size", pageSize),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"financing_id": financingID,
		"payments":     toPaymentRecords(result.Payments),
		"pagination": map[string]interface{}{
			"page":        result.Page,
			"page_size":   result.PageSize,
			"total_count": result.TotalCount,
			"total_pages": result.TotalPages,
		},
	})
}

// HealthCheck handles health check endpoint
func (h *PaymentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func toPaymentRecords(payments []*domain.Payment) []dto.PaymentRecordResponse {
	records := make([]dto.PaymentRecordResponse, len(payments))
	for i, p := range payments {
		records[i] = dto.PaymentRecordResponse{
			ID:                p.ID,
			FinancingID:       p.FinancingID,
			Amount:            p.Amount,
			Date:              p.Date.Format("2006-01-02T15:04:05Z07:00"),
			Kind:              string(p.Kind),
			InstallmentNumber: p.InstallmentNumber,
			Method:            p.Method,
			ReceiptRef:        p.ReceiptRef,
			Note:              p.Note,
		}
	}
	return records
}
