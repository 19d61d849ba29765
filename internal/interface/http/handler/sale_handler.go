package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/application/service"
	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/interface/http/dto"
)

type SaleHandler struct {
	saleService *service.SaleService
	logger      *zap.Logger
}

func NewSaleHandler(saleService *service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

// CreateSale handles cash and installment sale creation
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSaleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	startDate, err := req.GetStartDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start_date", err)
		return
	}

	downPayment, err := req.DownPaymentCentavos()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid down_payment", err)
		return
	}

	items := make([]service.SaleItemRequest, len(req.Items))
	for i, it := range req.Items {
		items[i] = service.SaleItemRequest{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		}
	}

	f, err := h.saleService.CreateSale(r.Context(), service.CreateSaleRequest{
		ClientID:          req.ClientID,
		SaleType:          domain.SaleType(req.SaleType),
		Installments:      req.Installments,
		Items:             items,
		StartDate:         startDate,
		Description:       req.Description,
		DownPayment:       downPayment,
		DownPaymentMethod: req.DownPaymentMethod,
	})

	if err != nil {
		h.logger.Error("failed to create sale",
			zap.Error(err),
			zap.String("client_id", req.ClientID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toSaleResponse(f))
}

func toSaleResponse(f *domain.Financing) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, len(f.Items))
	for i, it := range f.Items {
		items[i] = dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
	}
	return dto.SaleResponse{
		FinancingID:   f.ID,
		ControlNumber: f.ControlNumber,
		ClientID:      f.ClientID,
		SaleType:      string(f.SaleType),
		Installments:  f.Installments,
		Total:         f.Total,
		StartDate:     f.StartDate.Format("2006-01-02"),
		Status:        string(f.Status),
		Items:         items,
	}
}
