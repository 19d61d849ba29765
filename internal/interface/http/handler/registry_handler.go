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

type RegistryHandler struct {
	registryService *service.RegistryService
	logger          *zap.Logger
}

func NewRegistryHandler(registryService *service.RegistryService, logger *zap.Logger) *RegistryHandler {
	return &RegistryHandler{
		registryService: registryService,
		logger:          logger,
	}
}

func (h *RegistryHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClientRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	client, err := h.registryService.RegisterClient(r.Context(), req.FullName, req.NationalID, req.Phone, req.Address, req.PhotoURL)
	if err != nil {
		h.logger.Error("failed to register client", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toClientResponse(client))
}

func (h *RegistryHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "client_id")
	if clientID == "" {
		respondError(w, http.StatusBadRequest, "client_id is required", nil)
		return
	}

	client, err := h.registryService.GetClient(r.Context(), clientID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toClientResponse(client))
}

func (h *RegistryHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaging(r)

	clients, err := h.registryService.ListClients(r.Context(), limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response := make([]dto.ClientResponse, len(clients))
	for i, c := range clients {
		response[i] = toClientResponse(c)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(response),
		"clients": response,
	})
}

func (h *RegistryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	unitPrice, err := req.UnitPriceCentavos()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid unit_price", err)
		return
	}

	product, err := h.registryService.AddProduct(r.Context(), req.Name, req.Description, unitPrice, req.Stock, req.LowStockThreshold, req.Category)
	if err != nil {
		h.logger.Error("failed to add product", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *RegistryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaging(r)

	products, err := h.registryService.ListProducts(r.Context(), limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	response := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(response),
		"products": response,
	})
}

func (h *RegistryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required", nil)
		return
	}

	var req dto.StockAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	product, err := h.registryService.AdjustStock(r.Context(), productID, req.Delta)
	if err != nil {
		h.logger.Error("failed to adjust stock",
			zap.Error(err),
			zap.String("product_id", productID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func toClientResponse(c *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:         c.ID,
		FullName:   c.FullName,
		NationalID: c.NationalID,
		Phone:      c.Phone,
		Address:    c.Address,
		PhotoURL:   c.PhotoURL,
		CreatedAt:  c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toProductResponse(p *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		UnitPrice:         p.UnitPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.LowStock(),
		Category:          p.Category,
	}
}

func parsePaging(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
