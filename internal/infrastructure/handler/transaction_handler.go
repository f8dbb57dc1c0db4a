package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/ledger-form/internal/application/service"
	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/domain/repository"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
	"github.com/damon-houk/ledger-form/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// TransactionHandler handles HTTP requests for transactions
type TransactionHandler struct {
	service *service.TransactionService
	logger  logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(service *service.TransactionService, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		service: service,
		logger:  log,
	}
}

// ListTransactions handles retrieving every transaction
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	txs, err := h.service.ListTransactions(r.Context())
	if err != nil {
		h.logger.Error("Unexpected error in list transactions", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while listing transactions",
			http.StatusInternalServerError, requestID)
		return
	}

	h.logger.Debug("Transactions listed", map[string]interface{}{
		"request_id": requestID,
		"count":      len(txs),
	})

	sendJSON(w, h.logger, http.StatusOK, txs, requestID)
}

// CreateTransaction handles the creation of a new transaction
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	input, ok := h.decode(w, r, requestID)
	if !ok {
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, err, "", requestID, "creating")
		return
	}

	h.logger.Info("Transaction created successfully", map[string]interface{}{
		"request_id": requestID,
		"id":         tx.ID.String(),
	})

	sendJSON(w, h.logger, http.StatusCreated, tx, requestID)
}

// GetTransaction handles retrieving a transaction by ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := entity.ID(mux.Vars(r)["id"])

	tx, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, id, requestID, "retrieving")
		return
	}

	sendJSON(w, h.logger, http.StatusOK, tx, requestID)
}

// UpdateTransaction handles overwriting an existing transaction
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := entity.ID(mux.Vars(r)["id"])

	input, ok := h.decode(w, r, requestID)
	if !ok {
		return
	}

	tx, err := h.service.UpdateTransaction(r.Context(), id, input)
	if err != nil {
		h.handleServiceError(w, err, id, requestID, "updating")
		return
	}

	h.logger.Info("Transaction updated successfully", map[string]interface{}{
		"request_id": requestID,
		"id":         id.String(),
	})

	sendJSON(w, h.logger, http.StatusOK, tx, requestID)
}

// DeleteTransaction handles removing a transaction
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := entity.ID(mux.Vars(r)["id"])

	if err := h.service.DeleteTransaction(r.Context(), id); err != nil {
		h.handleServiceError(w, err, id, requestID, "deleting")
		return
	}

	h.logger.Info("Transaction deleted successfully", map[string]interface{}{
		"request_id": requestID,
		"id":         id.String(),
	})

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	for _, path := range []string{"/transactions", "/transactions/"} {
		router.HandleFunc(path, h.ListTransactions).Methods("GET")
		router.HandleFunc(path, h.CreateTransaction).Methods("POST")
	}
	router.HandleFunc("/transactions/{id}", h.GetTransaction).Methods("GET")
	router.HandleFunc("/transactions/{id}", h.UpdateTransaction).Methods("PUT")
	router.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"GET /transactions",
			"POST /transactions",
			"GET /transactions/{id}",
			"PUT /transactions/{id}",
			"DELETE /transactions/{id}",
		},
	})
}

// decode parses the request body, writing the error response itself on failure
func (h *TransactionHandler) decode(w http.ResponseWriter, r *http.Request, requestID string) (entity.Transaction, bool) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return entity.Transaction{}, false
	}

	tx, err := req.toEntity()
	if err != nil {
		h.logger.Warn("Invalid amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     string(req.Amount),
		})
		sendErrorResponse(w, h.logger, "Validation failed", err.Error(),
			http.StatusUnprocessableEntity, requestID)
		return entity.Transaction{}, false
	}

	return tx, true
}

func (h *TransactionHandler) handleServiceError(w http.ResponseWriter, err error, id entity.ID, requestID, action string) {
	switch {
	case errors.Is(err, entity.ErrInvalidTransaction):
		h.logger.Warn("Transaction validation failed", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Validation failed", err.Error(),
			http.StatusUnprocessableEntity, requestID)
	case errors.Is(err, repository.ErrTransactionNotFound):
		h.logger.Warn("Transaction not found", map[string]interface{}{
			"request_id": requestID,
			"id":         id.String(),
		})
		sendErrorResponse(w, h.logger, "Transaction not found",
			"The requested transaction could not be found", http.StatusNotFound, requestID)
	default:
		h.logger.Error("Unexpected error in transaction handler", map[string]interface{}{
			"request_id": requestID,
			"id":         id.String(),
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while "+action+" the transaction",
			http.StatusInternalServerError, requestID)
	}
}

func sendJSON(w http.ResponseWriter, log logger.Logger, statusCode int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	encode(w, log, body, requestID)
}

// encode writes body after the status line is out, so a failure can only be logged
func encode(w http.ResponseWriter, log logger.Logger, body interface{}, requestID string) {
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("Error writing response body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	encode(w, log, resp, requestID)
}
