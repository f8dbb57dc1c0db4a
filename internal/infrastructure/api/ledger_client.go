package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/domain/service"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
	"github.com/google/uuid"
)

const (
	transactionsPath = "/transactions"
	requestIDHeader  = "X-Request-ID"

	// maxErrorBody caps how much of an error response ends up in an error message
	maxErrorBody = 512
)

const (
	opList   = "list transactions"
	opCreate = "create transaction"
	opUpdate = "update transaction"
	opDelete = "delete transaction"
)

// LedgerAPIClient implements service.LedgerClient over the ledger's REST API
type LedgerAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

var _ service.LedgerClient = (*LedgerAPIClient)(nil)

// NewLedgerAPIClient creates a new ledger API client
func NewLedgerAPIClient(baseURL string, httpClient *http.Client, log logger.Logger) *LedgerAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &LedgerAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     log,
	}
}

// errorBody covers both the ledger service's error shape and FastAPI's "detail"
type errorBody struct {
	Error       string          `json:"error"`
	Description string          `json:"description"`
	Detail      json.RawMessage `json:"detail"`
}

// List retrieves every transaction
func (c *LedgerAPIClient) List(ctx context.Context) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	if err := c.do(ctx, opList, http.MethodGet, transactionsPath, nil, &txs); err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []entity.Transaction{}
	}
	return txs, nil
}

// Create submits a draft as a new transaction
func (c *LedgerAPIClient) Create(ctx context.Context, draft entity.Draft) (*entity.Transaction, error) {
	var tx entity.Transaction
	if err := c.do(ctx, opCreate, http.MethodPost, transactionsPath, draft, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Update replaces the transaction with the given ID
func (c *LedgerAPIClient) Update(ctx context.Context, id entity.ID, draft entity.Draft) (*entity.Transaction, error) {
	var tx entity.Transaction
	if err := c.do(ctx, opUpdate, http.MethodPut, itemPath(id), draft, &tx); err != nil {
		return nil, err
	}

	// Some ledgers answer PUT without echoing the id
	if tx.ID == "" {
		tx.ID = id
	}
	return &tx, nil
}

// Delete removes the transaction with the given ID
func (c *LedgerAPIClient) Delete(ctx context.Context, id entity.ID) error {
	return c.do(ctx, opDelete, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id entity.ID) string {
	return transactionsPath + "/" + url.PathEscape(id.String())
}

// do performs one round trip. A nil out discards any success body.
func (c *LedgerAPIClient) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	reqURL := c.baseURL + path
	requestID := uuid.New().String()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Ledger request", map[string]interface{}{
		"request_id": requestID,
		"op":         op,
		"method":     method,
		"url":        reqURL,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Ledger request failed", map[string]interface{}{
			"request_id": requestID,
			"op":         op,
			"error":      err.Error(),
		})
		return &service.APIError{Op: op, Kind: service.ErrTransport, Err: err}
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"request_id": requestID,
				"error":      closeErr.Error(),
			})
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &service.APIError{Op: op, StatusCode: resp.StatusCode, Kind: service.ErrTransport, Err: err}
	}

	c.logger.Debug("Ledger response", map[string]interface{}{
		"request_id":  requestID,
		"op":          op,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &service.APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(bodyBytes),
			Kind:       classifyStatus(op, resp.StatusCode),
		}
		c.logger.Warn("Ledger returned error status", map[string]interface{}{
			"request_id": requestID,
			"op":         op,
			"status":     resp.StatusCode,
			"error":      apiErr.Error(),
		})
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(bodyBytes)) == 0 {
		return nil
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return &service.APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			Kind:       service.ErrServer,
			Err:        err,
		}
	}

	return nil
}

// classifyStatus maps a non-success status to an error kind. A 404 or 422 on
// the collection itself says nothing about a record, so list treats it as a
// server failure.
func classifyStatus(op string, status int) error {
	if op == opList {
		return service.ErrServer
	}

	switch status {
	case http.StatusNotFound:
		if op == opCreate {
			return service.ErrServer
		}
		return service.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return service.ErrValidation
	default:
		return service.ErrServer
	}
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Error != "" && eb.Description != "":
			return eb.Error + ": " + eb.Description
		case eb.Error != "":
			return eb.Error
		case len(eb.Detail) > 0:
			var detail string
			if json.Unmarshal(eb.Detail, &detail) == nil {
				return detail
			}
			return truncate(string(eb.Detail))
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
