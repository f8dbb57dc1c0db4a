package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/damon-houk/ledger-form/internal/application/service"
	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/infrastructure/db"
	"github.com/damon-houk/ledger-form/internal/infrastructure/handler"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
	"github.com/damon-houk/ledger-form/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer creates a test server backed by a temporary BadgerDB
func setupTestServer() (*httptest.Server, *db.BadgerTransactionRepository, func(), error) {
	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "badger-test")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	// Open BadgerDB with options for testing
	badgerOpts := badger.DefaultOptions(tempDir)
	badgerOpts.Logger = nil       // Disable logging
	badgerOpts.SyncWrites = false // Improve performance for tests

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		os.RemoveAll(tempDir) // Clean up the directory if DB fails to open
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	txRepo, err := db.NewBadgerTransactionRepository(badgerDB)
	if err != nil {
		badgerDB.Close()
		os.RemoveAll(tempDir)
		return nil, nil, nil, err
	}

	log := logger.Nop()
	txService := service.NewTransactionService(txRepo, log)
	txHandler := handler.NewTransactionHandler(txService, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	txHandler.RegisterRoutes(router)

	server := httptest.NewServer(router)

	cleanup := func() {
		server.Close()
		txRepo.Close()
		badgerDB.Close()
		os.RemoveAll(tempDir)
	}

	return server, txRepo, cleanup, nil
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestTransactionLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server, _, cleanup, err := setupTestServer()
	if err != nil {
		t.Fatalf("Failed to setup test server: %v", err)
	}
	defer cleanup()

	// Step 1: the ledger starts empty
	resp := doJSON(t, http.MethodGet, server.URL+"/transactions/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var txs []entity.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&txs))
	assert.NotNil(t, txs)
	assert.Empty(t, txs)

	// Step 2: create
	resp = doJSON(t, http.MethodPost, server.URL+"/transactions/", `{
		"amount": 50,
		"category": "Food",
		"description": "lunch",
		"is_income": false,
		"date": "2024-02-01"
	}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var created entity.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, entity.ID("1"), created.ID)
	assert.True(t, decimal.NewFromInt(50).Equal(created.Amount))

	// Step 3: update with the amount as text
	resp = doJSON(t, http.MethodPut, server.URL+"/transactions/1", `{
		"amount": "55.10",
		"category": "Food",
		"description": "lunch",
		"is_income": false,
		"date": "2024-02-01"
	}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Step 4: read back
	resp = doJSON(t, http.MethodGet, server.URL+"/transactions/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched entity.Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	assert.Equal(t, "55.1", fetched.Amount.String())
	assert.Equal(t, "lunch", fetched.Description)

	// Step 5: delete, then the id is gone
	resp = doJSON(t, http.MethodDelete, server.URL+"/transactions/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/transactions/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/transactions", "")
	txs = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&txs))
	assert.Empty(t, txs)
}

func TestErrorHandling(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	server, txRepo, cleanup, err := setupTestServer()
	if err != nil {
		t.Fatalf("Failed to setup test server: %v", err)
	}
	defer cleanup()

	seed := &entity.Transaction{
		Amount:   decimal.NewFromInt(5),
		Category: "Tea",
		Date:     "2024-01-01",
	}
	_, err = txRepo.Store(context.Background(), seed)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"Malformed JSON", http.MethodPost, "/transactions", `{"amount":`, http.StatusBadRequest},
		{"Empty amount", http.MethodPost, "/transactions", `{"amount":"","category":"Food","date":"2024-02-01"}`, http.StatusUnprocessableEntity},
		{"Non numeric amount", http.MethodPost, "/transactions", `{"amount":"abc","category":"Food","date":"2024-02-01"}`, http.StatusUnprocessableEntity},
		{"Missing category", http.MethodPost, "/transactions", `{"amount":1,"category":"","date":"2024-02-01"}`, http.StatusUnprocessableEntity},
		{"Invalid date", http.MethodPost, "/transactions", `{"amount":1,"category":"Food","date":"02/01/2024"}`, http.StatusUnprocessableEntity},
		{"Update unknown id", http.MethodPut, "/transactions/999", `{"amount":1,"category":"Food","date":"2024-02-01"}`, http.StatusNotFound},
		{"Delete unknown id", http.MethodDelete, "/transactions/999", "", http.StatusNotFound},
		{"Get non numeric id", http.MethodGet, "/transactions/non-existent-id", "", http.StatusNotFound},
		{"Update zero-padded id", http.MethodPut, "/transactions/01", `{"amount":1,"category":"Food","date":"2024-02-01"}`, http.StatusNotFound},
		{"Delete zero-padded id", http.MethodDelete, "/transactions/001", "", http.StatusNotFound},
		{"Amount exponent as text", http.MethodPost, "/transactions", `{"amount":"1e200000","category":"Food","date":"2024-02-01"}`, http.StatusUnprocessableEntity},
		{"Amount exponent as number", http.MethodPost, "/transactions", `{"amount":1e1000000000,"category":"Food","date":"2024-02-01"}`, http.StatusUnprocessableEntity},
		{"Amount too precise", http.MethodPut, "/transactions/1", `{"amount":0.000000000001,"category":"Food","date":"2024-02-01"}`, http.StatusUnprocessableEntity},
		{"Invalid update keeps record", http.MethodPut, "/transactions/1", `{"amount":1,"category":"","date":"2024-02-01"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, tt.method, server.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.body != "" || tt.status == http.StatusNotFound {
				var errorResp handler.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&errorResp))
				assert.Equal(t, tt.status, errorResp.Status)
				assert.NotEmpty(t, errorResp.Error)
				assert.NotEmpty(t, errorResp.RequestID)
			}
		})
	}

	// record 1 survived the alias and rejected writes
	stored, err := txRepo.FindByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Tea", stored.Category)
	assert.True(t, decimal.NewFromInt(5).Equal(stored.Amount))

	txs, err := txRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
