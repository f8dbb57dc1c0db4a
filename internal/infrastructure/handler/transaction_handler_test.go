package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

// brokenWriter accepts headers but fails every body write, like a client that hung up
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (w brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestSendJSONLogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.DebugLevel)
	w := brokenWriter{httptest.NewRecorder()}

	sendJSON(w, log, http.StatusOK, []entity.Transaction{}, "req-42")

	assert.Equal(t, http.StatusOK, w.Code)
	logs := buf.String()
	assert.Contains(t, logs, `"level":"warn"`)
	assert.Contains(t, logs, "Error writing response body")
	assert.Contains(t, logs, `"request_id":"req-42"`)
	assert.Contains(t, logs, "connection reset by peer")
}

func TestSendErrorResponseLogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.WarnLevel)
	w := brokenWriter{httptest.NewRecorder()}

	sendErrorResponse(w, log, "Transaction not found", "gone", http.StatusNotFound, "req-7")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, buf.String(), "Error writing response body")
	assert.Contains(t, buf.String(), `"request_id":"req-7"`)
}

func TestSendJSONWritesBody(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewJSONLogger(&buf, logger.DebugLevel)
	w := httptest.NewRecorder()

	sendJSON(w, log, http.StatusCreated, map[string]string{"ok": "yes"}, "req-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":"yes"}`, w.Body.String())
	assert.NotContains(t, buf.String(), "Error writing response body")
}
