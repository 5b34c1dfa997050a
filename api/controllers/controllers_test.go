package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/boq-builder/internal/catalog"
	"github.com/angelmondragon/boq-builder/pkg/config"
	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/types"
	"github.com/angelmondragon/boq-builder/pkg/validation"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// stubCatalog panics on any method not overridden below.
type stubCatalog struct {
	catalog.Service
	updateCalls int
	deleteErr   error
}

func (s *stubCatalog) UpdateItem(_ context.Context, id string, _ validation.Record) (*catalog.ItemDTO, error) {
	s.updateCalls++
	return &catalog.ItemDTO{CatalogItem: types.CatalogItem{ID: id}}, nil
}

func (s *stubCatalog) DeleteItem(context.Context, string) error {
	return s.deleteErr
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env.Error.Code
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	t.Run("ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		HealthReady(cfg, logger.Nop(), pingerFunc(func(context.Context) error { return nil }))(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "test", w.Header().Get(envHeader))
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})

	t.Run("ping failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		HealthReady(cfg, logger.Nop(), pingerFunc(func(context.Context) error { return errors.New("down") }))(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, string(pkgerrors.CodeDependency), decodeErrorCode(t, w))
	})

	t.Run("no database", func(t *testing.T) {
		w := httptest.NewRecorder()
		HealthReady(cfg, logger.Nop(), nil)(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHealthLive(t *testing.T) {
	w := httptest.NewRecorder()
	HealthLive(&config.Config{App: config.AppConfig{Env: "dev"}})(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dev", w.Header().Get(envHeader))
}

func TestUpdateItemRejectsIDChange(t *testing.T) {
	svc := &stubCatalog{}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/items/brick", strings.NewReader(`{"id":"mortar","name":"Brick"}`))
	req = withURLParam(req, "itemId", "brick")
	w := httptest.NewRecorder()

	UpdateItem(svc, logger.Nop())(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeErrorCode(t, w))
	assert.Zero(t, svc.updateCalls)
}

func TestUpdateItemMatchingID(t *testing.T) {
	svc := &stubCatalog{}
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/items/brick", strings.NewReader(`{"id":" brick ","unitPrice":1}`))
	req = withURLParam(req, "itemId", "brick")
	w := httptest.NewRecorder()

	UpdateItem(svc, logger.Nop())(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.updateCalls)
}

func TestDeleteItem(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/items/brick", nil), "itemId", "brick")
		DeleteItem(&stubCatalog{}, logger.Nop())(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/v1/items/brick", nil), "itemId", "brick")
		svc := &stubCatalog{deleteErr: pkgerrors.New(pkgerrors.CodeNotFound, "item not found")}
		DeleteItem(svc, logger.Nop())(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, string(pkgerrors.CodeNotFound), decodeErrorCode(t, w))
	})
}

func TestValidateRecordLogsRecordKind(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: &buf})
	rules := validation.NewContext(validation.Overrides{})
	handler := ValidateRecord(rules, nil, logg)

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/validate/item?mode=lint", strings.NewReader(`{}`)), "kind", "item")
	w := httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, buf.String(), `"record_kind":"item"`)
	assert.Contains(t, buf.String(), "request.rejected")

	buf.Reset()
	req = withURLParam(httptest.NewRequest(http.MethodPost, "/api/v1/validate/item", strings.NewReader(`{"unitPrice":-1}`)), "kind", "item")
	w = httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "record.invalid")
	assert.Contains(t, buf.String(), `"record_kind":"item"`)
}
