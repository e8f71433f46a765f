package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "radiosignals/internal/errors"
	v1 "radiosignals/pkg/contracts/api/v1"
)

func newValidation(t *testing.T) *ValidationMiddleware {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))
}

func TestValidateStructPredictRequest(t *testing.T) {
	m := newValidation(t)

	lat, lon, elev := 41.99, 21.43, 240.0
	valid := &v1.PredictRequest{
		Technology: "fm",
		Date:       json.RawMessage(`"2023-05-10"`),
		Latitude:   &lat,
		Longitude:  &lon,
		ElevationM: &elev,
	}
	assert.NoError(t, m.ValidateStruct(valid))

	missing := &v1.PredictRequest{Technology: "fm"}
	err := m.ValidateStruct(missing)
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	fields := make(map[string]bool)
	for _, ve := range details.Errors {
		fields[ve.Field] = true
	}
	// Error messages use the JSON field names, not the Go ones.
	assert.True(t, fields["date"])
	assert.True(t, fields["latitude"])
	assert.True(t, fields["longitude"])
	assert.True(t, fields["elevation_m"])
}

func TestTechnologyValidator(t *testing.T) {
	m := newValidation(t)

	type payload struct {
		Technology string `json:"technology" validate:"required,technology"`
	}

	for _, tech := range []string{"digital", "digital_tv", "DTV", "dvb", "fm", "ANALOGUE_FM", " fm "} {
		assert.NoError(t, m.ValidateStruct(&payload{Technology: tech}), "technology %q should validate", tech)
	}
	for _, tech := range []string{"am", "dab", "cable"} {
		assert.Error(t, m.ValidateStruct(&payload{Technology: tech}), "technology %q should fail", tech)
	}
}

func TestValidateStructRejectsUnknownTechnology(t *testing.T) {
	m := newValidation(t)

	lat, lon, elev := 41.99, 21.43, 240.0
	req := &v1.PredictRequest{
		Technology: "shortwave",
		Date:       json.RawMessage(`"2023-05-10"`),
		Latitude:   &lat,
		Longitude:  &lon,
		ElevationM: &elev,
	}
	err := m.ValidateStruct(req)
	require.Error(t, err)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "technology", details.Errors[0].Field)
	assert.Contains(t, details.Errors[0].Message, "supported technology")
}

func TestValidateRequestRejectsInvalidJSON(t *testing.T) {
	m := newValidation(t)

	handler := m.ValidateRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"technology":"fm"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	// GETs carry no body and pass straight through.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContentTypeValidator(t *testing.T) {
	handler := ContentTypeValidator("application/json")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("{}"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
