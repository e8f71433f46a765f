package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "radiosignals/internal/errors"
	"radiosignals/internal/features"
	"radiosignals/internal/infrastructure"
	"radiosignals/internal/middleware"
	"radiosignals/internal/services"
	v1 "radiosignals/pkg/contracts/api/v1"
)

// PredictHandler handles prediction HTTP requests
type PredictHandler struct {
	service    *services.PredictionService
	validation *middleware.ValidationMiddleware
	logger     *slog.Logger
}

// NewPredictHandler creates a new prediction handler
func NewPredictHandler(service *services.PredictionService, validation *middleware.ValidationMiddleware, logger *slog.Logger) *PredictHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictHandler{
		service:    service,
		validation: validation,
		logger:     logger.With(slog.String("handler", "predict")),
	}
}

// Predict handles POST /api/predict
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	req := &v1.PredictRequest{}
	if err := render.DecodeJSON(r.Body, req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode predict request",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID))

		problem := apierrors.NewProblemDetails(
			http.StatusBadRequest,
			apierrors.TypeValidation,
			"Invalid Request Body",
			err.Error(),
			r.URL.Path,
		).WithExtension("trace_id", infrastructure.GetTraceID(ctx))
		render.Render(w, r, problem)
		return
	}

	if h.validation != nil {
		if err := h.validation.ValidateStruct(req); err != nil {
			var apiErr *apierrors.APIError
			if errors.As(err, &apiErr) {
				render.Render(w, r, apierrors.NewErrorResponse(apiErr))
				return
			}
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
			return
		}
	}

	resp, err := h.service.Predict(ctx, req)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// renderError maps service errors onto the error taxonomy. Feature-mapping
// failures are client errors; everything else is a server fault.
func (h *PredictHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	traceID := infrastructure.GetTraceID(ctx)

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		h.logger.WarnContext(ctx, "prediction rejected",
			slog.String("error_code", apiErr.ErrorCode),
			slog.String("trace_id", traceID))
		render.Render(w, r, apierrors.NewErrorResponse(apiErr))
		return
	}

	var me *features.MappingError
	if errors.As(err, &me) {
		problem := apierrors.NewProblemDetails(
			http.StatusBadRequest,
			problemTypeForCode(me.Code),
			"Prediction Request Rejected",
			me.Reason,
			r.URL.Path,
		).WithExtension("error_code", me.Code).WithExtension("trace_id", traceID)
		render.Render(w, r, problem)
		return
	}

	h.logger.ErrorContext(ctx, "prediction failed",
		slog.String("error", err.Error()),
		slog.String("trace_id", traceID))

	problem := apierrors.NewProblemDetails(
		http.StatusInternalServerError,
		apierrors.TypeInternal,
		"Internal Server Error",
		"The prediction could not be completed",
		r.URL.Path,
	).WithExtension("trace_id", traceID)
	render.Render(w, r, problem)
}

// problemTypeForCode maps feature-mapping error codes to problem types
func problemTypeForCode(code string) string {
	switch code {
	case features.CodeMissingLocation:
		return apierrors.TypeMissingLocation
	case features.CodeUnparseableDate:
		return apierrors.TypeUnparseableDate
	case features.CodeInvalidNumeric:
		return apierrors.TypeInvalidNumeric
	case features.CodeUnsupportedTechnology:
		return apierrors.TypeUnsupportedTechnology
	default:
		return apierrors.TypeValidation
	}
}
