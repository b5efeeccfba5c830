package resampling

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/barline-lab/barline/internal/api/v1"
	httperr "github.com/barline-lab/barline/internal/core/errors"
	"github.com/barline-lab/barline/internal/core/resample"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
)

// apiError carries the structured HTTP error shape from a helper back to
// the handler. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type apiError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *apiError) Error() string {
	return e.message
}

// ResampleHandler handles POST /v1/resample with an ad-hoc mode and
// threshold in the request body.
func (s *Service) ResampleHandler(c *gin.Context) {
	req, err := s.parseRequest(c)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, resErr := s.Resample(*req)
	if resErr != nil {
		writeError(c, mapCoreError(resErr))
		return
	}

	slog.Info("Resampled ticks",
		"mode", resp.Mode,
		"threshold", resp.Threshold,
		"tick_count", resp.TickCount,
		"bar_count", len(resp.Bars))

	c.JSON(http.StatusOK, resp)
}

// ResamplePresetHandler handles POST /v1/resample/preset/:preset. Only
// the ticks field of the body is used; mode and threshold come from the
// named preset.
func (s *Service) ResamplePresetHandler(c *gin.Context) {
	name := c.Param("preset")

	req, err := s.parseRequest(c)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, resErr := s.ResampleWithPreset(c.Request.Context(), name, req.Ticks)
	if resErr != nil {
		writeError(c, mapCoreError(resErr))
		return
	}

	slog.Info("Resampled ticks with preset",
		"preset", name,
		"mode", resp.Mode,
		"threshold", resp.Threshold,
		"tick_count", resp.TickCount,
		"bar_count", len(resp.Bars))

	c.JSON(http.StatusOK, resp)
}

// ListPresetsHandler handles GET /v1/presets.
func (s *Service) ListPresetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": s.ListPresets()})
}

// parseRequest reads the raw request body, binds it into a
// ResampleRequest, and runs edge validation on the tick payload.
func (s *Service) parseRequest(c *gin.Context) (*v1.ResampleRequest, *apiError) {
	// Enforce maximum body size to prevent OOM on oversized payloads
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, &apiError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, &apiError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var req v1.ResampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, &apiError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	if len(req.Ticks) > s.maxTicks {
		slog.Warn("Request exceeds tick cap", "tick_count", len(req.Ticks), "max", s.maxTicks)
		return nil, &apiError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpTooManyTicksError,
			message:    "Request exceeds maximum tick count",
			details: map[string]interface{}{
				"max_ticks": s.maxTicks,
			},
		}
	}

	if err := v1.ValidateTicks(req.Ticks); err != nil {
		slog.Warn("Tick validation failed", "error", err)
		return nil, &apiError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    err.Error(),
		}
	}

	return &req, nil
}

// mapCoreError converts engine and preset lookup errors into the
// structured HTTP error shape.
func mapCoreError(err error) *apiError {
	switch {
	case errors.Is(err, resample.ErrInvalidConfiguration):
		return &apiError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidConfigError,
			message:    err.Error(),
		}
	case errors.Is(err, resample.ErrPresetNotFound):
		return &apiError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpPresetNotFoundError,
			message:    err.Error(),
		}
	default:
		return &apiError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    "Failed to resample ticks",
		}
	}
}

func writeError(c *gin.Context, err *apiError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
