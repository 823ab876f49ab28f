package http

import (
	"net/http"

	"equity-insights/internal/api/dto"
	"equity-insights/pkg/apperrors"
	"equity-insights/pkg/logger"

	"github.com/labstack/echo/v4"
)

// writeError maps a service error to an HTTP response. Expected
// failures surface their caller-safe message; anything unclassified
// becomes a generic 500 with full detail kept server-side only.
func writeError(c echo.Context, log *logger.Logger, err error) error {
	kind := apperrors.KindOf(err)

	var status int
	switch kind {
	case apperrors.KindInvalidInput:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindRateLimited:
		status = http.StatusTooManyRequests
	case apperrors.KindTimeout:
		status = http.StatusGatewayTimeout
	case apperrors.KindUnavailable:
		status = http.StatusBadGateway
	case apperrors.KindNotConfigured, apperrors.KindStorageUnavailable:
		status = http.StatusServiceUnavailable
	default:
		log.Error("Unexpected error handling request",
			logger.StringField("path", c.Path()), logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error processing request"})
	}

	return c.JSON(status, dto.ErrorResponse{Error: apperrors.Message(err)})
}

// writeUnauthenticated rejects a request that requires identity.
func writeUnauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
}
