package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chapterly/mentorhub/internal/apperr"
)

// statusFor maps the service error taxonomy onto HTTP statuses. Conflicts and
// illegal state transitions are user-correctable and carry their message
// through; anything unrecognised is a server fault and stays generic.
func statusFor(err error) (int, any) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		if len(ve.Fields) > 0 {
			return http.StatusBadRequest, echo.Map{"error": ve.Msg, "fields": ve.Fields}
		}
		return http.StatusBadRequest, echo.Map{"error": ve.Msg}
	}

	var fldErrs validator.ValidationErrors
	if errors.As(err, &fldErrs) {
		fields := make(map[string]string, len(fldErrs))
		for _, fe := range fldErrs {
			fields[fe.Field()] = fe.Tag()
		}
		return http.StatusBadRequest, echo.Map{"error": "invalid request", "fields": fields}
	}

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, echo.Map{"error": err.Error()}
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, echo.Map{"error": err.Error()}
	case errors.Is(err, apperr.ErrAlreadyCompleted),
		errors.Is(err, apperr.ErrAlreadySignedOff),
		errors.Is(err, apperr.ErrNotCompleted),
		errors.Is(err, apperr.ErrFutureSession):
		return http.StatusUnprocessableEntity, echo.Map{"error": err.Error()}
	}

	return http.StatusInternalServerError, echo.Map{"error": http.StatusText(http.StatusInternalServerError)}
}

// newHTTPErrorHandler converts service errors at the route boundary and logs
// everything that is not an expected, typed failure.
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			_ = c.JSON(httpErr.Code, echo.Map{"error": httpErr.Message})
			return
		}

		code, payload := statusFor(err)
		if code == http.StatusInternalServerError {
			logger.Error("unhandled error",
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, payload)
	}
}
