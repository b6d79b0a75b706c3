package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"devfolio/internal/domain"
	"devfolio/internal/wire"
)

// respondError logs err and writes the matching status and error body.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, body := classify(err)

	entry := h.Logger.WithError(err).WithFields(logrus.Fields{
		"request_id": RequestID(c.Request.Context()),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, wire.ErrorBody) {
	var (
		verr *domain.ValidationError
		serr *domain.SizeLimitError
		merr *http.MaxBytesError
		uerr *domain.UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, wire.ErrorBody{Message: "validation failed", Errors: verr.Fields}
	case errors.As(err, &serr):
		return http.StatusRequestEntityTooLarge, wire.ErrorBody{Message: serr.Error()}
	case errors.As(err, &merr):
		return http.StatusRequestEntityTooLarge, wire.ErrorBody{Message: (&domain.SizeLimitError{Limit: merr.Limit}).Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, wire.ErrorBody{Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, wire.ErrorBody{Message: err.Error()}
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, wire.ErrorBody{Message: err.Error()}
	case errors.As(err, &uerr):
		return http.StatusInternalServerError, wire.ErrorBody{Message: uerr.Op + " failed", Detail: uerr.Err.Error()}
	default:
		return http.StatusInternalServerError, wire.ErrorBody{Message: "internal server error", Detail: err.Error()}
	}
}

// bindError turns a gin binding failure into a ValidationError.
func bindError(err error) error {
	verr := &domain.ValidationError{}

	var fields validator.ValidationErrors
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &fields):
		for _, f := range fields {
			verr.Add(f.Field(), fieldMessage(f))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		verr.Add(field, "must be of type "+typeErr.Type.String())
	case errors.As(err, &syntax), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		verr.Add("body", "request body must be valid JSON")
	default:
		verr.Add("body", err.Error())
	}
	return verr
}

func fieldMessage(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return f.Field() + " is required"
	case "min":
		return f.Field() + " must not be empty"
	case "email":
		return f.Field() + " is not a valid address"
	default:
		return f.Field() + " failed " + strings.TrimSpace(f.Tag()+" "+f.Param())
	}
}
