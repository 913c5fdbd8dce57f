// Package v1handler implements the v1 HTTP API of the quick-entry service.
package v1handler

import (
	"bookkeeper/internal/quickentry"
	"bookkeeper/pkg/logger"
	"bookkeeper/pkg/serrors"
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Deps are the services the handlers delegate to.
type Deps struct {
	QuickEntry quickentry.Service
}

// Handler serves the v1 routes.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Register adds the v1 routes to mux, authenticated by sec. Paths are
// relative to the /v1 prefix.
func (h *Handler) Register(mux *http.ServeMux, sec *SecHandler) {
	mux.Handle("POST /entries", sec.Middleware(http.HandlerFunc(h.CreateEntry)))
	mux.Handle("POST /entries/preview", sec.Middleware(http.HandlerFunc(h.PreviewEntry)))
	mux.Handle("GET /entries/{id}", sec.Middleware(http.HandlerFunc(h.GetEntry)))
	mux.Handle("GET /categories", sec.Middleware(http.HandlerFunc(h.ListCategories)))
}

// Error is the body of a non-entry error response.
type Error struct {
	Code    string
	Message string
}

// ErrorResponse is an Error with its status code.
type ErrorResponse struct {
	StatusCode int
	Response   Error
}

// NewError maps err onto an ErrorResponse. Messages of semantic errors are
// exposed; anything else is logged and hidden behind a generic message.
func (h Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	kind := serrors.KindOf(err)
	if kind == nil || errors.Is(kind, serrors.ErrInternal) {
		logger.Error(ctx, "internal error", zap.Error(err))

		return &ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Response:   Error{Code: serrors.ErrInternal.Error(), Message: "internal error"},
		}
	}

	kind = quickentry.TransportKind(err)
	msg := defaultMessages[kind]
	var e *serrors.Error
	if errors.As(err, &e) && e.Message() != "" {
		msg = e.Message()
	}

	return &ErrorResponse{
		StatusCode: StatusCode(kind),
		Response:   Error{Code: kind.Error(), Message: msg},
	}
}

// WriteError writes the ErrorResponse for err.
func (h Handler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(r.Context(), w, res.StatusCode, encodeError(res.Response))
}

var defaultMessages = map[serrors.Kind]string{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     "resource not found",
	serrors.ErrUnauthorized: "unauthorized",
	serrors.ErrForbidden:    "forbidden",
	serrors.ErrBadRequest:   "bad request",
	serrors.ErrConflict:     "conflict",
	serrors.ErrTimeout:      "request timed out",
	serrors.ErrUnavailable:  "service unavailable",
	serrors.ErrRateLimited:  "too many requests",
}

// StatusCode returns the HTTP status of a generic serrors kind.
func StatusCode(kind serrors.Kind) int {
	switch kind {
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case serrors.ErrForbidden:
		return http.StatusForbidden
	case serrors.ErrBadRequest:
		return http.StatusBadRequest
	case serrors.ErrConflict:
		return http.StatusConflict
	case serrors.ErrTimeout:
		return http.StatusGatewayTimeout
	case serrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	case serrors.ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
