package v1handler

import (
	"bookkeeper/internal/quickentry"
	"bookkeeper/pkg/controller"
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/serrors"
	"context"
	"net/http"

	"github.com/go-faster/jx"
)

// CreateEntry records a quick entry.
func (h Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	h.handleEntry(w, r, h.deps.QuickEntry.Record)
}

// PreviewEntry parses and resolves a quick entry without storing it.
func (h Handler) PreviewEntry(w http.ResponseWriter, r *http.Request) {
	h.handleEntry(w, r, h.deps.QuickEntry.Preview)
}

func (h Handler) handleEntry(w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, domain.RawInput) (quickentry.Response, error)) {
	ctx := r.Context()

	req, err := DecodeEntryRequest(r.Body)
	if err != nil {
		h.WriteError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body"))

		return
	}

	userID := GetUserIDFromContext(ctx)
	if userID.IsZero() {
		userID = domain.UserID(req.UserID)
	}
	if userID.IsZero() {
		h.WriteError(w, r, serrors.With(serrors.ErrBadRequest, "userId is required"))

		return
	}

	res, err := op(ctx, domain.RawInput{
		Text:      req.Text,
		UserID:    userID,
		RequestID: controller.GetRequestID(ctx),
	})
	// the service already logged err; the body carries its safe message
	writeJSON(ctx, w, EntryStatusCode(res, err), func(e *jx.Encoder) { encodeResponse(e, res) })
}

// EntryStatusCode returns the status of an entry response. Rejected messages
// are 422; failures of the service's dependencies keep their own status.
func EntryStatusCode(res quickentry.Response, err error) int {
	if err != nil {
		return StatusCode(quickentry.TransportKind(err))
	}
	if res.Success {
		return http.StatusOK
	}

	kind := quickentry.TransportKindOfCode(res.ErrorKind)
	if kind == serrors.ErrBadRequest || kind == serrors.ErrNotFound {
		return http.StatusUnprocessableEntity
	}

	return StatusCode(kind)
}

// GetEntry returns a recorded entry of the caller.
func (h Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.queryUser(w, r)
	if !ok {
		return
	}
	id, err := domain.ParseBookkeepingID(r.PathValue("id"))
	if err != nil {
		h.WriteError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid entry id"))

		return
	}

	entry, err := h.deps.QuickEntry.Entry(ctx, userID, id)
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, func(e *jx.Encoder) { encodeEntry(e, *entry) })
}

// ListCategories returns the caller's category directory.
func (h Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.queryUser(w, r)
	if !ok {
		return
	}

	categories, err := h.deps.QuickEntry.Categories(ctx, userID)
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, func(e *jx.Encoder) { encodeCategories(e, categories) })
}

// queryUser returns the authenticated user or, without authentication, the
// userId query parameter.
func (h Handler) queryUser(w http.ResponseWriter, r *http.Request) (domain.UserID, bool) {
	userID := GetUserIDFromContext(r.Context())
	if userID.IsZero() {
		userID = domain.UserID(r.URL.Query().Get("userId"))
	}
	if userID.IsZero() {
		h.WriteError(w, r, serrors.With(serrors.ErrBadRequest, "userId is required"))

		return "", false
	}

	return userID, true
}
