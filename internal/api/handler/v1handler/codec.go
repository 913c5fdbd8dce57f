package v1handler

import (
	"bookkeeper/internal/quickentry"
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/logger"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; quick entries are a single short line.
const maxBodyBytes = 64 << 10

// EntryRequest is the body of POST /v1/entries and /v1/entries/preview.
type EntryRequest struct {
	Text   string
	UserID string
}

// DecodeEntryRequest reads an EntryRequest. Unknown fields are ignored.
func DecodeEntryRequest(r io.Reader) (EntryRequest, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return EntryRequest{}, errors.Wrap(err, "read body")
	}
	if len(b) > maxBodyBytes {
		return EntryRequest{}, errors.New("body too large")
	}

	var req EntryRequest
	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return EntryRequest{}, errors.New("body must be a JSON object")
	}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "text":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "decode text")
			}
			req.Text = v
		case "userId":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "decode userId")
			}
			req.UserID = v
		default:
			return d.Skip()
		}

		return nil
	}); err != nil {
		return EntryRequest{}, errors.Wrap(err, "decode entry request")
	}

	return req, nil
}

func encodeResponse(e *jx.Encoder, res quickentry.Response) {
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(res.Success)
	e.FieldStart("message")
	e.Str(res.Message)
	if res.Entry != nil {
		e.FieldStart("entry")
		encodeEntry(e, *res.Entry)
	}
	if res.ErrorKind != "" {
		e.FieldStart("errorKind")
		e.Str(res.ErrorKind)
	}
	e.ObjEnd()
}

func encodeEntry(e *jx.Encoder, entry domain.ParsedEntry) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(entry.ID.String())
	e.FieldStart("userId")
	e.Str(entry.UserID.String())
	e.FieldStart("amount")
	e.Int64(entry.Amount)
	e.FieldStart("direction")
	e.Str(string(entry.Direction))
	e.FieldStart("category")
	encodeCategory(e, entry.Category)
	e.FieldStart("paymentMethod")
	e.Str(entry.PaymentMethod)
	e.FieldStart("rawText")
	e.Str(entry.RawText)
	e.FieldStart("createdAt")
	e.Str(entry.CreatedAt.Format(time.RFC3339))
	e.ObjEnd()
}

func encodeCategory(e *jx.Encoder, c domain.CategoryRecord) {
	e.ObjStart()
	e.FieldStart("majorCode")
	e.Str(c.MajorCode)
	e.FieldStart("majorName")
	e.Str(c.MajorName)
	e.FieldStart("subCode")
	e.Str(c.SubCode)
	e.FieldStart("subName")
	e.Str(c.SubName)
	e.FieldStart("synonyms")
	e.ArrStart()
	for _, s := range c.Synonyms {
		e.Str(s)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeCategories(e *jx.Encoder, categories []domain.CategoryRecord) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, c := range categories {
		encodeCategory(e, c)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeError(res Error) func(e *jx.Encoder) {
	return func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Str(res.Code)
		e.FieldStart("message")
		e.Str(res.Message)
		e.ObjEnd()
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		logger.Warn(ctx, "could not write response", zap.Error(err))
	}
}
