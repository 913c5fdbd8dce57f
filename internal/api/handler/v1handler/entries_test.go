package v1handler_test

import (
	"bookkeeper/internal/api/handler/v1handler"
	"bookkeeper/internal/quickentry"
	mockquickentry "bookkeeper/internal/quickentry/mock"
	"bookkeeper/pkg/controller"
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/serrors"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestMux(t *testing.T, svc quickentry.Service, sh *v1handler.SecHandler) http.Handler {
	t.Helper()
	if sh == nil {
		var err error
		sh, err = v1handler.NewSecHandler(nil)
		require.NoError(t, err)
	}
	mux := http.NewServeMux()
	v1handler.New(v1handler.Deps{QuickEntry: svc}).Register(mux, sh)

	return controller.WithLogger(mux)
}

func sampleEntry() domain.ParsedEntry {
	return domain.ParsedEntry{
		ID:        domain.BookkeepingID{DatePart: "20250715", Sequence: 1},
		UserID:    "U1001",
		Amount:    100,
		Direction: domain.DirectionExpense,
		Category: domain.CategoryRecord{
			MajorCode: "5", MajorName: "餐飲", SubCode: "501", SubName: "午餐", Synonyms: []string{"中餐"},
		},
		PaymentMethod: domain.PaymentCash,
		RawText:       "午餐-100",
		CreatedAt:     time.Date(2025, 7, 15, 12, 30, 0, 0, time.FixedZone("CST", 8*60*60)),
	}
}

const sampleEntryJSON = `{
	"id":"20250715-00001","userId":"U1001","amount":100,"direction":"EXPENSE",
	"category":{"majorCode":"5","majorName":"餐飲","subCode":"501","subName":"午餐","synonyms":["中餐"]},
	"paymentMethod":"現金","rawText":"午餐-100","createdAt":"2025-07-15T12:30:00+08:00"}`

func TestCreateEntry_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)
	entry := sampleEntry()

	svc.EXPECT().Record(gomock.Any(), domain.RawInput{Text: "午餐-100", UserID: "U1001", RequestID: "req-1"}).
		Return(quickentry.Response{Success: true, Message: "記帳成功!", Entry: &entry}, nil)

	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(`{"text":"午餐-100","userId":"U1001"}`))
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"success":true,"message":"記帳成功!","entry":`+sampleEntryJSON+`}`, rec.Body.String())
}

func TestCreateEntry_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)

	svc.EXPECT().Record(gomock.Any(), gomock.Any()).Return(quickentry.Response{
		Success:   false,
		Message:   "金額不可以 0 開頭: 0100",
		ErrorKind: quickentry.ErrLeadingZeroRejected.Error(),
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(`{"text":"午餐0100","userId":"U1001"}`))
	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.JSONEq(t,
		`{"success":false,"message":"金額不可以 0 開頭: 0100","errorKind":"LEADING_ZERO_REJECTED"}`,
		rec.Body.String())
}

func TestCreateEntry_UnexpectedFailureKeepsContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)

	svc.EXPECT().Record(gomock.Any(), gomock.Any()).Return(quickentry.Response{
		Success:   false,
		Message:   quickentry.GenericFailureMessage,
		ErrorKind: serrors.ErrInternal.Error(),
	}, errors.New("could not record quick entry: disk full"))

	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(`{"text":"午餐-100","userId":"U1001"}`))
	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "disk full")
	require.JSONEq(t,
		`{"success":false,"message":"`+quickentry.GenericFailureMessage+`","errorKind":"INTERNAL"}`,
		rec.Body.String())
}

func TestCreateEntry_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed", body: `{"text":`},
		{name: "missing user", body: `{"text":"午餐-100"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mockquickentry.NewMockService(ctrl)

			req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newTestMux(t, svc, nil).ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)
		})
	}
}

func TestCreateEntry_AuthenticatedUserWins(t *testing.T) {
	priv, pubPEM := genRSAKeys(t)
	sh := newSecHandlerForTest(t, pubPEM)
	now := time.Now()

	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)
	svc.EXPECT().Record(gomock.Any(), gomock.Cond(func(in domain.RawInput) bool {
		return in.UserID == "U1001" && in.Text == "午餐-100"
	})).Return(quickentry.Response{Success: true, Message: "ok"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/entries", strings.NewReader(`{"text":"午餐-100","userId":"U9999"}`))
	req.Header.Set("Authorization", "Bearer "+signJWTRS256(t, priv, "U1001", now, now.Add(time.Hour)))
	rec := httptest.NewRecorder()
	newTestMux(t, svc, sh).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPreviewEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)
	entry := sampleEntry()
	entry.ID = domain.BookkeepingID{}

	svc.EXPECT().Preview(gomock.Any(), gomock.Any()).
		Return(quickentry.Response{Success: true, Message: "記帳預覽（尚未儲存）", Entry: &entry}, nil)

	req := httptest.NewRequest(http.MethodPost, "/entries/preview", strings.NewReader(`{"text":"午餐-100","userId":"U1001"}`))
	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":""`)
}

func TestGetEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)
	entry := sampleEntry()

	svc.EXPECT().Entry(gomock.Any(), domain.UserID("U1001"), entry.ID).Return(&entry, nil)

	req := httptest.NewRequest(http.MethodGet, "/entries/20250715-00001?userId=U1001", nil)
	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, sampleEntryJSON, rec.Body.String())
}

func TestGetEntry_Errors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mockquickentry.NewMockService(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/entries/nope?userId=U1001", nil)
		rec := httptest.NewRecorder()
		newTestMux(t, svc, nil).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mockquickentry.NewMockService(ctrl)
		svc.EXPECT().Entry(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, serrors.With(serrors.ErrNotFound, "entry not found"))

		req := httptest.NewRequest(http.MethodGet, "/entries/20250715-00002?userId=U1001", nil)
		rec := httptest.NewRecorder()
		newTestMux(t, svc, nil).ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		require.JSONEq(t, `{"code":"NOT_FOUND","message":"entry not found"}`, rec.Body.String())
	})

	t.Run("missing user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mockquickentry.NewMockService(ctrl)

		req := httptest.NewRequest(http.MethodGet, "/entries/20250715-00001", nil)
		rec := httptest.NewRecorder()
		newTestMux(t, svc, nil).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)

	svc.EXPECT().Categories(gomock.Any(), domain.UserID("U1001")).Return([]domain.CategoryRecord{
		{MajorCode: "5", MajorName: "餐飲", SubCode: "501", SubName: "午餐"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/categories?userId=U1001", nil)
	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t,
		`{"items":[{"majorCode":"5","majorName":"餐飲","subCode":"501","subName":"午餐","synonyms":[]}]}`,
		rec.Body.String())
}

func TestListCategories_DirectoryUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)

	svc.EXPECT().Categories(gomock.Any(), gomock.Any()).
		Return(nil, serrors.Wrap(quickentry.ErrDirectoryUnavailable, context.DeadlineExceeded, "could not load categories"))

	req := httptest.NewRequest(http.MethodGet, "/categories?userId=U1001", nil)
	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mockquickentry.NewMockService(ctrl)

	rec := httptest.NewRecorder()
	newTestMux(t, svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/entries", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
