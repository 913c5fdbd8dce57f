package v1handler_test

import (
	"bookkeeper/internal/api/handler/v1handler"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEntryRequest(t *testing.T) {
	req, err := v1handler.DecodeEntryRequest(strings.NewReader(`{"text":"午餐-100","userId":"U1001","extra":[1,2]}`))
	require.NoError(t, err)
	require.Equal(t, v1handler.EntryRequest{Text: "午餐-100", UserID: "U1001"}, req)
}

func TestDecodeEntryRequest_invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "array", body: `["午餐-100"]`},
		{name: "text not a string", body: `{"text":100}`},
		{name: "truncated", body: `{"text":"午餐`},
		{name: "too large", body: `{"text":"` + strings.Repeat("a", 70<<10) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v1handler.DecodeEntryRequest(strings.NewReader(tt.body))
			require.Error(t, err)
		})
	}
}
