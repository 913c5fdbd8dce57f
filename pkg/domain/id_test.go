package domain_test

import (
	"bookkeeper/pkg/domain"
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBookkeepingID_String(t *testing.T) {
	require.Equal(t, "20250715-00001", domain.BookkeepingID{DatePart: "20250715", Sequence: 1}.String())
	require.Equal(t, "20250715-99999", domain.BookkeepingID{DatePart: "20250715", Sequence: 99999}.String())
	require.Equal(t, "20250715-T101500123-abcdef",
		domain.BookkeepingID{DatePart: "20250715", Fallback: "20250715-T101500123-abcdef"}.String())
}

func TestParseBookkeepingID(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want domain.BookkeepingID
		ok   bool
	}{
		{name: "sequenced", in: "20250715-00042", want: domain.BookkeepingID{DatePart: "20250715", Sequence: 42}, ok: true},
		{
			name: "fallback",
			in:   "20250715-T101500123-abcdef",
			want: domain.BookkeepingID{DatePart: "20250715", Fallback: "20250715-T101500123-abcdef"},
			ok:   true,
		},
		{name: "zero sequence", in: "20250715-00000"},
		{name: "short sequence", in: "20250715-42"},
		{name: "bad date", in: "20251345-00001"},
		{name: "no separator", in: "2025071500001"},
		{name: "empty", in: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.ParseBookkeepingID(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, domain.ErrInvalidBookkeepingID)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.in, got.String())
		})
	}
}

func TestBookkeepingID_Compare(t *testing.T) {
	ids := []domain.BookkeepingID{
		{DatePart: "20250716", Sequence: 1},
		{DatePart: "20250715", Fallback: "20250715-T000000000-000000"},
		{DatePart: "20250715", Sequence: 10},
		{DatePart: "20250715", Sequence: 2},
	}
	slices.SortFunc(ids, domain.BookkeepingID.Compare)

	got := make([]string, 0, len(ids))
	for _, id := range ids {
		got = append(got, id.String())
	}
	require.Equal(t, []string{
		"20250715-00002",
		"20250715-00010",
		"20250715-T000000000-000000",
		"20250716-00001",
	}, got)
}

func TestBookkeepingID_JSON(t *testing.T) {
	in := struct {
		ID domain.BookkeepingID `json:"id"`
	}{ID: domain.BookkeepingID{DatePart: "20250715", Sequence: 3}}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"20250715-00003"}`, string(b))

	var out struct {
		ID domain.BookkeepingID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, in.ID, out.ID)
}

func TestBookkeepingID_JSONZero(t *testing.T) {
	var in struct {
		ID domain.BookkeepingID `json:"id"`
	}

	b, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":""}`, string(b))

	in.ID = domain.BookkeepingID{DatePart: "20250715", Sequence: 1}
	require.NoError(t, json.Unmarshal(b, &in))
	require.True(t, in.ID.IsZero())
}

func TestDirection_Label(t *testing.T) {
	require.Equal(t, "收入", domain.DirectionIncome.Label())
	require.Equal(t, "支出", domain.DirectionExpense.Label())
}
