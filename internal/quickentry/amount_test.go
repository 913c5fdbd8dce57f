package quickentry_test

import (
	"bookkeeper/internal/quickentry"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigitRuns(t *testing.T) {
	runs := quickentry.DigitRuns("7-11咖啡120元")
	require.Len(t, runs, 3)
	require.Equal(t, "7", runs[0].Digits)
	require.Equal(t, "11", runs[1].Digits)
	require.Equal(t, "120", runs[2].Digits)

	text := "7-11咖啡120元"
	for _, r := range runs {
		require.Equal(t, r.Digits, text[r.Start:r.End])
	}

	require.Empty(t, quickentry.DigitRuns("午餐"))
	require.Equal(t, "50", quickentry.DigitRuns("50")[0].Digits)
}

func TestExtractAmount(t *testing.T) {
	extractor := quickentry.NewAmountExtractor(3)

	tests := []struct {
		name    string
		text    string
		amount  int64
		matched bool
	}{
		{name: "single run", text: "午餐120", amount: 120, matched: true},
		{name: "longest run wins over later run", text: "薪水50000加班費300", amount: 50000, matched: true},
		{name: "equal length prefers later run", text: "7-11 100 200", amount: 200, matched: true},
		{name: "short runs are noise", text: "7-11咖啡500", amount: 500, matched: true},
		{name: "only short runs", text: "咖啡50", matched: false},
		{name: "no digits", text: "午餐", matched: false},
		{name: "full width digits", text: "午餐１２０", amount: 120, matched: true},
		{name: "overflow", text: "午餐99999999999999999999", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, matched := extractor.ExtractAmount(tt.text)
			require.Equal(t, tt.matched, matched)
			require.Equal(t, tt.amount, amount)
		})
	}
}

func TestSelectRun(t *testing.T) {
	extractor := quickentry.NewAmountExtractor(3)

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "long run beats longer short ones", text: "7-11咖啡120", want: "120"},
		{name: "longest short run", text: "咖啡50 2杯", want: "50"},
		{name: "short run tie prefers later", text: "7-11 85", want: "85"},
		{name: "single digit", text: "午餐5", want: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, ok := extractor.SelectRun(quickentry.DigitRuns(tt.text))
			require.True(t, ok)
			require.Equal(t, tt.want, run.Digits)
		})
	}

	_, ok := extractor.SelectRun(nil)
	require.False(t, ok)
}

func TestExtractAmount_ShortRunsNeverMatch(t *testing.T) {
	extractor := quickentry.NewAmountExtractor(3)

	for n := 0; n < 100; n++ {
		for _, text := range []string{
			fmt.Sprintf("咖啡%d", n),
			fmt.Sprintf("%d號公車", n),
			fmt.Sprintf("第%d天午餐%d元", n%10, n),
		} {
			_, matched := extractor.ExtractAmount(text)
			require.False(t, matched, text)
		}
	}
}

func TestNewAmountExtractor_Default(t *testing.T) {
	require.Equal(t, quickentry.DefaultMinAmountDigits, quickentry.NewAmountExtractor(0).MinDigits())
	require.Equal(t, 2, quickentry.NewAmountExtractor(2).MinDigits())
}
