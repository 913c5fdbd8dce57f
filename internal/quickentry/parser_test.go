package quickentry_test

import (
	"bookkeeper/internal/quickentry"
	"bookkeeper/pkg/domain"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	parser := quickentry.NewParser(quickentry.DefaultMinAmountDigits)

	tests := []struct {
		name    string
		text    string
		want    domain.ParsedFragments
		wantErr error
	}{
		{
			name: "negative form defaults to cash",
			text: "午餐-100",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 100, RawAmountToken: "-100",
				PaymentMethod: domain.PaymentCash, IsExplicitNegative: true,
			},
		},
		{
			name: "standard form with payment method",
			text: "薪水50000轉帳",
			want: domain.ParsedFragments{
				CategoryPhrase: "薪水", Amount: 50000, RawAmountToken: "50000", PaymentMethod: domain.PaymentTransfer,
			},
		},
		{
			name: "standard form defaults to card",
			text: "咖啡50",
			want: domain.ParsedFragments{
				CategoryPhrase: "咖啡", Amount: 50, RawAmountToken: "50", PaymentMethod: domain.PaymentCard,
			},
		},
		{
			name: "negative form with payment method",
			text: "計程車-250 行動支付",
			want: domain.ParsedFragments{
				CategoryPhrase: "計程車", Amount: 250, RawAmountToken: "-250",
				PaymentMethod: domain.PaymentMobile, IsExplicitNegative: true,
			},
		},
		{
			name: "supported unit stripped",
			text: "午餐120元現金",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 120, RawAmountToken: "120", PaymentMethod: domain.PaymentCash,
			},
		},
		{
			name: "short digit runs stay in the phrase",
			text: "7-11咖啡120",
			want: domain.ParsedFragments{
				CategoryPhrase: "7-11咖啡", Amount: 120, RawAmountToken: "120", PaymentMethod: domain.PaymentCard,
			},
		},
		{
			name: "hyphenated phrase in negative form",
			text: "7-11-85",
			want: domain.ParsedFragments{
				CategoryPhrase: "7-11", Amount: 85, RawAmountToken: "-85",
				PaymentMethod: domain.PaymentCash, IsExplicitNegative: true,
			},
		},
		{
			name: "full width input",
			text: "午餐－１００",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 100, RawAmountToken: "-100",
				PaymentMethod: domain.PaymentCash, IsExplicitNegative: true,
			},
		},
		{
			name: "surrounding whitespace",
			text: "  午餐 120 刷卡 ",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 120, RawAmountToken: "120", PaymentMethod: domain.PaymentCard,
			},
		},
		{
			name: "longest short run is the amount",
			text: "咖啡50 2杯",
			want: domain.ParsedFragments{
				CategoryPhrase: "咖啡", Amount: 50, RawAmountToken: "50", PaymentMethod: domain.PaymentCard,
			},
		},
		{
			name: "quantity after the unit",
			text: "午餐80元1份",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 80, RawAmountToken: "80", PaymentMethod: domain.PaymentCard,
			},
		},
		{
			name: "store number with spaced amount",
			text: "7-11 85",
			want: domain.ParsedFragments{
				CategoryPhrase: "7-11", Amount: 85, RawAmountToken: "85", PaymentMethod: domain.PaymentCard,
			},
		},
		{
			name: "negative form with digits in trailing text",
			text: "午餐-100 2人",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 100, RawAmountToken: "-100",
				PaymentMethod: domain.PaymentCash, IsExplicitNegative: true,
			},
		},
		{
			name: "negative form with quantity and payment method",
			text: "午餐-100 x2現金",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 100, RawAmountToken: "-100",
				PaymentMethod: domain.PaymentCash, IsExplicitNegative: true,
			},
		},
		{
			name: "negative form with quantity paid by card",
			text: "午餐-100 2人刷卡",
			want: domain.ParsedFragments{
				CategoryPhrase: "午餐", Amount: 100, RawAmountToken: "-100",
				PaymentMethod: domain.PaymentCard, IsExplicitNegative: true,
			},
		},
		{name: "empty", text: "", wantErr: quickentry.ErrEmptyMessage},
		{name: "whitespace only", text: " \t\n", wantErr: quickentry.ErrEmptyMessage},
		{name: "leading zero", text: "午餐01", wantErr: quickentry.ErrLeadingZeroRejected},
		{name: "zero amount", text: "午餐0", wantErr: quickentry.ErrNonPositiveAmount},
		{name: "negative zero amount", text: "午餐-0", wantErr: quickentry.ErrNonPositiveAmount},
		{name: "NT suffix", text: "咖啡50NT", wantErr: quickentry.ErrUnsupportedCurrency},
		{name: "USD suffix", text: "咖啡150 usd", wantErr: quickentry.ErrUnsupportedCurrency},
		{name: "dollar suffix", text: "咖啡150$", wantErr: quickentry.ErrUnsupportedCurrency},
		{name: "dollar prefix", text: "咖啡$150", wantErr: quickentry.ErrUnsupportedCurrency},
		{name: "currency in negative form", text: "咖啡-150NT", wantErr: quickentry.ErrUnsupportedCurrency},
		{name: "no amount", text: "午餐", wantErr: quickentry.ErrFormatNotRecognized},
		{name: "no category", text: "100", wantErr: quickentry.ErrFormatNotRecognized},
		{name: "only a negative number", text: "-100", wantErr: quickentry.ErrFormatNotRecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_ErrorDetail(t *testing.T) {
	parser := quickentry.NewParser(quickentry.DefaultMinAmountDigits)

	_, err := parser.Parse("午餐01")
	d := quickentry.DetailOf(err)
	require.NotNil(t, d)
	require.Equal(t, "01", d.Token)
	require.Equal(t, "午餐01", d.Input)

	_, err = parser.Parse("咖啡50NT")
	d = quickentry.DetailOf(err)
	require.NotNil(t, d)
	require.Equal(t, "NT", d.Token)
}

func TestParse_StandardAmountProperty(t *testing.T) {
	parser := quickentry.NewParser(quickentry.DefaultMinAmountDigits)
	suffixes := []string{"", "元", "塊", "圓", "現金", "刷卡", "行動支付", "轉帳", "元轉帳", " 現金"}

	for _, n := range []int64{1, 7, 10, 42, 99, 100, 101, 999, 1000, 12345, 50000, 99999, 1000000, 123456789} {
		for _, suffix := range suffixes {
			text := fmt.Sprintf("午餐%d%s", n, suffix)
			got, err := parser.Parse(text)
			require.NoError(t, err, text)
			require.Equal(t, n, got.Amount, text)
			require.Equal(t, "午餐", got.CategoryPhrase, text)
			require.False(t, got.IsExplicitNegative, text)
		}
	}
}

func TestParse_AmountAlwaysPositive(t *testing.T) {
	parser := quickentry.NewParser(quickentry.DefaultMinAmountDigits)

	for n := int64(1); n <= 2000; n += 37 {
		for _, text := range []string{fmt.Sprintf("午餐-%d", n), fmt.Sprintf("午餐%d", n)} {
			got, err := parser.Parse(text)
			require.NoError(t, err, text)
			require.Positive(t, got.Amount, text)
			require.Equal(t, n, got.Amount, text)
		}
	}
}
