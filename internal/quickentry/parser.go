package quickentry

import (
	"bookkeeper/pkg/domain"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

var (
	// negativePattern matches "<category>-<digits><trailing>". The category is
	// greedy so hyphens inside it ("7-11") stay part of the phrase.
	negativePattern = regexp.MustCompile(`^(.+)-\s*(\d+)(\D.*)?$`) //nolint: gochecknoglobals

	// unsupportedCurrencies are checked longest first so "NT$" is reported as such.
	unsupportedCurrencies = []string{"USD", "US$", "NTD", "NT$", "NT", "$"} //nolint: gochecknoglobals
	// supportedUnits are stripped from the trailing text.
	supportedUnits = []string{"塊錢", "元", "塊", "圓"} //nolint: gochecknoglobals
)

// Parser splits a quick-entry message into its fragments.
//
// Two shapes are accepted:
//   - explicit negative "<category>-<digits><trailing>", e.g. "午餐-100",
//     always an expense, paid in cash unless the trailing text says otherwise;
//   - standard "<category><digits><trailing>", e.g. "薪水50000轉帳", paid by
//     card unless the trailing text says otherwise.
type Parser struct {
	extractor AmountExtractor
}

// NewParser returns a Parser preferring digit runs of at least minDigits as the amount.
func NewParser(minDigits int) *Parser {
	return &Parser{extractor: NewAmountExtractor(minDigits)}
}

// Parse validates text and splits it into fragments.
func (p *Parser) Parse(text string) (domain.ParsedFragments, error) {
	text = strings.TrimSpace(width.Fold.String(text))
	if text == "" {
		return domain.ParsedFragments{}, reject(ErrEmptyMessage, &Detail{}, "message is empty")
	}

	runs := DigitRuns(text)
	if m := negativePattern.FindStringSubmatchIndex(text); m != nil && p.isAmountAt(runs, m[4]) {
		var trailing string
		if m[6] >= 0 {
			trailing = text[m[6]:m[7]]
		}
		if phrase := cleanPhrase(text[m[2]:m[3]]); phrase != "" {
			return p.parseNegative(text, phrase, text[m[4]:m[5]], trailing)
		}
	}

	return p.parseStandard(text, runs)
}

// isAmountAt reports whether the run the extractor selects as the amount
// starts at offset. A hyphen followed by digits is only an explicit negative
// when those digits are the amount, so "7-11 85" stays a standard entry.
func (p *Parser) isAmountAt(runs []DigitRun, offset int) bool {
	run, ok := p.extractor.SelectRun(runs)

	return ok && run.Start == offset
}

func (p *Parser) parseNegative(text, phrase, token, trailing string) (domain.ParsedFragments, error) {
	amount, err := parseAmount(text, token)
	if err != nil {
		return domain.ParsedFragments{}, err
	}
	if err := checkCurrency(text, phrase, trailing); err != nil {
		return domain.ParsedFragments{}, err
	}

	return domain.ParsedFragments{
		CategoryPhrase:     phrase,
		Amount:             amount,
		RawAmountToken:     "-" + token,
		PaymentMethod:      paymentMethod(stripUnits(trailing), domain.PaymentCash),
		IsExplicitNegative: true,
	}, nil
}

func (p *Parser) parseStandard(text string, runs []DigitRun) (domain.ParsedFragments, error) {
	run, ok := p.extractor.SelectRun(runs)
	if !ok {
		return domain.ParsedFragments{}, reject(ErrFormatNotRecognized, &Detail{Input: text},
			"message has no amount")
	}

	phrase := cleanPhrase(text[:run.Start])
	if phrase == "" {
		return domain.ParsedFragments{}, reject(ErrFormatNotRecognized, &Detail{Input: text},
			"message has no category")
	}

	if len(run.Digits) > 1 && run.Digits[0] == '0' {
		return domain.ParsedFragments{}, reject(ErrLeadingZeroRejected, &Detail{Input: text, Token: run.Digits},
			"amount %q has a leading zero", run.Digits)
	}
	amount, err := parseAmount(text, run.Digits)
	if err != nil {
		return domain.ParsedFragments{}, err
	}

	trailing := text[run.End:]
	if err := checkCurrency(text, phrase, trailing); err != nil {
		return domain.ParsedFragments{}, err
	}

	return domain.ParsedFragments{
		CategoryPhrase: phrase,
		Amount:         amount,
		RawAmountToken: run.Digits,
		PaymentMethod:  paymentMethod(stripUnits(trailing), domain.PaymentCard),
	}, nil
}

// parseAmount converts a digit token into a positive amount.
func parseAmount(text, token string) (int64, error) {
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, reject(ErrFormatNotRecognized, &Detail{Input: text, Token: token},
			"amount %q is out of range", token)
	}
	if v <= 0 {
		return 0, reject(ErrNonPositiveAmount, &Detail{Input: text, Token: token},
			"amount %q is not positive", token)
	}

	return v, nil
}

// checkCurrency rejects a foreign currency token written right after the
// amount or at the end of the message, and a currency symbol written right
// before the amount.
func checkCurrency(text, phrase, trailing string) error {
	before := strings.ToUpper(phrase)
	after := strings.ToUpper(strings.TrimSpace(trailing))
	for _, c := range unsupportedCurrencies {
		isSymbol := strings.HasSuffix(c, "$")
		if hasTokenPrefix(after, c) || hasTokenSuffix(after, c) || (isSymbol && hasTokenSuffix(before, c)) {
			return reject(ErrUnsupportedCurrency, &Detail{Input: text, Token: c},
				"currency %q is not supported", c)
		}
	}

	return nil
}

// hasTokenPrefix reports whether s starts with tok not followed by a latin
// letter, so "NT" matches "NT 現金" but not "NTU".
func hasTokenPrefix(s, tok string) bool {
	if !strings.HasPrefix(s, tok) {
		return false
	}

	return len(s) == len(tok) || !isLatinLetter(s[len(tok)])
}

// hasTokenSuffix reports whether s ends with tok not preceded by a latin letter.
func hasTokenSuffix(s, tok string) bool {
	if !strings.HasSuffix(s, tok) {
		return false
	}

	return len(s) == len(tok) || !isLatinLetter(s[len(s)-len(tok)-1])
}

func isLatinLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// stripUnits removes a supported currency unit from either end of trailing.
func stripUnits(trailing string) string {
	trailing = strings.TrimSpace(trailing)
	for _, u := range supportedUnits {
		if strings.HasPrefix(trailing, u) {
			trailing = strings.TrimSpace(strings.TrimPrefix(trailing, u))

			break
		}
	}
	for _, u := range supportedUnits {
		if strings.HasSuffix(trailing, u) {
			trailing = strings.TrimSpace(strings.TrimSuffix(trailing, u))

			break
		}
	}

	return trailing
}

// paymentMethod returns the first known payment method found in trailing, or def.
func paymentMethod(trailing, def string) string {
	for _, m := range domain.PaymentMethods() {
		if strings.Contains(trailing, m) {
			return m
		}
	}

	return def
}

// cleanPhrase trims whitespace and dangling separators around a category phrase.
func cleanPhrase(s string) string {
	return strings.Trim(s, " \t\r\n-:：,，")
}
