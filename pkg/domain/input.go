package domain

// Payment methods recognized in the trailing text of a quick entry.
const (
	PaymentCash     = "現金"
	PaymentCard     = "刷卡"
	PaymentMobile   = "行動支付"
	PaymentTransfer = "轉帳"
)

// PaymentMethods lists the recognized payment methods in scan order: the first
// one found in the trailing text wins.
func PaymentMethods() []string {
	return []string{PaymentCash, PaymentCard, PaymentMobile, PaymentTransfer}
}

// RawInput is a single quick-entry request as received from a chat webhook,
// the REST API or the CLI.
type RawInput struct {
	Text      string
	UserID    UserID
	RequestID string
}

// ParsedFragments is the structural split of a quick-entry message. Amount is
// always positive; the sign of an explicit negative literal is carried by
// IsExplicitNegative instead.
type ParsedFragments struct {
	CategoryPhrase     string
	Amount             int64
	RawAmountToken     string
	PaymentMethod      string
	IsExplicitNegative bool
}
