package quickentry

import (
	"bookkeeper/pkg/domain"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// GenericFailureMessage is shown when nothing more specific can be said.
	GenericFailureMessage = "記帳失敗，請稍後再試"

	timestampLayout = "2006/01/02 15:04"
)

// Formatter renders user-facing confirmation and error texts in Traditional
// Chinese. It never fails: anything it cannot render degrades to
// GenericFailureMessage.
type Formatter struct {
	location *time.Location
}

// NewFormatter returns a Formatter displaying timestamps in location.
func NewFormatter(location *time.Location) Formatter {
	if location == nil {
		location = time.UTC
	}

	return Formatter{location: location}
}

// FormatSuccess renders the confirmation of a recorded entry. Entries with a
// zero id are rendered as previews.
func (f Formatter) FormatSuccess(entry domain.ParsedEntry) (msg string) {
	defer func() {
		if p := recover(); p != nil {
			msg = GenericFailureMessage
		}
	}()

	var b strings.Builder
	if entry.ID.IsZero() {
		b.WriteString("記帳預覽（尚未儲存）\n")
	} else {
		b.WriteString("記帳成功！\n")
		fmt.Fprintf(&b, "編號：%s\n", entry.ID)
	}
	fmt.Fprintf(&b, "時間：%s\n", entry.CreatedAt.In(f.location).Format(timestampLayout))
	fmt.Fprintf(&b, "科目：%s\n", categoryLabel(entry.Category))
	fmt.Fprintf(&b, "金額：%d 元\n", entry.Amount)
	fmt.Fprintf(&b, "收支：%s\n", entry.Direction.Label())
	fmt.Fprintf(&b, "付款方式：%s", entry.PaymentMethod)

	return b.String()
}

// FormatFailure renders an actionable message for err. input is the message
// the user sent.
func (f Formatter) FormatFailure(err error, input string) (msg string) {
	defer func() {
		if p := recover(); p != nil || msg == "" {
			msg = GenericFailureMessage
		}
	}()

	var d Detail
	if found := DetailOf(err); found != nil {
		d = *found
	}
	if d.Input == "" {
		d.Input = input
	}

	switch {
	case err == nil:
		return GenericFailureMessage
	case errors.Is(err, ErrEmptyMessage):
		return "請輸入記帳內容，例如：午餐-100 或 薪水50000轉帳"
	case errors.Is(err, ErrFormatNotRecognized):
		return fmt.Sprintf("無法辨識格式: %s\n請輸入「科目金額」，例如：午餐120 或 午餐-120現金", d.Input)
	case errors.Is(err, ErrLeadingZeroRejected):
		return fmt.Sprintf("金額不可以 0 開頭: %s", d.Token)
	case errors.Is(err, ErrNonPositiveAmount):
		return fmt.Sprintf("金額必須大於 0: %s", d.Token)
	case errors.Is(err, ErrUnsupportedCurrency):
		return fmt.Sprintf("不支援的幣別: %s，目前只接受新台幣（元）", d.Token)
	case errors.Is(err, ErrCategoryNotFound):
		if len(d.Suggestions) == 0 {
			return fmt.Sprintf("找不到科目: %s", d.Input)
		}

		return fmt.Sprintf("找不到科目: %s\n您是不是要找：%s", d.Input, strings.Join(d.Suggestions, "、"))
	case errors.Is(err, ErrDirectoryUnavailable):
		return "目前無法讀取科目清單，請稍後再試"
	case errors.Is(err, ErrSequenceExhausted):
		return fmt.Sprintf("今日記帳編號已用完（上限 %d 筆）", domain.MaxSequence)
	case errors.Is(err, ErrAllocatorUnavailable):
		return "目前無法產生記帳編號，請稍後再試"
	default:
		return GenericFailureMessage
	}
}

// categoryLabel renders "major > sub", leaving out whatever is missing.
func categoryLabel(c domain.CategoryRecord) string {
	major := strings.TrimSpace(c.MajorName)
	sub := strings.TrimSpace(c.SubName)
	switch {
	case major != "" && sub != "" && major != sub:
		return major + " > " + sub
	case sub != "":
		return sub
	case major != "":
		return major
	default:
		return c.SubCode
	}
}
