package order

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// reservedMarkdownV2 is the control-character set of the Telegram MarkdownV2
// dialect. Every occurrence inside interpolated data needs a backslash prefix
// or the API rejects the whole message.
const reservedMarkdownV2 = "_*[]()~`>#+-=|{}.!"

// amountPrinter groups thousands the way the storefront locale does
// (2499 -> "2 499").
var amountPrinter = message.NewPrinter(language.Russian)

// EscapeMarkdownV2 escapes every reserved character of the dialect with a
// single backslash. It is applied to interpolated values only, never to the
// literal template text, and is deterministic: equal input yields equal
// output.
func EscapeMarkdownV2(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(reservedMarkdownV2, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatAmount(n int64) string {
	return amountPrinter.Sprintf("%d", n)
}

// RenderMessage produces the literal MarkdownV2 text sent to the notification
// channel. Name, phone and every numeric amount are treated as data and
// escaped uniformly; the fixed template is authored pre-escaped. The discount
// line is omitted entirely when there is no discount, and the final line
// always states the payable total.
func RenderMessage(s Submission, currency string) string {
	cur := EscapeMarkdownV2(currency)

	var b strings.Builder
	b.WriteString("*New order*\n\n")
	b.WriteString("*Name:* " + EscapeMarkdownV2(s.Name) + "\n")
	b.WriteString("*Phone:* " + EscapeMarkdownV2(s.Phone) + "\n\n")
	b.WriteString("*Items:*\n")
	for _, item := range s.Items {
		b.WriteString("\\- " + EscapeMarkdownV2(item.Title))
		b.WriteString(" \\(" + EscapeMarkdownV2(formatAmount(int64(item.Quantity))) + " pcs\\.\\)")
		b.WriteString(" \\- " + EscapeMarkdownV2(formatAmount(item.UnitPrice)) + " " + cur + "\n")
	}
	b.WriteString("\n")
	if s.Discount > 0 {
		b.WriteString("Discount: " + EscapeMarkdownV2(formatAmount(s.Discount)) + " " + cur + "\n")
	}
	b.WriteString("*Total: " + EscapeMarkdownV2(formatAmount(s.Total)) + " " + cur + "*")
	return b.String()
}
