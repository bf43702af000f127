// Package format renders minor-currency-unit amounts for player-facing
// messages.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Amount formats a minor-unit amount with digit grouping, e.g. 1900000
// becomes "1,900,000".
func Amount(n int64) string {
	return printer.Sprintf("%d", n)
}
