package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Price is an amount in whole US dollars.
type Price int

var printer = message.NewPrinter(language.AmericanEnglish)

// String formats the price as "$1,255".
func (p Price) String() string {
	return printer.Sprintf("$%d", int(p))
}
