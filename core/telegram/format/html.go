// Package format builds Telegram HTML fragments.
package format

import (
	"html"
	"strconv"
)

// CurrencySign is appended to rendered prices.
const CurrencySign = "₽"

// Escape makes user supplied text safe for the HTML parse mode.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Bold wraps escaped text in <b>.
func Bold(s string) string {
	return "<b>" + Escape(s) + "</b>"
}

// Code wraps escaped text in <code> so clients render it fixed-width and copyable.
func Code(s string) string {
	return "<code>" + Escape(s) + "</code>"
}

// Price renders an amount in the smallest currency unit, e.g. 300₽.
func Price(amount int64) string {
	return strconv.FormatInt(amount, 10) + CurrencySign
}
