// Package callbacks decodes inline button callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Telebot prefixes data of buttons built with a unique name with this byte.
const uniquePrefix = "\f"

// ParseData splits raw callback data into key and payload.
//
// Both telebot's "\f<unique>|<payload>" form and plain tokens such as
// "buy_12" are accepted; a plain token is returned whole as the key.
func ParseData(data string) (key, payload string) {
	if !strings.HasPrefix(data, uniquePrefix) {
		return strings.TrimSpace(data), ""
	}
	key, payload, _ = strings.Cut(strings.TrimPrefix(data, uniquePrefix), "|")
	return strings.TrimSpace(key), payload
}

// Parse returns the key and payload of cb. Telebot fills Unique and strips
// it from Data when a unique handler matched.
func Parse(cb *tele.Callback) (key, payload string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	return ParseData(cb.Data)
}

// Key returns the callback key of the update in c, or "" for non-callback updates.
func Key(c tele.Context) string {
	key, _ := Parse(c.Callback())
	return key
}
