// Package commands describes slash commands exposed in the bot menu.
package commands

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Command is a slash command with its handler and menu metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// Hidden commands are routed but left out of the Telegram menu.
	Hidden  bool
	Aliases []string
}

// Normalize returns name with exactly one leading slash, lower-cased.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	return "/" + strings.TrimLeft(name, "/")
}
