// Package state keeps the per-user conversation step of a Telegram bot.
// A user without a record is idle.
package state
