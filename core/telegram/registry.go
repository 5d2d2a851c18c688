package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/m3rciful/shopbot/core/logger"
	"github.com/m3rciful/shopbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// Registry holds the slash commands of a bot.
type Registry struct {
	commands map[string]commands.Command
	aliases  map[string]string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		aliases:  make(map[string]string),
	}
}

// RegisterCommand adds a command under name. Registration happens at startup
// and is not safe for concurrent use.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) error {
	key := commands.Normalize(name)
	if key == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("cause", "invalid"),
		)
		return errors.New("telegram: command needs a name, handler and description")
	}
	if _, exists := r.lookup(key); exists {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelWarn, "register.command.duplicate",
			slog.String("name", key),
		)
		return fmt.Errorf("telegram: command %s already registered", key)
	}
	r.commands[key] = cmd
	for _, alias := range cmd.Aliases {
		if a := commands.Normalize(alias); a != "" && a != key {
			r.aliases[a] = key
		}
	}
	return nil
}

func (r *Registry) lookup(key string) (string, bool) {
	if _, ok := r.commands[key]; ok {
		return key, true
	}
	canonical, ok := r.aliases[key]
	return canonical, ok
}

// LookupCommand resolves name or one of its aliases to the canonical command.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	key, ok := r.lookup(commands.Normalize(name))
	if !ok {
		return "", commands.Command{}, false
	}
	return key, r.commands[key], true
}

// ListCommands returns the commands sorted by name, skipping hidden ones when
// visibleOnly is set. Names are returned without the slash, as setMyCommands expects.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	list := make([]tele.Command, 0, len(r.commands))
	for name, cmd := range r.commands {
		if visibleOnly && cmd.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: strings.TrimPrefix(name, "/"), Description: cmd.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// Endpoints returns every name a command answers to, aliases included.
func (r *Registry) Endpoints() map[string]commands.Command {
	out := make(map[string]commands.Command, len(r.commands)+len(r.aliases))
	for name, cmd := range r.commands {
		out[name] = cmd
	}
	for alias, key := range r.aliases {
		out[alias] = r.commands[key]
	}
	return out
}

// commandSetter is implemented by *tele.Bot.
type commandSetter interface {
	SetCommands(opts ...interface{}) error
}

// InitBotCommands publishes the visible commands to the Telegram menu.
func InitBotCommands(bot commandSetter, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.LogEvent(context.Background(), logger.TWire, slog.LevelError, "register.commands",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.LogEvent(context.Background(), logger.TWire, slog.LevelInfo, "register.commands",
		slog.String("status", "ok"),
		slog.Int("count", len(list)),
	)
}
