// Package bot implements the Discord prefix-command interface for
// provisioning and managing LXC containers.
package bot

import (
	"regexp"
	"sort"
	"strings"

	"vpsbot/state"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

var mentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)

type Command struct {
	Name        string
	Usage       string
	Description string
	AdminOnly   bool
	Handler     func(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error
}

var Registry = map[string]*Command{}

func register(cmd *Command) {
	if _, ok := Registry[cmd.Name]; ok {
		panic("duplicate command: " + cmd.Name)
	}

	Registry[cmd.Name] = cmd
}

// CommandNames returns all registered command names, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(Registry))

	for name := range Registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// ParseInvocation splits a message into a command name and arguments.
// Returns ok=false when the message is not a command invocation.
func ParseInvocation(content, prefix string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	fields := strings.Fields(strings.TrimPrefix(content, prefix))

	if len(fields) == 0 {
		return "", nil, false
	}

	return strings.ToLower(fields[0]), fields[1:], true
}

// ParseUserMention extracts a user ID from a <@id> or <@!id> token.
func ParseUserMention(token string) (string, bool) {
	matches := mentionRe.FindStringSubmatch(token)

	if matches == nil {
		return "", false
	}

	return matches[1], true
}

// IsAdmin checks the guild administrator permission and the configured
// admin role.
func IsAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)

	if err == nil && perms&discordgo.PermissionAdministrator != 0 {
		return true
	}

	if m.Member == nil {
		return false
	}

	for _, roleID := range m.Member.Roles {
		if roleID == state.Config.Roles.Admin {
			return true
		}
	}

	return false
}

func reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	_, err := s.ChannelMessageSend(m.ChannelID, content)

	if err != nil {
		state.Logger.Error("Error sending reply", zap.Error(err), zap.String("channelId", m.ChannelID))
	}
}

func messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	name, args, ok := ParseInvocation(m.Content, state.Config.Meta.BotPrefix)

	if !ok {
		return
	}

	cmd, ok := Registry[name]

	if !ok {
		reply(s, m, "Command not found.")
		return
	}

	if cmd.AdminOnly && !IsAdmin(s, m) {
		reply(s, m, "You are not authorized.")
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			state.Logger.Error("Command panicked", zap.String("command", name), zap.Any("error", rec))
			reply(s, m, "Internal error while running the command.")
		}
	}()

	err := cmd.Handler(s, m, args)

	if err != nil {
		state.Logger.Error("Command failed", zap.String("command", name), zap.String("userId", m.Author.ID), zap.Error(err))
		reply(s, m, "Error: "+err.Error())
	}
}

// Start attaches the handlers and opens the gateway connection. Blocks
// only on failure to connect.
func Start() error {
	state.Discord.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		state.Logger.Info(
			"Bot is ready",
			zap.String("user", r.User.Username),
			zap.String("lxcPath", state.Config.LXC.Path),
			zap.Bool("fakeMode", state.LXC.Faked()),
		)
	})

	state.Discord.AddHandler(messageCreate)

	return state.Discord.Open()
}
