package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/NettoX75/reminder-bot/internal/framework"
	"github.com/NettoX75/reminder-bot/internal/storage"
)

func todoScopeArgs(name, desc string) *framework.Arg {
	return &framework.Arg{
		Name:        name,
		Description: desc,
		Kind:        discordgo.ApplicationCommandOptionSubCommandGroup,
		Options: []*framework.Arg{
			{Name: "add", Description: "Add an item to the list", Kind: discordgo.ApplicationCommandOptionSubCommand, Options: []*framework.Arg{
				{Name: "task", Description: "The task to add", Kind: discordgo.ApplicationCommandOptionString, Required: true},
			}},
			{Name: "list", Description: "Show the list", Kind: discordgo.ApplicationCommandOptionSubCommand},
			{Name: "remove", Description: "Remove an item by number", Kind: discordgo.ApplicationCommandOptionSubCommand, Options: []*framework.Arg{
				{Name: "number", Description: "Item number, as shown by list", Kind: discordgo.ApplicationCommandOptionInteger, Required: true},
			}},
		},
	}
}

// Todo manages three todo lists: one per guild, one per channel and one per
// user. In DMs only the personal list is reachable.
func Todo(d *Deps, hooks ...*framework.Hook) *framework.Command {
	return &framework.Command{
		Names:       []string{"todo"},
		Description: "Manage server, channel and personal todo lists",
		Examples:    []string{"$todo user add buy milk", "$todo channel list"},
		Group:       "todos",
		Args: []*framework.Arg{
			todoScopeArgs("guild", "The server-wide todo list"),
			todoScopeArgs("channel", "This channel's todo list"),
			todoScopeArgs("user", "Your personal todo list"),
		},
		CanBlacklist: true,
		SupportsDM:   true,
		Hooks:        hooks,
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			scopeName, action, arg := todoArgs(opts)

			var scope string
			switch scopeName {
			case "guild":
				if inv.GuildID() == "" {
					return replyEphemeral(inv, "The server list is not available in DMs.")
				}
				scope = storage.TodoScopeGuild()
			case "channel":
				if inv.GuildID() == "" {
					return replyEphemeral(inv, "The channel list is not available in DMs.")
				}
				scope = storage.TodoScopeChannel(inv.ChannelID())
			case "user":
				scope = storage.TodoScopeUser(inv.AuthorID())
			default:
				return replyEphemeral(inv, "Pick a list first: `guild`, `channel` or `user`.")
			}

			switch action {
			case "add":
				if arg == "" {
					return replyEphemeral(inv, "What should I add?")
				}
				if err := d.Store.AddTodo(inv.GuildID(), scope, arg); err != nil {
					return fmt.Errorf("adding todo: %w", err)
				}
				return replyText(inv, "Added to the list.")

			case "list":
				items, err := d.Store.Todos(inv.GuildID(), scope)
				if err != nil {
					return fmt.Errorf("listing todos: %w", err)
				}
				if len(items) == 0 {
					return replyText(inv, "The list is empty.")
				}
				var b strings.Builder
				for i, item := range items {
					fmt.Fprintf(&b, "`%d.` %s\n", i+1, item)
				}
				emb := d.newEmbed().
					SetTitle(fmt.Sprintf("Todo list (%s)", scopeName)).
					SetDescription(b.String()).
					Truncate().MessageEmbed
				return inv.Respond(framework.NewResponse().Embed(emb))

			case "remove":
				n, err := strconv.Atoi(arg)
				if err != nil {
					return replyEphemeral(inv, "Pass the item number shown by `list`.")
				}
				removed, err := d.Store.RemoveTodo(inv.GuildID(), scope, n)
				if err != nil {
					return fmt.Errorf("removing todo: %w", err)
				}
				if !removed {
					return replyEphemeral(inv, fmt.Sprintf("There is no item %d on that list.", n))
				}
				return replyText(inv, "Removed.")

			default:
				return replyEphemeral(inv, "Use `add`, `list` or `remove`.")
			}
		},
	}
}

// todoArgs resolves scope, action and the trailing argument from structured
// options or the text tail ("user add buy milk").
func todoArgs(opts framework.CommandOptions) (scope, action, arg string) {
	if opts.SubcommandGroup != "" {
		scope, action = opts.SubcommandGroup, opts.Subcommand
		if task, ok := opts.GetString("task"); ok {
			return scope, action, task
		}
		if n, ok := opts.GetInt("number"); ok {
			return scope, action, strconv.FormatInt(n, 10)
		}
		return scope, action, ""
	}

	fields := strings.Fields(opts.Args())
	switch len(fields) {
	case 0:
		return "", "", ""
	case 1:
		return fields[0], "", ""
	case 2:
		return fields[0], fields[1], ""
	default:
		return fields[0], fields[1], strings.Join(fields[2:], " ")
	}
}
