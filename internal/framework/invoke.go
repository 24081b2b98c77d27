package framework

import (
	"github.com/bwmarrin/discordgo"
)

// responseAPI is the slice of the Discord REST surface the invocation handle
// touches. *discordgo.Session satisfies it; tests substitute a recorder.
type responseAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type responseState int

const (
	stateFresh responseState = iota
	stateDeferred
	stateResponded
)

type invokeKind int

const (
	invokeCommand invokeKind = iota
	invokeComponent
	invokeMessage
)

// Invoke wraps one inbound trigger for the duration of its dispatch. It owns
// the underlying platform object and tracks how far the response exchange
// has progressed, so Defer and Respond stay safe to call repeatedly.
type Invoke struct {
	session *discordgo.Session
	api     responseAPI
	kind    invokeKind
	state   responseState

	interaction *discordgo.Interaction
	message     *discordgo.Message
	placeholder string // message id of the deferred placeholder, message variant only
}

// NewCommandInvoke wraps a slash command interaction.
func NewCommandInvoke(s *discordgo.Session, i *discordgo.InteractionCreate) *Invoke {
	return &Invoke{session: s, api: s, kind: invokeCommand, interaction: i.Interaction}
}

// NewComponentInvoke wraps a message component callback.
func NewComponentInvoke(s *discordgo.Session, i *discordgo.InteractionCreate) *Invoke {
	return &Invoke{session: s, api: s, kind: invokeComponent, interaction: i.Interaction}
}

// NewMessageInvoke wraps a matched text message.
func NewMessageInvoke(s *discordgo.Session, m *discordgo.MessageCreate) *Invoke {
	return &Invoke{session: s, api: s, kind: invokeMessage, message: m.Message}
}

// Session exposes the underlying session for commands that need more of the
// API than the handle covers.
func (inv *Invoke) Session() *discordgo.Session {
	return inv.session
}

// ChannelID returns the channel the trigger arrived in.
func (inv *Invoke) ChannelID() string {
	if inv.kind == invokeMessage {
		return inv.message.ChannelID
	}
	return inv.interaction.ChannelID
}

// GuildID returns the originating guild, or "" in DMs.
func (inv *Invoke) GuildID() string {
	if inv.kind == invokeMessage {
		return inv.message.GuildID
	}
	return inv.interaction.GuildID
}

// AuthorID returns the invoking user's id.
func (inv *Invoke) AuthorID() string {
	if inv.kind == invokeMessage {
		return inv.message.Author.ID
	}
	if inv.interaction.Member != nil {
		return inv.interaction.Member.User.ID
	}
	return inv.interaction.User.ID
}

// ComponentValues returns the values selected in a component callback,
// empty for every other trigger kind.
func (inv *Invoke) ComponentValues() []string {
	if inv.kind != invokeComponent {
		return nil
	}
	return inv.interaction.MessageComponentData().Values
}

// Member returns the guild member attached to the trigger, nil in DMs.
func (inv *Invoke) Member() *discordgo.Member {
	if inv.kind == invokeMessage {
		return inv.message.Member
	}
	return inv.interaction.Member
}

// Defer acknowledges the trigger with a placeholder so the real reply can
// arrive late. It is idempotent; once deferred or responded it does nothing.
// State only advances when the acknowledgement actually went out.
func (inv *Invoke) Defer() error {
	if inv.state != stateFresh {
		return nil
	}

	switch inv.kind {
	case invokeMessage:
		msg, err := inv.api.ChannelMessageSendComplex(inv.message.ChannelID, &discordgo.MessageSend{
			Content:   "...",
			Reference: inv.message.Reference(),
		})
		if err != nil {
			return err
		}
		inv.placeholder = msg.ID
	case invokeComponent:
		if err := inv.api.InteractionRespond(inv.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		}); err != nil {
			return err
		}
	default:
		if err := inv.api.InteractionRespond(inv.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		}); err != nil {
			return err
		}
	}

	inv.state = stateDeferred
	return nil
}

// Respond delivers r, picking the platform call by how far the exchange has
// progressed: initial response when fresh, placeholder edit when deferred,
// follow-up once responded. Safe to call any number of times; a transport
// failure leaves the state where it was so the caller may retry.
func (inv *Invoke) Respond(r *Response) error {
	switch inv.state {
	case stateFresh:
		if err := inv.respondInitial(r); err != nil {
			return err
		}
	case stateDeferred:
		if err := inv.respondEdit(r); err != nil {
			return err
		}
	case stateResponded:
		return inv.respondFollowup(r)
	}

	inv.state = stateResponded
	return nil
}

func (inv *Invoke) respondInitial(r *Response) error {
	if inv.kind == invokeMessage {
		msg, err := inv.api.ChannelMessageSendComplex(inv.message.ChannelID, r.messageSend(inv.message))
		if err != nil {
			return err
		}
		inv.placeholder = msg.ID
		return nil
	}

	respType := discordgo.InteractionResponseChannelMessageWithSource
	if inv.kind == invokeComponent {
		respType = discordgo.InteractionResponseUpdateMessage
	}
	return inv.api.InteractionRespond(inv.interaction, &discordgo.InteractionResponse{
		Type: respType,
		Data: r.responseData(),
	})
}

func (inv *Invoke) respondEdit(r *Response) error {
	if inv.kind == invokeMessage {
		edit := r.messageEdit(inv.message.ChannelID, inv.placeholder)
		_, err := inv.api.ChannelMessageEditComplex(edit)
		return err
	}
	_, err := inv.api.InteractionResponseEdit(inv.interaction, r.webhookEdit())
	return err
}

func (inv *Invoke) respondFollowup(r *Response) error {
	if inv.kind == invokeMessage {
		_, err := inv.api.ChannelMessageSendComplex(inv.message.ChannelID, r.messageSend(nil))
		return err
	}
	_, err := inv.api.FollowupMessageCreate(inv.interaction, false, r.webhookParams())
	return err
}
