package framework

import (
	"github.com/bwmarrin/discordgo"
)

// Response accumulates the pieces of an outbound reply before the handle
// translates it into whichever platform call the current state needs.
type Response struct {
	content    string
	embeds     []*discordgo.MessageEmbed
	components []discordgo.MessageComponent
	flags      discordgo.MessageFlags
}

func NewResponse() *Response {
	return &Response{}
}

func (r *Response) Content(content string) *Response {
	r.content = content
	return r
}

func (r *Response) Embed(embed *discordgo.MessageEmbed) *Response {
	r.embeds = append(r.embeds, embed)
	return r
}

func (r *Response) Components(rows ...discordgo.MessageComponent) *Response {
	r.components = append(r.components, rows...)
	return r
}

// Ephemeral marks the reply visible only to the invoking user. Ignored on
// the message variant, which has no such concept.
func (r *Response) Ephemeral() *Response {
	r.flags |= discordgo.MessageFlagsEphemeral
	return r
}

func (r *Response) responseData() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    r.content,
		Embeds:     r.embeds,
		Components: r.components,
		Flags:      r.flags,
	}
}

func (r *Response) webhookEdit() *discordgo.WebhookEdit {
	content := r.content
	return &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &r.embeds,
		Components: &r.components,
	}
}

func (r *Response) webhookParams() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:    r.content,
		Embeds:     r.embeds,
		Components: r.components,
		Flags:      r.flags,
	}
}

func (r *Response) messageSend(replyTo *discordgo.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content:    r.content,
		Embeds:     r.embeds,
		Components: r.components,
	}
	if replyTo != nil {
		send.Reference = replyTo.Reference()
	}
	return send
}

func (r *Response) messageEdit(channelID, messageID string) *discordgo.MessageEdit {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	edit.SetContent(r.content)
	edit.SetEmbeds(r.embeds)
	edit.Components = &r.components
	return edit
}
