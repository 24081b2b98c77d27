package framework

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records which response operations the handle performed.
type fakeAPI struct {
	initials  int
	deferrals int
	edits     int
	followups int
	sends     []*discordgo.MessageSend
	msgEdits  int

	fail error // when set, every call fails without side effects
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if f.fail != nil {
		return f.fail
	}
	switch resp.Type {
	case discordgo.InteractionResponseDeferredChannelMessageWithSource,
		discordgo.InteractionResponseDeferredMessageUpdate:
		f.deferrals++
	default:
		f.initials++
	}
	return nil
}

func (f *fakeAPI) InteractionResponseEdit(_ *discordgo.Interaction, _ *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.edits++
	return &discordgo.Message{ID: "edited"}, nil
}

func (f *fakeAPI) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, _ *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.followups++
	return &discordgo.Message{ID: "followup"}, nil
}

func (f *fakeAPI) ChannelMessageSendComplex(_ string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.sends = append(f.sends, data)
	return &discordgo.Message{ID: "sent"}, nil
}

func (f *fakeAPI) ChannelMessageEditComplex(_ *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.msgEdits++
	return &discordgo.Message{ID: "edited"}, nil
}

func commandInvoke(api *fakeAPI) *Invoke {
	return &Invoke{
		api:  api,
		kind: invokeCommand,
		interaction: &discordgo.Interaction{
			ChannelID: "7000",
			GuildID:   "5000",
			Member:    &discordgo.Member{User: &discordgo.User{ID: "42"}},
		},
	}
}

func TestRespondFreshSendsInitialResponse(t *testing.T) {
	api := &fakeAPI{}
	inv := commandInvoke(api)

	require.NoError(t, inv.Respond(NewResponse().Content("done")))

	assert.Equal(t, 1, api.initials)
	assert.Equal(t, 0, api.edits)
	assert.Equal(t, 0, api.followups)
}

func TestDeferThenRespondEditsPlaceholder(t *testing.T) {
	api := &fakeAPI{}
	inv := commandInvoke(api)

	require.NoError(t, inv.Defer())
	require.NoError(t, inv.Respond(NewResponse().Content("done")))

	assert.Equal(t, 0, api.initials)
	assert.Equal(t, 1, api.deferrals)
	assert.Equal(t, 1, api.edits)
	assert.Equal(t, 0, api.followups)
}

func TestRespondTwiceFollowsUp(t *testing.T) {
	api := &fakeAPI{}
	inv := commandInvoke(api)

	require.NoError(t, inv.Respond(NewResponse().Content("first")))
	require.NoError(t, inv.Respond(NewResponse().Content("second")))

	assert.Equal(t, 1, api.initials)
	assert.Equal(t, 1, api.followups)
}

func TestDeferIsIdempotent(t *testing.T) {
	api := &fakeAPI{}
	inv := commandInvoke(api)

	require.NoError(t, inv.Defer())
	require.NoError(t, inv.Defer())
	assert.Equal(t, 1, api.deferrals)

	require.NoError(t, inv.Respond(NewResponse().Content("done")))
	require.NoError(t, inv.Defer(), "defer after respond is a no-op")
	assert.Equal(t, 1, api.deferrals)
}

func TestFailedCallLeavesStateForRetry(t *testing.T) {
	api := &fakeAPI{fail: errors.New("gateway timeout")}
	inv := commandInvoke(api)

	require.Error(t, inv.Respond(NewResponse().Content("done")))
	assert.Equal(t, stateFresh, inv.state)

	// The transport recovers; the retry is still the initial response.
	api.fail = nil
	require.NoError(t, inv.Respond(NewResponse().Content("done")))
	assert.Equal(t, 1, api.initials)
	assert.Equal(t, 0, api.followups)
}

func TestFailedDeferLeavesStateFresh(t *testing.T) {
	api := &fakeAPI{fail: errors.New("gateway timeout")}
	inv := commandInvoke(api)

	require.Error(t, inv.Defer())
	assert.Equal(t, stateFresh, inv.state)
}

func TestComponentInvokeUsesUpdateMessage(t *testing.T) {
	api := &fakeAPI{}
	inv := &Invoke{
		api:  api,
		kind: invokeComponent,
		interaction: &discordgo.Interaction{
			ChannelID: "7000",
			User:      &discordgo.User{ID: "42"},
		},
	}

	require.NoError(t, inv.Respond(NewResponse().Content("updated")))
	assert.Equal(t, 1, api.initials)

	require.NoError(t, inv.Respond(NewResponse().Content("more")))
	assert.Equal(t, 1, api.followups)
}

func TestMessageInvokeStateMachine(t *testing.T) {
	api := &fakeAPI{}
	inv := &Invoke{
		api:  api,
		kind: invokeMessage,
		message: &discordgo.Message{
			ID:        "9000",
			ChannelID: "7000",
			GuildID:   "5000",
			Author:    &discordgo.User{ID: "42"},
		},
	}

	require.NoError(t, inv.Defer())
	require.Len(t, api.sends, 1, "defer posts a placeholder message")

	require.NoError(t, inv.Respond(NewResponse().Content("done")))
	assert.Equal(t, 1, api.msgEdits, "respond after defer edits the placeholder")

	require.NoError(t, inv.Respond(NewResponse().Content("again")))
	assert.Len(t, api.sends, 2, "respond after respond posts a fresh message")
}

func TestInvokeAccessors(t *testing.T) {
	inv := commandInvoke(&fakeAPI{})
	assert.Equal(t, "7000", inv.ChannelID())
	assert.Equal(t, "5000", inv.GuildID())
	assert.Equal(t, "42", inv.AuthorID())
	require.NotNil(t, inv.Member())

	dm := &Invoke{
		api:  &fakeAPI{},
		kind: invokeCommand,
		interaction: &discordgo.Interaction{
			ChannelID: "7000",
			User:      &discordgo.User{ID: "42"},
		},
	}
	assert.Equal(t, "42", dm.AuthorID())
	assert.Empty(t, dm.GuildID())
	assert.Nil(t, dm.Member())
}
