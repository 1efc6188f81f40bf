package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	service "github.com/okian/clanmove/internal/app"
	"github.com/okian/clanmove/internal/domain/format"
	"github.com/okian/clanmove/internal/domain/model"
	"github.com/okian/clanmove/pkg/logger"
	"github.com/okian/clanmove/pkg/metrics"
)

// markDoneID is the component id of the "mark me done" button under a
// posted remaining list.
const markDoneID = "mark-done"

// Core is what the adapter needs from the session service.
type Core interface {
	Distribute(ctx context.Context, metricName, seasonLabel string) (*model.DistributionResult, error)
	Refresh(ctx context.Context) (*model.DistributionResult, error)
	ManualMove(ctx context.Context, query, clan string) (*model.DistributionResult, error)
	Hold(ctx context.Context, query string) (*model.DistributionResult, error)
	Include(ctx context.Context, query string) (*model.DistributionResult, error)
	ToggleComplete(ctx context.Context, query string) (bool, string, error)
	FormatDistribution() []string
	Remaining(pinned []model.PlayerRecord) format.RemainingView
	Reset(ctx context.Context, scope service.ResetScope) error
	Rollover(ctx context.Context) error
}

// Sink posts formatted move lists and turns Discord interactions into
// core operations, one at a time.
type Sink struct {
	cfg     Config
	core    Core
	session *discordgo.Session
	queue   *eventQueue
	log     logger.Logger

	cancel context.CancelFunc
	done   chan struct{}

	// The posted remaining list, pinned so refreshes only flip flags.
	remMu     sync.Mutex
	remMsgID  string
	remPinned []model.PlayerRecord
}

// New creates a Sink over a fresh Discord session. The session is not
// opened until Open is called.
func New(cfg Config, core Core) (*Sink, error) {
	sess, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	sess.Identify.Intents = cfg.Intents

	return &Sink{
		cfg:     cfg,
		core:    core,
		session: sess,
		queue:   newEventQueue(cfg.QueueSize),
		log:     logger.Named("discord"),
		done:    make(chan struct{}),
	}, nil
}

// Open connects the gateway, registers slash commands and starts the
// single event consumer.
func (s *Sink) Open(ctx context.Context) error {
	s.session.AddHandler(s.onInteraction)

	if err := s.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}

	appID := s.session.State.User.ID
	if _, err := s.session.ApplicationCommandBulkOverwrite(appID, s.cfg.GuildID, commandDefinitions()); err != nil {
		_ = s.session.Close()
		return fmt.Errorf("register commands: %w", err)
	}

	consumeCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		defer close(s.done)
		s.queue.consume(consumeCtx)
	}()

	s.log.Info(ctx, "discord adapter online",
		logger.String("guild", s.cfg.GuildID),
		logger.String("channel", s.cfg.ChannelID),
	)
	return nil
}

// Close drains the queue and disconnects.
func (s *Sink) Close(ctx context.Context) error {
	s.queue.close()
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	if s.cancel != nil {
		s.cancel()
	}
	if err := s.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	s.log.Info(ctx, "discord adapter offline")
	return nil
}

// onInteraction is the single gateway entry point. It acknowledges the
// interaction immediately (Discord allows three seconds) and queues the
// actual work.
func (s *Sink) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		s.ack(i, false)
		if !s.queue.enqueue(event{kind: data.Name, run: func(ctx context.Context) {
			s.dispatch(ctx, i, data)
		}}) {
			s.editReply(i, "busy, try again in a moment")
		}
	case discordgo.InteractionMessageComponent:
		if i.MessageComponentData().CustomID != markDoneID {
			return
		}
		s.ack(i, true)
		if !s.queue.enqueue(event{kind: "mark-done", run: func(ctx context.Context) {
			s.handleMarkDone(ctx, i)
		}}) {
			s.editReply(i, "busy, try again in a moment")
		}
	}
}

// ack acknowledges an interaction before the queued work runs.
func (s *Sink) ack(i *discordgo.InteractionCreate, update bool) {
	kind := discordgo.InteractionResponseDeferredChannelMessageWithSource
	if update {
		kind = discordgo.InteractionResponseDeferredMessageUpdate
	}
	if err := s.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: kind,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		metrics.RecordDiscordSendError()
		s.log.Warn(context.Background(), "interaction ack failed", logger.Error(err))
	}
}

// editReply replaces the deferred response with text.
func (s *Sink) editReply(i *discordgo.InteractionCreate, text string) {
	if _, err := s.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &text,
	}); err != nil {
		metrics.RecordDiscordSendError()
		s.log.Warn(context.Background(), "interaction edit failed", logger.Error(err))
	}
}

// postBlocks sends formatter blocks to the announcement channel, one
// message per fitted chunk.
func (s *Sink) postBlocks(ctx context.Context, blocks []string) error {
	for _, msg := range SplitBlocks(blocks, MessageLimit) {
		if _, err := s.session.ChannelMessageSend(s.cfg.ChannelID, msg); err != nil {
			metrics.RecordDiscordSendError()
			return fmt.Errorf("post block: %w", err)
		}
	}
	return nil
}

// userQuery renders the interacting user as a lookup query.
func userQuery(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return "<@" + i.Member.User.ID + ">"
	}
	if i.User != nil {
		return "<@" + i.User.ID + ">"
	}
	return ""
}

// replyForError maps core errors to operator-facing text.
func replyForError(err error) string {
	switch {
	case errors.Is(err, service.ErrPlayerNotFound):
		return "player not found — check the name or mention"
	case errors.Is(err, service.ErrUnknownClan):
		return "that is not one of RGR, OTL, RND"
	case errors.Is(err, service.ErrNoDistribution):
		return "no distribution yet — run /distribute first"
	default:
		return "something went wrong: " + err.Error()
	}
}
