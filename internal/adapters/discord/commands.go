package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	service "github.com/okian/clanmove/internal/app"
	"github.com/okian/clanmove/internal/domain/model"
	"github.com/okian/clanmove/pkg/logger"
)

// commandDefinitions lists the slash commands registered on the guild.
func commandDefinitions() []*discordgo.ApplicationCommand {
	clanChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(model.Clans()))
	for _, clan := range model.Clans() {
		clanChoices = append(clanChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  clan,
			Value: clan,
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "distribute",
			Description: "Compute and announce clan placements from the roster",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "metric",
					Description: "Ranking column to sort by (default Trophies)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "season",
					Description: "Label shown on the announcement",
				},
			},
		},
		{
			Name:        "refresh",
			Description: "Re-read the roster and recompute with the current metric",
		},
		{
			Name:        "move",
			Description: "Pin a player to a clan",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Name, mention or id",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "clan",
					Description: "Destination clan",
					Required:    true,
					Choices:     clanChoices,
				},
			},
		},
		{
			Name:        "hold",
			Description: "Keep a player where they are",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Name, mention or id",
					Required:    true,
				},
			},
		},
		{
			Name:        "include",
			Description: "Clear a player's manual action so ranking places them",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Name, mention or id",
					Required:    true,
				},
			},
		},
		{
			Name:        "done",
			Description: "Toggle a player's move as completed",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "player",
					Description: "Name, mention or id (defaults to you)",
				},
			},
		},
		{
			Name:        "remaining",
			Description: "Post the list of players who still have to move",
		},
		{
			Name:        "reset",
			Description: "Forget the current distribution",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "scope",
					Description: "What to forget",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "distribution only", Value: string(service.ResetDistribution)},
						{Name: "everything, including completions", Value: string(service.ResetAll)},
					},
				},
			},
		},
		{
			Name:        "rollover",
			Description: "Copy the season range over the roster range",
		},
	}
}

// dispatch runs a queued slash command on the consumer goroutine.
func (s *Sink) dispatch(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	opts := optionMap(data)

	switch data.Name {
	case "distribute":
		s.handleDistribute(ctx, i, opts["metric"], opts["season"])
	case "refresh":
		s.handleRefresh(ctx, i)
	case "move":
		s.handleOverride(ctx, i, func() (*model.DistributionResult, error) {
			return s.core.ManualMove(ctx, opts["player"], opts["clan"])
		})
	case "hold":
		s.handleOverride(ctx, i, func() (*model.DistributionResult, error) {
			return s.core.Hold(ctx, opts["player"])
		})
	case "include":
		s.handleOverride(ctx, i, func() (*model.DistributionResult, error) {
			return s.core.Include(ctx, opts["player"])
		})
	case "done":
		query := opts["player"]
		if query == "" {
			query = userQuery(i)
		}
		s.handleToggle(ctx, i, query)
	case "remaining":
		s.handleRemaining(ctx, i)
	case "reset":
		s.handleReset(ctx, i, service.ResetScope(opts["scope"]))
	case "rollover":
		s.handleRollover(ctx, i)
	default:
		s.editReply(i, "unknown command")
	}
}

func optionMap(data discordgo.ApplicationCommandInteractionData) map[string]string {
	opts := make(map[string]string, len(data.Options))
	for _, o := range data.Options {
		if o.Type == discordgo.ApplicationCommandOptionString {
			opts[o.Name] = strings.TrimSpace(o.StringValue())
		}
	}
	return opts
}

func (s *Sink) handleDistribute(ctx context.Context, i *discordgo.InteractionCreate, metric, season string) {
	if _, err := s.core.Distribute(ctx, metric, season); err != nil {
		s.editReply(i, replyForError(err))
		return
	}
	s.announce(ctx, i, "distribution posted")
}

func (s *Sink) handleRefresh(ctx context.Context, i *discordgo.InteractionCreate) {
	if _, err := s.core.Refresh(ctx); err != nil {
		s.editReply(i, replyForError(err))
		return
	}
	s.announce(ctx, i, "refreshed")
}

func (s *Sink) handleOverride(ctx context.Context, i *discordgo.InteractionCreate, op func() (*model.DistributionResult, error)) {
	if _, err := op(); err != nil {
		s.editReply(i, replyForError(err))
		return
	}
	s.announce(ctx, i, "updated")
}

// announce posts the current distribution to the channel and confirms
// to the invoker.
func (s *Sink) announce(ctx context.Context, i *discordgo.InteractionCreate, confirmation string) {
	if err := s.postBlocks(ctx, s.core.FormatDistribution()); err != nil {
		s.log.Error(ctx, "announcement failed", logger.Error(err))
		s.editReply(i, "computed, but posting to the channel failed")
		return
	}
	s.editReply(i, confirmation)
}

func (s *Sink) handleToggle(ctx context.Context, i *discordgo.InteractionCreate, query string) {
	done, name, err := s.core.ToggleComplete(ctx, query)
	if err != nil {
		s.editReply(i, replyForError(err))
		return
	}
	if done {
		s.editReply(i, name+" marked as moved")
	} else {
		s.editReply(i, name+" unmarked")
	}
	s.refreshRemaining(ctx)
}

// handleRemaining posts a fresh remaining list with a mark-done button
// and pins its roster so later refreshes only flip completion flags.
func (s *Sink) handleRemaining(ctx context.Context, i *discordgo.InteractionCreate) {
	view := s.core.Remaining(nil)
	msg, err := s.session.ChannelMessageSendComplex(s.cfg.ChannelID, &discordgo.MessageSend{
		Content:    view.Text,
		Components: remainingComponents(),
	})
	if err != nil {
		s.editReply(i, "posting the remaining list failed")
		return
	}

	s.remMu.Lock()
	s.remMsgID = msg.ID
	s.remPinned = view.Players
	s.remMu.Unlock()

	s.editReply(i, "remaining list posted")
}

func (s *Sink) handleReset(ctx context.Context, i *discordgo.InteractionCreate, scope service.ResetScope) {
	if err := s.core.Reset(ctx, scope); err != nil {
		s.editReply(i, replyForError(err))
		return
	}
	s.remMu.Lock()
	s.remMsgID = ""
	s.remPinned = nil
	s.remMu.Unlock()
	s.editReply(i, "reset done")
}

func (s *Sink) handleRollover(ctx context.Context, i *discordgo.InteractionCreate) {
	if err := s.core.Rollover(ctx); err != nil {
		s.editReply(i, replyForError(err))
		return
	}
	s.editReply(i, "season range copied over the roster")
}

// handleMarkDone toggles the clicking user and refreshes the pinned
// remaining message in place.
func (s *Sink) handleMarkDone(ctx context.Context, i *discordgo.InteractionCreate) {
	query := userQuery(i)
	if query == "" {
		return
	}
	if _, _, err := s.core.ToggleComplete(ctx, query); err != nil {
		s.log.Warn(ctx, "mark-done toggle failed", logger.Error(err))
		return
	}
	s.refreshRemaining(ctx)
}

// refreshRemaining re-renders the pinned remaining message, if one was
// posted.
func (s *Sink) refreshRemaining(ctx context.Context) {
	s.remMu.Lock()
	msgID := s.remMsgID
	pinned := s.remPinned
	s.remMu.Unlock()
	if msgID == "" {
		return
	}

	view := s.core.Remaining(pinned)
	components := remainingComponents()
	if _, err := s.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         msgID,
		Channel:    s.cfg.ChannelID,
		Content:    &view.Text,
		Components: &components,
	}); err != nil {
		s.log.Warn(ctx, "remaining message update failed", logger.Error(err))
	}
}

func remainingComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "I moved",
					Style:    discordgo.SuccessButton,
					CustomID: markDoneID,
				},
			},
		},
	}
}
