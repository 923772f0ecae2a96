package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/huytran-vn/picklepro/internal/notifier"
	"github.com/huytran-vn/picklepro/internal/store"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

func (s *Notifier) SendResultNotification(match *store.Match, playerNames map[int64]string, dryRun bool) error {
	msg := s.formatResultNotification(match, playerNames)
	return s.sendMessage(msg, dryRun)
}

func (s *Notifier) SendRegistrationDecision(reg *store.Registration, tournamentName string, dryRun bool) error {
	msg := s.formatRegistrationDecision(reg, tournamentName)
	return s.sendMessage(msg, dryRun)
}

func (s *Notifier) formatResultNotification(match *store.Match, playerNames map[int64]string) slack.Message {
	player1 := playerNames[match.Player1ID]
	player2 := "TBD"
	if match.Player2ID != nil {
		player2 = playerNames[*match.Player2ID]
	}

	var scoreLine string
	if match.Score != nil {
		parts := make([]string, 0, len(match.Score.Sets))
		for _, set := range match.Score.Sets {
			parts = append(parts, fmt.Sprintf("%d-%d", set.Player1, set.Player2))
		}
		scoreLine = strings.Join(parts, ", ")
	}

	winner := "undetermined"
	if match.WinnerID != nil {
		winner = playerNames[*match.WinnerID]
	}

	headerText := slack.NewTextBlockObject("plain_text", ":trophy: Match result", true, false)
	bodyText := slack.NewTextBlockObject("mrkdwn", fmt.Sprintf(
		"*%s vs %s* (%s, %s)\nScore: %s\nWinner: *%s*",
		player1, player2, match.Category, match.Round, scoreLine, winner,
	), false, false)

	return slack.NewBlockMessage(
		slack.NewHeaderBlock(headerText),
		slack.NewSectionBlock(bodyText, nil, nil),
	)
}

func (s *Notifier) formatRegistrationDecision(reg *store.Registration, tournamentName string) slack.Message {
	var headline string
	switch reg.Status {
	case store.RegistrationApproved:
		headline = ":white_check_mark: Registration approved"
	case store.RegistrationRejected:
		headline = ":x: Registration rejected"
	default:
		headline = "Registration updated"
	}

	headerText := slack.NewTextBlockObject("plain_text", headline, true, false)
	bodyText := slack.NewTextBlockObject("mrkdwn", fmt.Sprintf(
		"Athlete `%d` in *%s* (%s)", reg.AthleteID, tournamentName, reg.Category,
	), false, false)

	return slack.NewBlockMessage(
		slack.NewHeaderBlock(headerText),
		slack.NewSectionBlock(bodyText, nil, nil),
	)
}
