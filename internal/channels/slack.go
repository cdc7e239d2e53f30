package channels

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	slackgo "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/agentsmith/agentsmith/internal/config/channel"
	"github.com/agentsmith/agentsmith/internal/schema"
)

const slackName = "slack"

// slackPoster is the subset of *slackgo.Client used to talk back.
type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackgo.MsgOption) (string, string, error)
	AddReactionContext(ctx context.Context, name string, item slackgo.ItemRef) error
}

// SlackChannel implements Slack via Socket Mode. It answers direct messages
// and mentions in channels.
type SlackChannel struct {
	Base
	cfg       *channel.SlackConfig
	client    *slackgo.Client
	web       slackPoster
	smClient  *socketmode.Client
	botUserID string
	mention   *regexp.Regexp
}

// NewSlackChannel creates a SlackChannel. Missing tokens are a configuration
// error reported here rather than at Start.
func NewSlackChannel(cfg *channel.SlackConfig, a schema.Assistant) (*SlackChannel, error) {
	if cfg.BotToken == "" || cfg.AppToken == "" {
		return nil, fmt.Errorf("slack: SLACK_BOT_TOKEN and SLACK_APP_TOKEN (or channels.slack.botToken/appToken) required")
	}
	client := slackgo.New(cfg.BotToken, slackgo.OptionAppLevelToken(cfg.AppToken))
	return &SlackChannel{
		Base:   NewBase(slackName, a, cfg.AllowFrom),
		cfg:    cfg,
		client: client,
		web:    client,
	}, nil
}

func (s *SlackChannel) Start(ctx context.Context) error {
	resp, err := s.client.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack: auth test: %w", err)
	}
	s.setBotUser(resp.UserID)
	slog.Info("slack: connected", "bot_user_id", s.botUserID)

	s.smClient = socketmode.New(s.client)
	go s.smClient.RunContext(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-s.smClient.Events:
			if !ok {
				return nil
			}
			if evt.Type != socketmode.EventTypeEventsAPI {
				continue
			}
			s.smClient.Ack(*evt.Request)
			if cb, ok := evt.Data.(slackevents.EventsAPIEvent); ok {
				go s.handleInnerEvent(ctx, cb.InnerEvent)
			}
		}
	}
}

func (s *SlackChannel) setBotUser(id string) {
	s.botUserID = id
	if id != "" {
		s.mention = regexp.MustCompile(`<@` + regexp.QuoteMeta(id) + `>\s*`)
	}
}

func (s *SlackChannel) handleInnerEvent(ctx context.Context, ev slackevents.EventsAPIInnerEvent) {
	var user, channelID, text, ts, threadTS, channelType, subtype, botID string
	switch e := ev.Data.(type) {
	case *slackevents.AppMentionEvent:
		user, channelID, text, ts, threadTS, botID = e.User, e.Channel, e.Text, e.TimeStamp, e.ThreadTimeStamp, e.BotID
	case *slackevents.MessageEvent:
		user, channelID, text, ts, threadTS = e.User, e.Channel, e.Text, e.TimeStamp, e.ThreadTimeStamp
		channelType, subtype, botID = e.ChannelType, e.SubType, e.BotID
		// Mentions in channels arrive again as app_mention.
		if channelType != "im" {
			return
		}
	default:
		return
	}

	if subtype != "" || botID != "" || user == "" || channelID == "" || user == s.botUserID {
		return
	}
	if !s.IsAllowed(user) {
		slog.Warn("access denied", "channel", s.Name(), "sender", user)
		return
	}

	text = s.stripMention(text)
	if text == "" {
		return
	}

	if s.cfg.ReplyInThread && threadTS == "" && channelType != "im" {
		threadTS = ts
	}
	if s.cfg.ReactEmoji != "" && ts != "" {
		_ = s.web.AddReactionContext(ctx, s.cfg.ReactEmoji, slackgo.ItemRef{Channel: channelID, Timestamp: ts})
	}

	var reply string
	switch strings.ToLower(text) {
	case "summary", "/summary":
		reply = s.Summary(ctx)
	default:
		reply = s.Ask(ctx, text)
	}

	if err := s.post(ctx, channelID, threadTS, reply); err != nil {
		slog.Error("slack: post reply", "channel_id", channelID, "err", err)
	}
}

func (s *SlackChannel) stripMention(text string) string {
	if s.mention == nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(s.mention.ReplaceAllString(text, ""))
}

// Send delivers text to the configured default channel.
func (s *SlackChannel) Send(ctx context.Context, text string) error {
	if s.cfg.DefaultChannel == "" {
		return fmt.Errorf("slack: channels.slack.defaultChannel not configured")
	}
	return s.post(ctx, s.cfg.DefaultChannel, "", text)
}

func (s *SlackChannel) post(ctx context.Context, channelID, threadTS, text string) error {
	opts := []slackgo.MsgOption{slackgo.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slackgo.MsgOptionTS(threadTS))
	}
	_, _, err := s.web.PostMessageContext(ctx, channelID, opts...)
	return err
}
