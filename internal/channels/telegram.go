package channels

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/agentsmith/agentsmith/internal/config/channel"
	"github.com/agentsmith/agentsmith/internal/schema"
	"github.com/agentsmith/agentsmith/internal/shared/llmutils"
)

const (
	telegramName     = "telegram"
	telegramMaxChunk = 4000
)

const telegramWelcome = `🕴️ **Agent Smith, to your service**

I'm your proactive AI task management assistant! I can help you:

📝 **Manage Tasks**: Create, update, view, and organize your Airtable backlog
🧹 **Clean & Organize**: Automatically review and suggest improvements
⚡ **Be Proactive**: Flag overdue items, find duplicates, and maintain order

**Commands:**
/summary - Get current backlog overview
/help - Show available commands

Just send me a message to get started! 🚀`

const telegramHelp = `🛠️ **Agent Smith Commands & Usage**

**Commands:**
/start - Welcome message and backlog summary
/summary - Get current backlog overview
/help - Show this help message

**Natural Language Examples:**
- "Create a new task to update documentation"
- "Show me all pending tasks"
- "Update task XYZ status to done"
- "Delete completed tasks from last week"
- "Clean up my backlog"
- "What's overdue?"

**Tips:**
✨ I understand natural language - just tell me what you need!
📊 I'll automatically suggest cleanup and organization improvements
🔄 I can handle complex task management operations

Send me any message to get started! 🚀`

// tgSender is the subset of *tgbotapi.BotAPI used to talk back.
type tgSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramChannel implements the Telegram bot via long polling.
type TelegramChannel struct {
	Base
	cfg *channel.TelegramConfig

	mu  sync.Mutex
	api *tgbotapi.BotAPI
	bot tgSender

	typingInterval time.Duration
}

// NewTelegramChannel creates a TelegramChannel. A missing token is a
// configuration error reported here rather than at Start.
func NewTelegramChannel(cfg *channel.TelegramConfig, a schema.Assistant) (*TelegramChannel, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram: TELEGRAM_BOT_TOKEN environment variable or channels.telegram.token required")
	}
	return &TelegramChannel{
		Base:           NewBase(telegramName, a, cfg.AllowFrom),
		cfg:            cfg,
		typingInterval: 4 * time.Second,
	}, nil
}

// connect creates the Bot API client on first use.
func (t *TelegramChannel) connect() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.api != nil {
		return t.api, nil
	}
	bot, err := tgbotapi.NewBotAPI(t.cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	t.api, t.bot = bot, bot
	slog.Info("telegram: connected", "username", bot.Self.UserName)
	return bot, nil
}

func (t *TelegramChannel) sender() tgSender {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bot
}

func (t *TelegramChannel) Start(ctx context.Context) error {
	bot, err := t.connect()
	if err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go t.handleUpdate(ctx, update)
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return ctx.Err()
		}
	}
}

func (t *TelegramChannel) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	senderID := strconv.FormatInt(msg.From.ID, 10)
	if msg.From.UserName != "" {
		senderID += "|" + msg.From.UserName
	}
	if !t.IsAllowed(senderID) {
		slog.Warn("access denied", "channel", t.Name(), "sender", senderID)
		return
	}

	chatID := msg.Chat.ID
	if msg.IsCommand() {
		t.handleCommand(ctx, chatID, msg.Command())
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	stop := t.startTyping(ctx, chatID)
	reply := t.Ask(ctx, text)
	stop()

	t.sendText(chatID, reply)
}

func (t *TelegramChannel) handleCommand(ctx context.Context, chatID int64, cmd string) {
	switch cmd {
	case "start":
		t.sendText(chatID, telegramWelcome)
		t.sendSummary(ctx, chatID, "📋 **Current Backlog:**\n")
	case "help":
		t.sendText(chatID, telegramHelp)
	case "summary":
		t.sendText(chatID, "🔍 Reviewing your backlog...")
		t.sendSummary(ctx, chatID, "📋 **Backlog Summary:**\n")
	default:
		t.sendText(chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (t *TelegramChannel) sendSummary(ctx context.Context, chatID int64, heading string) {
	stop := t.startTyping(ctx, chatID)
	reply, ok, err := t.assistant.Summary(ctx)
	stop()

	switch {
	case err != nil:
		slog.Error("telegram: summary failed", "err", err)
		t.sendText(chatID, "⚠️ Couldn't get backlog summary: "+err.Error())
	case !ok || strings.TrimSpace(reply) == "":
		t.sendText(chatID, "⚠️ Couldn't generate backlog summary")
	default:
		t.sendText(chatID, heading+llmutils.StripThink(reply))
	}
}

// startTyping shows the typing indicator until the returned func is called.
func (t *TelegramChannel) startTyping(ctx context.Context, chatID int64) func() {
	bot := t.sender()
	if bot == nil {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		for {
			_, _ = bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
			select {
			case <-time.After(t.typingInterval):
			case <-ctx.Done():
				return
			}
		}
	}()
	return cancel
}

// Send delivers text to the configured default chat, connecting first if
// the bot is not running.
func (t *TelegramChannel) Send(_ context.Context, text string) error {
	if t.cfg.DefaultChatID == 0 {
		return fmt.Errorf("telegram: channels.telegram.defaultChatId not configured")
	}
	if t.sender() == nil {
		if _, err := t.connect(); err != nil {
			return err
		}
	}
	t.sendText(t.cfg.DefaultChatID, text)
	return nil
}

// sendText splits text into Telegram-sized chunks and sends each as HTML,
// falling back to plain text when Telegram rejects the markup.
func (t *TelegramChannel) sendText(chatID int64, text string) {
	bot := t.sender()
	if text == "" || bot == nil {
		return
	}
	for _, chunk := range llmutils.SplitMessage(text, telegramMaxChunk) {
		m := tgbotapi.NewMessage(chatID, markdownToTelegramHTML(chunk))
		m.ParseMode = tgbotapi.ModeHTML
		if _, err := bot.Send(m); err != nil {
			slog.Debug("telegram: HTML send failed, retrying as plain text", "err", err)
			if _, err := bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
				slog.Error("telegram: send failed", "chat_id", chatID, "err", err)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Markdown → Telegram HTML converter
// ---------------------------------------------------------------------------

var (
	reTGCodeBlock  = regexp.MustCompile("(?s)```[\\w]*\\n?([\\s\\S]*?)```")
	reTGInlineCode = regexp.MustCompile("`([^`]+)`")
	reTGHeader     = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	reTGBlockquote = regexp.MustCompile(`(?m)^>\s*(.*)$`)
	reTGLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	reTGBold1      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reTGBold2      = regexp.MustCompile(`__(.+?)__`)
	reTGStrike     = regexp.MustCompile(`~~(.+?)~~`)
	reTGBullet     = regexp.MustCompile(`(?m)^[-*]\s+`)
)

func markdownToTelegramHTML(text string) string {
	if text == "" {
		return ""
	}

	var codeBlocks []string
	text = reTGCodeBlock.ReplaceAllStringFunc(text, func(m string) string {
		codeBlocks = append(codeBlocks, reTGCodeBlock.FindStringSubmatch(m)[1])
		return fmt.Sprintf("\x00CB%d\x00", len(codeBlocks)-1)
	})

	var inlineCodes []string
	text = reTGInlineCode.ReplaceAllStringFunc(text, func(m string) string {
		inlineCodes = append(inlineCodes, reTGInlineCode.FindStringSubmatch(m)[1])
		return fmt.Sprintf("\x00IC%d\x00", len(inlineCodes)-1)
	})

	text = reTGHeader.ReplaceAllString(text, "$1")
	text = reTGBlockquote.ReplaceAllString(text, "$1")
	text = htmlEscape(text)

	text = reTGLink.ReplaceAllString(text, `<a href="$2">$1</a>`)
	text = reTGBold1.ReplaceAllString(text, "<b>$1</b>")
	text = reTGBold2.ReplaceAllString(text, "<b>$1</b>")
	text = reTGStrike.ReplaceAllString(text, "<s>$1</s>")
	text = reTGBullet.ReplaceAllString(text, "• ")

	for i, code := range inlineCodes {
		text = strings.ReplaceAll(text, fmt.Sprintf("\x00IC%d\x00", i), "<code>"+htmlEscape(code)+"</code>")
	}
	for i, code := range codeBlocks {
		text = strings.ReplaceAll(text, fmt.Sprintf("\x00CB%d\x00", i), "<pre><code>"+htmlEscape(code)+"</code></pre>")
	}
	return text
}

func htmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
