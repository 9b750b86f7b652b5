package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"task-scheduler/internal/calendar"
	"task-scheduler/internal/repository"
	"task-scheduler/internal/service"
)

const (
	menuLabelReport = "📋 Digest"
	menuLabelStop   = "🔕 Unsubscribe"
	menuLabelHelp   = "ℹ️ Help"
)

// messenger is the part of the Telegram API the bot writes through.
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot delivers planner digests to subscribed Telegram chats.
type Bot struct {
	api         *tgbotapi.BotAPI
	out         messenger
	subscribers *repository.SubscriberRepository
	reminderSvc *service.ReminderService
	loc         *time.Location
}

func New(token string, subscribers *repository.SubscriberRepository, reminderSvc *service.ReminderService, loc *time.Location) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	b := newBot(api, subscribers, reminderSvc, loc)
	b.api = api
	return b, nil
}

func newBot(out messenger, subscribers *repository.SubscriberRepository, reminderSvc *service.ReminderService, loc *time.Location) *Bot {
	if loc == nil {
		loc = time.Local
	}
	return &Bot{
		out:         out,
		subscribers: subscribers,
		reminderSvc: reminderSvc,
		loc:         loc,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() || msg.From == nil {
			continue
		}
		if err := b.handleMessage(ctx, msg); err != nil {
			log.Printf("[warn] handle message: %v", err)
		}
	}

	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	command := msg.Command()
	if !msg.IsCommand() {
		command = menuCommand(msg.Text)
	}
	if command == "" {
		return b.sendText(msg.Chat.ID, "I only send digests. Type /help for the list of commands.")
	}

	log.Printf("[info] command from %d: /%s", msg.From.ID, command)
	switch command {
	case "start":
		return b.handleStart(ctx, msg)
	case "stop":
		return b.handleStop(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "help":
		return b.sendText(msg.Chat.ID, helpText)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /start — subscribe to the daily digest\n" +
	"• /report — send the digest now\n" +
	"• /stop — unsubscribe\n" +
	"• /help — this message"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	from := msg.From
	if _, err := b.subscribers.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName); err != nil {
		return err
	}
	name := strings.TrimSpace(from.FirstName)
	if name == "" {
		name = "there"
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("👋 Hi, %s! You will get the planner digest every day.\n\n%s", html.EscapeString(name), helpText))
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) error {
	if err := b.subscribers.Deactivate(ctx, msg.From.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return b.sendText(msg.Chat.ID, "🔕 Unsubscribed. Send /start to come back.")
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.reminderSvc.DailySummary(ctx, calendar.Today(b.loc))
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the digest: %s", html.EscapeString(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

// SendDailyReports sends the digest to every active subscriber.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	subs, err := b.subscribers.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}
	text, err := b.reminderSvc.DailySummary(ctx, calendar.Today(b.loc))
	if err != nil {
		return fmt.Errorf("build digest: %w", err)
	}
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(sub.TelegramID, text); err != nil {
			log.Printf("[warn] send digest to %d: %v", sub.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.out.Send(msg)
	return err
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelReport),
			tgbotapi.NewKeyboardButton(menuLabelStop),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func menuCommand(text string) string {
	switch strings.TrimSpace(text) {
	case menuLabelReport:
		return "report"
	case menuLabelStop:
		return "stop"
	case menuLabelHelp:
		return "help"
	default:
		return ""
	}
}
