package telegram

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/JustM3Sunny/kuku/internal/service/dispatch"
)

// Reply-keyboard labels, matched verbatim against inbound message text.
const (
	buttonSelectModel = "🤖 Select Model"
	buttonSelectRole  = "👤 Select Role"
	buttonHelp        = "ℹ️ Help"
	buttonContact     = "📞 Contact"
)

const thinkingText = "🤔 Thinking..."

// Poller drives the long-poll loop, translating Telegram updates into
// dispatch events and rendering outcomes back into messages and keyboards.
type Poller struct {
	client      *Client
	dispatcher  *dispatch.Dispatcher
	pollTimeout int
	keepAlive   time.Duration
}

// NewPoller wires the poller. keepAlive of zero disables the liveness tick.
func NewPoller(client *Client, dispatcher *dispatch.Dispatcher, pollTimeout int, keepAlive time.Duration) *Poller {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Poller{
		client:      client,
		dispatcher:  dispatcher,
		pollTimeout: pollTimeout,
		keepAlive:   keepAlive,
	}
}

// Run polls until the context is canceled. Each update is handled in its own
// goroutine so one conversation's slow provider call never stalls another's.
func (p *Poller) Run(ctx context.Context) error {
	if p.keepAlive > 0 {
		go p.keepAliveLoop(ctx)
	}

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(offset, p.pollTimeout)
		if err != nil {
			log.Printf("[telegram] getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) keepAliveLoop(ctx context.Context) {
	ticker := time.NewTicker(p.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Printf("[telegram] 🟢 sending keep-alive request to avoid inactivity")
			if err := p.client.GetMe(); err != nil {
				log.Printf("[telegram] keep-alive failed: %v", err)
			}
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		p.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		p.handleMessage(ctx, update.Message)
	}
}

func (p *Poller) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if cb.Message == nil {
		_ = p.client.AnswerCallbackQuery(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	ev := dispatch.Event{
		ConversationID: strconv.FormatInt(chatID, 10),
		UserID:         username(cb.From),
		Kind:           dispatch.KindSelect,
		Token:          cb.Data,
	}

	outcome, err := p.dispatcher.Handle(ctx, ev)
	if err != nil {
		log.Printf("[telegram] chat=%d selection rejected: %v", chatID, err)
	}

	if outcome.Menu != nil {
		_ = p.client.AnswerCallbackQuery(cb.ID, "")
		if err := p.client.SendMenu(chatID, *outcome.Menu); err != nil {
			log.Printf("[telegram] chat=%d failed to send menu: %v", chatID, err)
		}
		return
	}

	_ = p.client.AnswerCallbackQuery(cb.ID, outcome.Text)
}

func (p *Poller) handleMessage(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	ev := dispatch.Event{
		ConversationID: strconv.FormatInt(chatID, 10),
		UserID:         username(msg.From),
	}

	switch msg.Text {
	case "/start":
		ev.Kind = dispatch.KindInitialize
	case buttonSelectModel:
		ev.Kind = dispatch.KindProviderMenu
	case buttonSelectRole:
		ev.Kind = dispatch.KindPersonaMenu
	case buttonHelp:
		ev.Kind = dispatch.KindHelp
	case buttonContact:
		ev.Kind = dispatch.KindContact
	default:
		ev.Kind = dispatch.KindFreeText
		ev.Text = msg.Text
		if err := p.client.SendMessage(chatID, thinkingText); err != nil {
			log.Printf("[telegram] chat=%d failed to send progress notice: %v", chatID, err)
		}
	}

	outcome, err := p.dispatcher.Handle(ctx, ev)
	if err != nil {
		log.Printf("[telegram] chat=%d event %s rejected: %v", chatID, ev.Kind, err)
	}

	p.deliver(chatID, ev.Kind, outcome)
}

func (p *Poller) deliver(chatID int64, kind dispatch.Kind, outcome dispatch.Outcome) {
	if outcome.Menu != nil {
		if err := p.client.SendMenu(chatID, *outcome.Menu); err != nil {
			log.Printf("[telegram] chat=%d failed to send menu: %v", chatID, err)
		}
		return
	}
	if outcome.Text == "" {
		return
	}

	var err error
	if kind == dispatch.KindInitialize {
		// The welcome message carries the persistent reply keyboard.
		err = p.client.SendMainMenu(chatID, outcome.Text)
	} else {
		err = p.client.SendMessage(chatID, outcome.Text)
	}
	if err != nil {
		log.Printf("[telegram] chat=%d failed to send reply: %v", chatID, err)
	}
}

func username(u *User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
