package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/JustM3Sunny/kuku/internal/audit"
	"github.com/JustM3Sunny/kuku/internal/model/persona"
	"github.com/JustM3Sunny/kuku/internal/model/provider"
	"github.com/JustM3Sunny/kuku/internal/service/ai"
	sessionstore "github.com/JustM3Sunny/kuku/internal/service/session"
)

// User-facing texts, kept close to the dispatcher since every transport
// shares them.
const (
	welcomeText = "Welcome to the AI Assistant Bot! 🤖\n\n" +
		"I can help you with various tasks in different roles using multiple AI models.\n\n" +
		"Use the menu below to:\n" +
		"- Select AI model\n" +
		"- Choose interaction role\n" +
		"- Get help\n" +
		"- Contact developer"

	helpText = "How to use this bot:\n\n" +
		"1. Select an AI model\n" +
		"2. Choose a role for the AI\n" +
		"3. Simply send your message and get a response\n\n" +
		"You can change the model or role anytime using the menu buttons."

	contactText = "Developer: Sunny\n" +
		"Telegram: @Sunnniiiiiiiiiiii\n\n" +
		"Feel free to reach out for any questions or suggestions!"

	startFirstText   = "Please start the bot first using /start"
	selectModelText  = "Please select a model first."
	upstreamFailText = "Sorry, I encountered an error. Please try again later."
	badSelectionText = "That selection is not valid. Please pick an option from the menu."
	noProviderText   = "This provider is not configured right now. Please pick another one."
	emptyMessageText = "Send me a message and I will reply in the selected role."
	unknownEventText = "I did not understand that. Use the menu buttons or /help."
)

// Dispatcher classifies inbound events and routes them to the session
// store, the catalogs, or the response pipeline. All catalog and validation
// failures are recovered here and turned into corrective reply text; the
// causal error is still returned for transports and tests to inspect.
type Dispatcher struct {
	store     *sessionstore.Store
	providers *provider.Catalog
	personas  *persona.Catalog
	registry  *ai.Registry
	responder *ai.Responder
	sink      audit.Sink
}

// New wires the dispatcher. The sink may be nil.
func New(store *sessionstore.Store, providers *provider.Catalog, personas *persona.Catalog, registry *ai.Registry, responder *ai.Responder, sink audit.Sink) *Dispatcher {
	return &Dispatcher{
		store:     store,
		providers: providers,
		personas:  personas,
		registry:  registry,
		responder: responder,
		sink:      sink,
	}
}

// Handle processes one inbound event. The returned Outcome always carries
// something presentable to the user; a non-nil error reports why a request
// was rejected without having mutated any session state.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) (Outcome, error) {
	d.record(ctx, ev)

	switch ev.Kind {
	case KindInitialize:
		return d.handleInitialize(ctx, ev)
	case KindProviderMenu:
		return d.handleProviderMenu(ctx, ev)
	case KindModelMenu:
		return d.handleModelMenu(ctx, ev)
	case KindPersonaMenu:
		return d.handlePersonaMenu(ctx, ev)
	case KindSelect:
		return d.handleSelect(ctx, ev)
	case KindFreeText:
		return d.handleFreeText(ctx, ev)
	case KindHelp:
		return Outcome{Text: helpText}, nil
	case KindContact:
		return Outcome{Text: contactText}, nil
	default:
		return Outcome{Text: unknownEventText}, fmt.Errorf("%w: unknown event kind %q", ErrMalformedToken, ev.Kind)
	}
}

func (d *Dispatcher) handleInitialize(ctx context.Context, ev Event) (Outcome, error) {
	if _, err := d.store.Reset(ctx, ev.ConversationID); err != nil {
		return Outcome{Text: upstreamFailText}, err
	}
	log.Printf("[dispatch] conversation=%s initialized", ev.ConversationID)
	return Outcome{Text: welcomeText}, nil
}

func (d *Dispatcher) handleProviderMenu(ctx context.Context, ev Event) (Outcome, error) {
	if _, err := d.store.Get(ctx, ev.ConversationID); err != nil {
		return Outcome{Text: startFirstText}, ai.ErrNotInitialized
	}

	menu := &Menu{Title: "Choose an AI model type:"}
	for _, desc := range d.providers.List() {
		menu.Rows = append(menu.Rows, []Button{{Label: desc.Name, Token: ProviderToken(desc.ID)}})
	}
	return Outcome{Menu: menu}, nil
}

func (d *Dispatcher) handleModelMenu(ctx context.Context, ev Event) (Outcome, error) {
	if _, err := d.store.Get(ctx, ev.ConversationID); err != nil {
		return Outcome{Text: startFirstText}, ai.ErrNotInitialized
	}

	token, err := ParseToken(ev.Token)
	if err != nil || token.Kind != TokenProvider {
		return Outcome{Text: unknownEventText}, fmt.Errorf("%w: %q", ErrMalformedToken, ev.Token)
	}
	return d.modelMenu(token.Provider)
}

func (d *Dispatcher) modelMenu(providerID string) (Outcome, error) {
	desc, err := d.providers.Get(providerID)
	if err != nil {
		return Outcome{Text: badSelectionText}, err
	}

	menu := &Menu{Title: fmt.Sprintf("Choose a %s model:", desc.Name)}
	for _, modelID := range desc.Models {
		menu.Rows = append(menu.Rows, []Button{{Label: modelID, Token: ModelToken(desc.ID, modelID)}})
	}
	return Outcome{Menu: menu}, nil
}

func (d *Dispatcher) handlePersonaMenu(ctx context.Context, ev Event) (Outcome, error) {
	if _, err := d.store.Get(ctx, ev.ConversationID); err != nil {
		return Outcome{Text: startFirstText}, ai.ErrNotInitialized
	}

	menu := &Menu{Title: "Choose a role:"}
	for _, p := range d.personas.List() {
		menu.Rows = append(menu.Rows, []Button{{Label: p.Name, Token: PersonaToken(p.ID)}})
	}
	return Outcome{Menu: menu}, nil
}

func (d *Dispatcher) handleSelect(ctx context.Context, ev Event) (Outcome, error) {
	token, err := ParseToken(ev.Token)
	if err != nil {
		return Outcome{Text: unknownEventText}, err
	}

	switch token.Kind {
	case TokenProvider:
		return d.modelMenu(token.Provider)
	case TokenModel:
		return d.selectModel(ctx, ev.ConversationID, token.Provider, token.Model)
	case TokenPersona:
		return d.selectPersona(ctx, ev.ConversationID, token.Persona)
	default:
		return Outcome{Text: unknownEventText}, fmt.Errorf("%w: %q", ErrMalformedToken, ev.Token)
	}
}

func (d *Dispatcher) selectModel(ctx context.Context, conversationID, providerID, modelID string) (Outcome, error) {
	if !d.providers.HasModel(providerID, modelID) {
		return Outcome{Text: badSelectionText}, fmt.Errorf("%w: model %q is not available for provider %q", provider.ErrInvalidSelection, modelID, providerID)
	}

	client, err := d.registry.Get(providerID)
	if err != nil {
		return Outcome{Text: noProviderText}, err
	}

	// Bind on the shared client first; the session only records the pair
	// once the provider accepted it.
	if err := client.SetModel(ctx, modelID); err != nil {
		var pErr *ai.ProviderError
		if errors.As(err, &pErr) {
			return Outcome{Text: upstreamFailText}, err
		}
		return Outcome{Text: badSelectionText}, err
	}

	if _, err := d.store.GetOrCreate(ctx, conversationID); err != nil {
		return Outcome{Text: startFirstText}, err
	}
	if _, err := d.store.SetProviderAndModel(ctx, conversationID, providerID, modelID); err != nil {
		return Outcome{Text: badSelectionText}, err
	}

	return Outcome{Text: fmt.Sprintf("Model set to %s", modelID)}, nil
}

func (d *Dispatcher) selectPersona(ctx context.Context, conversationID, personaID string) (Outcome, error) {
	p, err := d.personas.Get(personaID)
	if err != nil {
		return Outcome{Text: badSelectionText}, err
	}

	if _, err := d.store.GetOrCreate(ctx, conversationID); err != nil {
		return Outcome{Text: startFirstText}, err
	}
	if _, err := d.store.SetPersona(ctx, conversationID, personaID); err != nil {
		return Outcome{Text: badSelectionText}, err
	}

	return Outcome{Text: fmt.Sprintf("Role set to %s", p.Name)}, nil
}

func (d *Dispatcher) handleFreeText(ctx context.Context, ev Event) (Outcome, error) {
	if ev.Text == "" {
		return Outcome{Text: emptyMessageText}, nil
	}

	reply, err := d.responder.Respond(ctx, ev.ConversationID, ev.Text)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrNotInitialized):
			return Outcome{Text: startFirstText}, err
		case errors.Is(err, ai.ErrModelNotSelected):
			return Outcome{Text: selectModelText}, err
		default:
			log.Printf("[dispatch] conversation=%s response failed: %v", ev.ConversationID, err)
			return Outcome{Text: upstreamFailText}, err
		}
	}

	return Outcome{Text: reply}, nil
}

func (d *Dispatcher) record(ctx context.Context, ev Event) {
	payload := map[string]string{"user": ev.UserID}
	if ev.Token != "" {
		payload["token"] = ev.Token
	}
	if ev.Text != "" {
		payload["text"] = ev.Text
	}
	audit.Record(ctx, d.sink, audit.New(ev.ConversationID, "event."+string(ev.Kind), payload))
}
