package dispatch

// Kind classifies an inbound conversation event.
type Kind string

const (
	// KindInitialize is the explicit start event; it resets the session.
	KindInitialize Kind = "initialize"
	// KindProviderMenu asks for the provider selection menu.
	KindProviderMenu Kind = "provider_menu"
	// KindModelMenu asks for the model menu of the provider named by Token.
	KindModelMenu Kind = "model_menu"
	// KindPersonaMenu asks for the persona selection menu.
	KindPersonaMenu Kind = "persona_menu"
	// KindSelect carries a selection token from a menu button press.
	KindSelect Kind = "select"
	// KindFreeText carries a user message for the response pipeline.
	KindFreeText Kind = "free_text"
	// KindHelp asks for usage instructions.
	KindHelp Kind = "help"
	// KindContact asks for the developer contact card.
	KindContact Kind = "contact"
)

// Event is an inbound occurrence tagged with its conversation. UserID is
// the originating-user identity, opaque to the core and only forwarded to
// the audit sink.
type Event struct {
	ConversationID string
	UserID         string
	Kind           Kind
	Token          string // selection token, KindSelect and KindModelMenu
	Text           string // message body, KindFreeText only
}

// Button is one selectable menu entry.
type Button struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Menu is the ordered menu specification handed to the outbound transport,
// which owns the actual rendering.
type Menu struct {
	Title string     `json:"title"`
	Rows  [][]Button `json:"rows"`
}

// Outcome is what a handled event produces: reply text, a menu, or both.
type Outcome struct {
	Text string `json:"text,omitempty"`
	Menu *Menu  `json:"menu,omitempty"`
}
