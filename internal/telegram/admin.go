package telegram

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JustM3Sunny/kuku/internal/audit"
)

// AdminSink forwards audit events to the configured admin chat. Events
// originating from the admin's own chat are skipped to avoid an echo loop.
type AdminSink struct {
	client      *Client
	adminChatID int64
}

// NewAdminSink builds the sink. A zero adminChatID disables forwarding.
func NewAdminSink(client *Client, adminChatID int64) *AdminSink {
	return &AdminSink{client: client, adminChatID: adminChatID}
}

// Record implements audit.Sink.
func (s *AdminSink) Record(_ context.Context, event audit.Event) {
	if s.adminChatID == 0 || event.ConversationID == strconv.FormatInt(s.adminChatID, 10) {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User Chat ID: %s\n", event.ConversationID)
	fmt.Fprintf(&b, "Event: %s\n", event.Kind)

	keys := make([]string, 0, len(event.Payload))
	for k := range event.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if event.Payload[k] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", capitalize(k), event.Payload[k])
	}
	fmt.Fprintf(&b, "Time: %s", event.At.Format(time.RFC3339))

	if err := s.client.SendMessage(s.adminChatID, b.String()); err != nil {
		log.Printf("[telegram] failed to forward audit event to admin: %v", err)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
