package events

import (
	"context"
	"encoding/json"

	ev "github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/deps"
)

// Channel moderation events are published to.
const realtimeChannel = "moderation"

type message struct {
	Event  string                 `json:"event"`
	UserID string                 `json:"user_id,omitempty"`
	Params map[string]interface{} `json:"params"`
}

// Publish moderation events for realtime consumers (mod queue, chat).
func realtimeEvents() {
	list := make([]ev.EventHandler, 0, len(audited))
	for name := range audited {
		list = append(list, ev.EventHandler{
			On:      name,
			Handler: publish,
		})
	}
	register(list)
}

func publish(e ev.Event) error {
	client := deps.Container.Redis()
	if client == nil {
		return nil
	}
	m := message{Event: e.Name, Params: e.Params}
	if e.Sign != nil {
		m.UserID = e.Sign.UserID
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return client.Publish(context.Background(), realtimeChannel, encoded).Err()
}
