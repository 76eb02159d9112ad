package events

import (
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("events")

type Handler func(Event) error

// Input channel for incoming events.
var In chan Event

// On "event" channel. Register event handlers using channels.
var On chan EventHandler

// Map of handlers that will react to events.
var Handlers map[string][]Handler

type EventHandler struct {
	On      string
	Handler Handler
}

type Event struct {
	Name   string
	Sign   *UserSign
	Params map[string]interface{}
}

// UserSign identifies who triggered the event and why.
type UserSign struct {
	Reason string
	UserID string
	Role   string
}

func execHandlers(list []Handler, event Event) {
	for h := range list {
		if err := list[h](event); err != nil {
			log.Errorf("handler for %s failed: %v", event.Name, err)
		}
	}
}

func sink(in chan Event, on chan EventHandler) {
	for {
		select {
		case event := <-in: // For incoming events spawn a goroutine running handlers.
			log.Debugf("Incoming event: %s %v", event.Name, event.Params)
			if ls, exists := Handlers[event.Name]; exists {
				go execHandlers(ls, event)
			}
		case h := <-on: // Register new handlers.
			Handlers[h.On] = append(Handlers[h.On], h.Handler)
		}
	}
}

// EmitTimeout bounds how long Emit waits on a saturated bus.
var EmitTimeout = 2 * time.Second

// Emit queues e, waiting up to EmitTimeout when the bus is saturated.
func Emit(e Event) {
	select {
	case In <- e:
		return
	default:
	}
	timer := time.NewTimer(EmitTimeout)
	defer timer.Stop()
	select {
	case In <- e:
	case <-timer.C:
		log.Errorf("event bus full for %s, dropping %s %v", EmitTimeout, e.Name, e.Params)
	}
}

// init channel for input events, consumers & map of handlers.
func init() {
	In = make(chan Event, 64)
	On = make(chan EventHandler)
	Handlers = make(map[string][]Handler)

	go sink(In, On)
}
