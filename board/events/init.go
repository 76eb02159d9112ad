package events

import (
	"github.com/op/go-logging"
	pool "github.com/tryanzu/tribunal/core/events"
)

var (
	log = logging.MustGetLogger("main")
)

func init() {
	auditEvents()
	reputationEvents()
	realtimeEvents()
}

func register(list []pool.EventHandler) {
	for _, h := range list {
		pool.On <- h
	}
}
