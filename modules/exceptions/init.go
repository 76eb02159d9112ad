package exceptions

import (
	"errors"
	"fmt"

	"github.com/getsentry/raven-go"
)

type ExceptionsModule struct {
	ErrorService *raven.Client `inject:""`
}

// Recover captures a panic and ships it to sentry. Use it deferred.
func (di *ExceptionsModule) Recover() {
	rval := recover()
	if rval == nil {
		return
	}
	di.Capture(rval, nil)
}

// Capture a recovered value. Nil services are ignored so tests and
// development builds can run without a sentry dsn.
func (di *ExceptionsModule) Capture(rval interface{}, tags map[string]string) {
	var packet *raven.Packet

	switch rval := rval.(type) {
	case nil:
		return
	case error:
		packet = raven.NewPacket(rval.Error(), raven.NewException(rval, raven.NewStacktrace(2, 3, nil)))
	default:
		rvalStr := fmt.Sprint(rval)
		packet = raven.NewPacket(rvalStr, raven.NewException(errors.New(rvalStr), raven.NewStacktrace(2, 3, nil)))
	}

	if di == nil || di.ErrorService == nil {
		return
	}
	if tags == nil {
		tags = map[string]string{}
	}
	di.ErrorService.Capture(packet, tags)
}
