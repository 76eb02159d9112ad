package bans

import (
	"github.com/siddontang/ledisdb/ledis"
	"github.com/tryanzu/tribunal/board/actions"
)

type Deps interface {
	actions.Deps
	LedisDB() *ledis.DB
}
