package reports

import (
	"github.com/siddontang/ledisdb/ledis"
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/core/config"
)

type Deps interface {
	BuntDB() *buntdb.DB
	LedisDB() *ledis.DB
	Rules() *config.Rules
}
