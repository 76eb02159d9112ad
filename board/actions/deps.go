package actions

import (
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/core/config"
)

type Deps interface {
	BuntDB() *buntdb.DB
	Rules() *config.Rules
	Content() content.Port
}
