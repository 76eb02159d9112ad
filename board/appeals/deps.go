package appeals

import (
	"github.com/tryanzu/tribunal/board/bans"
)

type Deps interface {
	bans.Deps
}
