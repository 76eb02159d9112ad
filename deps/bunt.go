package deps

import (
	"github.com/tryanzu/tribunal/core/common"
)

func IgniteBuntDB(container Deps) (Deps, error) {
	db, err := common.OpenStore(container.Config().UString("store.path", "tribunal.db"))
	if err != nil {
		return container, err
	}
	container.BuntProvider = db
	return container, nil
}
