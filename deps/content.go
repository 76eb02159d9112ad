package deps

import (
	"github.com/tryanzu/tribunal/board/content"
)

// IgniteContent bootstraps the content visibility driver.
func IgniteContent(container Deps) (Deps, error) {
	driver := container.Config().UString("content.driver", "mongo")
	switch driver {
	case "mongo":
		container.ContentProvider = content.Mongo{DB: container.Mgo()}
	case "memory":
		container.ContentProvider = content.NewMemory()
	default:
		log.Warningf("unknown content driver %q, using memory", driver)
		container.ContentProvider = content.NewMemory()
	}
	return container, nil
}
