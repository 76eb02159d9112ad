package deps

import (
	"gopkg.in/mgo.v2"
)

// IgniteMongoDB connects to the forum database owning posts, comments and
// users. Skipped when the memory content driver is used.
func IgniteMongoDB(container Deps) (Deps, error) {
	if container.Config().UString("content.driver", "mongo") != "mongo" {
		return container, nil
	}
	url, err := container.Config().String("mongo.url")
	if err != nil {
		return container, err
	}
	session, err := mgo.Dial(url)
	if err != nil {
		log.Error(err)
		log.Info(url)
		return container, err
	}
	db := session.DB(container.Config().UString("mongo.name", "anzu"))
	err = db.C("audits").EnsureIndex(mgo.Index{
		Key:        []string{"related", "related_id"},
		Background: true,
	})
	if err != nil {
		session.Close()
		return container, err
	}

	container.DatabaseSessionProvider = session
	container.DatabaseProvider = db
	return container, nil
}
