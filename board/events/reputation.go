package events

import (
	"errors"

	"github.com/tryanzu/tribunal/board/actions"
	"github.com/tryanzu/tribunal/core/common"
	ev "github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/deps"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// ErrInvalidIDRef for events with an id.
var ErrInvalidIDRef = errors.New("invalid id reference. could not find related object")

// Reputation lost by an author per effective removal.
const removalPenalty = 5

// Effective removals cost the author reputation, restorations give it back.
func reputationEvents() {
	register([]ev.EventHandler{
		{
			On: ev.ACTION_REMOVE,
			Handler: func(e ev.Event) error {
				return reputation(e, -removalPenalty)
			},
		},
		{
			On: ev.CONTENT_RESTORED,
			Handler: func(e ev.Event) error {
				return reputation(e, removalPenalty)
			},
		},
	})
}

func reputation(e ev.Event, delta int) error {
	db := deps.Container.Mgo()
	if db == nil {
		return nil
	}
	if effective, _ := e.Params["effective"].(bool); !effective {
		return nil
	}
	id, _ := e.Params["id"].(string)
	a, err := actions.FindId(deps.Container, id)
	if err != nil {
		return ErrInvalidIDRef
	}
	err = db.C("users").Update(common.ById(a.TargetAuthorID), bson.M{
		"$inc": bson.M{"gaming.swords": delta},
	})
	if err == mgo.ErrNotFound {
		log.Warningf("author %s of %s not found, reputation untouched", a.TargetAuthorID, a.Target)
		return nil
	}
	return err
}
