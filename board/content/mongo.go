package content

import (
	"time"

	"github.com/tryanzu/tribunal/core/common"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// Mongo port over the forum's posts and comments collections.
type Mongo struct {
	DB *mgo.Database
}

type document struct {
	UserID interface{} `bson:"user_id"`
	Hidden bool        `bson:"hidden"`
}

func collection(t Target) string {
	if t.Type == COMMENT {
		return "comments"
	}
	return "posts"
}

func (m Mongo) find(t Target) (doc document, err error) {
	err = m.DB.C(collection(t)).Find(common.ById(t.ID)).Select(bson.M{"user_id": 1, "hidden": 1}).One(&doc)
	if err == mgo.ErrNotFound {
		err = ErrContentNotFound
	}
	return
}

func (m Mongo) Visible(t Target) (bool, error) {
	doc, err := m.find(t)
	if err != nil {
		return false, err
	}
	return !doc.Hidden, nil
}

// SetVisible only matches documents whose state differs, so two racing
// callers cannot both observe a change.
func (m Mongo) SetVisible(t Target, visible bool) (bool, error) {
	set := bson.M{"hidden": !visible, "updated_at": time.Now()}
	if !visible {
		set["hidden_at"] = time.Now()
	}
	selector := bson.M{"_id": common.ObjectID(t.ID), "hidden": bson.M{"$ne": !visible}}
	err := m.DB.C(collection(t)).Update(selector, bson.M{"$set": set})
	if err == mgo.ErrNotFound {
		// Either missing or already in the requested state.
		if _, err := m.find(t); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m Mongo) Author(t Target) (string, error) {
	doc, err := m.find(t)
	if err != nil {
		return "", err
	}
	switch id := doc.UserID.(type) {
	case bson.ObjectId:
		return id.Hex(), nil
	case string:
		return id, nil
	}
	return "", ErrContentNotFound
}
