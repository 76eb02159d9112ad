package dal

import (
	"time"

	"github.com/tryanzu/tribunal/board/content"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// Seed inserts a visible post and comment owned by author so a fresh
// environment has something to report and moderate.
func Seed(db *mgo.Database, author string) (post, comment content.Target, err error) {
	pid := bson.NewObjectId()
	err = db.C("posts").Insert(bson.M{
		"_id":        pid,
		"title":      "Welcome",
		"content":    "All general matters can go here",
		"user_id":    author,
		"hidden":     false,
		"created_at": time.Now(),
	})
	if err != nil {
		return
	}
	cid := bson.NewObjectId()
	err = db.C("comments").Insert(bson.M{
		"_id":        cid,
		"post_id":    pid,
		"content":    "First!",
		"user_id":    author,
		"hidden":     false,
		"created_at": time.Now(),
	})
	if err != nil {
		return
	}
	post = content.Target{Type: content.POST, ID: pid.Hex()}
	comment = content.Target{Type: content.COMMENT, ID: cid.Hex()}
	return
}
