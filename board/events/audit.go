package events

import (
	"time"

	ev "github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/deps"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

type auditM struct {
	ID        bson.ObjectId `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string        `bson:"user_id" json:"user_id"`
	Role      string        `bson:"role" json:"role"`
	Related   string        `bson:"related" json:"related"`
	RelatedID string        `bson:"related_id" json:"related_id"`
	Reason    string        `bson:"reason" json:"reason"`
	Action    string        `bson:"action" json:"action"`
	Created   time.Time     `bson:"created_at" json:"created_at"`
}

var audited = map[string]string{
	ev.REPORT_NEW:       "report",
	ev.ACTION_REMOVE:    "action",
	ev.ACTION_APPROVE:   "action",
	ev.CONTENT_RESTORED: "action",
	ev.BAN_ISSUED:       "ban",
	ev.BAN_LIFTED:       "ban",
	ev.APPEAL_NEW:       "appeal",
	ev.APPEAL_CLAIMED:   "appeal",
	ev.APPEAL_REVIEWED:  "appeal",
	ev.APPEAL_ESCALATED: "appeal",
	ev.APPEAL_REMEDIED:  "appeal",
}

// Mirror every moderation event into the forum's audit log.
func auditEvents() {
	list := make([]ev.EventHandler, 0, len(audited))
	for name, related := range audited {
		related := related
		list = append(list, ev.EventHandler{
			On: name,
			Handler: func(e ev.Event) error {
				db := deps.Container.Mgo()
				if db == nil {
					return nil
				}
				return audit(db, related, e)
			},
		})
	}
	register(list)
}

// Audit action log.
func audit(db *mgo.Database, related string, e ev.Event) error {
	m := auditM{
		Related: related,
		Action:  e.Name,
		Created: time.Now(),
	}
	if id, ok := e.Params["id"].(string); ok {
		m.RelatedID = id
	}
	if e.Sign != nil {
		m.UserID = e.Sign.UserID
		m.Role = e.Sign.Role
		m.Reason = e.Sign.Reason
	}
	return db.C("audits").Insert(&m)
}
