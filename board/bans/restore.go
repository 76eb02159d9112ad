package bans

import (
	"github.com/tryanzu/tribunal/board/actions"
	"github.com/tryanzu/tribunal/core/events"
)

// RestoreContent reverses the visibility effect of a removal. Only the
// appeal workflow calls it, once an appeal against the removal is
// overturned. Calling it again is harmless.
func RestoreContent(d Deps, removal actions.Action, actorID, actorRole, reason string) (actions.Action, error) {
	rev, created, err := actions.Reverse(d, removal, actorID, actorRole, reason)
	if err != nil {
		return rev, err
	}
	if created {
		log.Infof("restored %s removed by action %s", removal.Target, removal.ID)
		events.Emit(events.ContentRestored(removal.ID, rev.ID, rev.Effective, events.UserSign{UserID: actorID, Role: actorRole, Reason: reason}))
	}
	return rev, nil
}
