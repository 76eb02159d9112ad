package appeals

import (
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/actions"
	"github.com/tryanzu/tribunal/board/bans"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

const (
	effectRestore = "restore_content"
	effectLift    = "lift_ban"
)

// Apply re-triggers the remedy of an overturned appeal, e.g. after a
// restoration failed. Remedied appeals are returned untouched.
func Apply(d Deps, p *acl.Principal, id string) (a Appeal, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		a, err = findIdTx(tx, id)
		if err != nil {
			return err
		}
		if err := authorizeTx(tx, p, a); err != nil {
			return err
		}
		if a.Status != OVERTURNED {
			return exceptions.Conflict("appeal", id, a.state(), "remedied")
		}
		return nil
	})
	if err != nil || a.Remedied {
		return
	}
	return remedy(d, a, p)
}

func remedy(d Deps, a Appeal, p *acl.Principal) (Appeal, error) {
	reason := "appeal " + a.ID + " overturned"
	effect := effectRestore
	var err error
	switch a.SubjectType {
	case ACTION_SUBJECT:
		var removal actions.Action
		removal, err = actions.FindId(d, a.SubjectID)
		if err == nil {
			_, err = bans.RestoreContent(d, removal, p.ID, p.ActorRole(), reason)
		}
	case BAN_SUBJECT:
		effect = effectLift
		_, err = bans.Release(d, a.SubjectID, p.ID, p.ActorRole())
	}
	if err != nil {
		log.Errorf("appeal %s: %s failed: %v", a.ID, effect, err)
		return a, &exceptions.SideEffectError{AppealID: a.ID, Effect: effect, Err: err}
	}

	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		current, err := findIdTx(tx, a.ID)
		if err != nil {
			return err
		}
		if current.Remedied {
			a = current
			return nil
		}
		now := common.Now()
		current.Remedied = true
		current.RemediedAt = &now
		a = current
		return common.Put(tx, key(a.ID), a)
	})
	if err != nil {
		return a, &exceptions.SideEffectError{AppealID: a.ID, Effect: effect, Err: err}
	}
	events.Emit(events.Appeal(events.APPEAL_REMEDIED, a.ID, a.Status, events.UserSign{UserID: p.ID, Role: p.Role, Reason: effect}))
	return a, nil
}
