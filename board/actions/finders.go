package actions

import (
	"encoding/json"
	"sort"

	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

// FindId action.
func FindId(d Deps, id string) (a Action, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		a, err = FindIdTx(tx, id)
		return err
	})
	return
}

// FindIdTx looks an action up inside an open transaction.
func FindIdTx(tx *buntdb.Tx, id string) (a Action, err error) {
	err = common.Get(tx, key(id), &a)
	if err == common.ErrNotFound {
		err = exceptions.NotFound("moderation action", id)
	}
	return
}

// FindByTarget returns the audit trail of t, oldest first.
func FindByTarget(d Deps, t content.Target) (list []Action, err error) {
	list = []Action{}
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		return common.Equal(tx, "actions_target", t.ID, func(raw string) error {
			var a Action
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				return err
			}
			if a.Target == t {
				list = append(list, a)
			}
			return nil
		})
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Created.Before(list[j].Created)
	})
	return
}

// FindReversal of the given removal, if any.
func FindReversal(d Deps, id string) (a Action, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		rid, err := tx.Get(reversalKey(id))
		if err == buntdb.ErrNotFound {
			return exceptions.NotFound("reversal of moderation action", id)
		}
		if err != nil {
			return err
		}
		a, err = FindIdTx(tx, rid)
		return err
	})
	return
}

// HasReversalTx tells whether the removal id was already reversed.
func HasReversalTx(tx *buntdb.Tx, id string) bool {
	_, err := tx.Get(reversalKey(id))
	return err == nil
}
