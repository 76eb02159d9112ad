package appeals

import (
	"encoding/json"
	"sort"

	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

// FindId appeal.
func FindId(d Deps, id string) (a Appeal, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		a, err = findIdTx(tx, id)
		return err
	})
	return
}

func findIdTx(tx *buntdb.Tx, id string) (a Appeal, err error) {
	err = common.Get(tx, key(id), &a)
	if err == common.ErrNotFound {
		err = exceptions.NotFound("appeal", id)
	}
	return
}

// FindOpenBySubject returns the open appeal against a subject, if any.
func FindOpenBySubject(d Deps, subject string) (a Appeal, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		var open bool
		a, open, err = findOpenTx(tx, subject)
		if err == nil && !open {
			err = exceptions.NotFound("open appeal for", subject)
		}
		return err
	})
	return
}

func findOpenTx(tx *buntdb.Tx, subject string) (Appeal, bool, error) {
	id, err := tx.Get(openKey(subject))
	if err == buntdb.ErrNotFound {
		return Appeal{}, false, nil
	}
	if err != nil {
		return Appeal{}, false, err
	}
	a, err := findIdTx(tx, id)
	return a, err == nil, err
}

// FindByAppellant lists a member's appeals, newest first.
func FindByAppellant(d Deps, member string) (list []Appeal, err error) {
	list = []Appeal{}
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		return common.Equal(tx, "appeals_appellant", member, func(raw string) error {
			var a Appeal
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				return err
			}
			list = append(list, a)
			return nil
		})
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Created.After(list[j].Created)
	})
	return
}
