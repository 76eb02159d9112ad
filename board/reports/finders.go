package reports

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

// FindId report.
func FindId(d Deps, id string) (r Report, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		r, err = FindIdTx(tx, id)
		return err
	})
	return
}

// FindIdTx looks a report up inside an open transaction.
func FindIdTx(tx *buntdb.Tx, id string) (r Report, err error) {
	err = common.Get(tx, key(id), &r)
	if err == common.ErrNotFound {
		err = exceptions.NotFound("report", id)
	}
	return
}

// FindByTarget lists every report filed against t, oldest first.
func FindByTarget(d Deps, t content.Target) (list []Report, err error) {
	list = []Report{}
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		return common.Equal(tx, "reports_target", t.ID, func(raw string) error {
			var r Report
			if err := json.Unmarshal([]byte(raw), &r); err != nil {
				return err
			}
			if r.Type == t.Type {
				list = append(list, r)
			}
			return nil
		})
	})
	sortByCreated(list)
	return
}

// HasPending tells whether t carries reports no moderator acted upon yet.
func HasPending(d Deps, t content.Target) (pending bool) {
	d.BuntDB().View(func(tx *buntdb.Tx) error {
		pending = HasPendingTx(tx, t)
		return nil
	})
	return
}

// HasPendingTx is HasPending inside an open transaction.
func HasPendingTx(tx *buntdb.Tx, t content.Target) bool {
	_, err := tx.Get(pendingKey(t))
	return err == nil
}

// TodaysCountByReporter reports.
func TodaysCountByReporter(d Deps, id string) int {
	n, err := d.LedisDB().Get(dailyKey(id, time.Now()))
	if err != nil || n == nil {
		return 0
	}
	var count int
	fmt.Sscanf(string(n), "%d", &count)
	return count
}

func dailyKey(id string, at time.Time) []byte {
	return []byte("reports:" + id + ":" + at.UTC().Format("20060102"))
}

func sortByCreated(list []Report) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Created.Before(list[j].Created)
	})
}
