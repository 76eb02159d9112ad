package bans

import (
	"encoding/json"
	"sort"

	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

// FindId ban.
func FindId(d Deps, id string) (b Ban, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		b, err = FindIdTx(tx, id)
		return err
	})
	return
}

// FindIdTx looks a ban up inside an open transaction.
func FindIdTx(tx *buntdb.Tx, id string) (b Ban, err error) {
	err = common.Get(tx, key(id), &b)
	if err == common.ErrNotFound {
		return b, exceptions.NotFound("community ban", id)
	}
	b.IsActive = b.Active(common.Now())
	return
}

// FindByMember lists bans of a member, optionally narrowed to a community.
func FindByMember(d Deps, member, community string) (list []Ban, err error) {
	err = d.BuntDB().View(func(tx *buntdb.Tx) error {
		list, err = findByMemberTx(tx, member, community)
		return err
	})
	return
}

func findByMemberTx(tx *buntdb.Tx, member, community string) ([]Ban, error) {
	list := []Ban{}
	now := common.Now()
	err := common.Equal(tx, "bans_member", member, func(raw string) error {
		var b Ban
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return err
		}
		if community == "" || b.CommunityID == community {
			b.IsActive = b.Active(now)
			list = append(list, b)
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Created.Before(list[j].Created)
	})
	return list, err
}

// IsBanned checks the ledis fast path for an active ban.
func IsBanned(d Deps, community, member string) bool {
	n, err := d.LedisDB().Exists(memberKey(community, member))
	if err != nil {
		log.Error(err)
		return false
	}
	return n == 1
}
