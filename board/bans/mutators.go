package bans

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/op/go-logging"
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

var log = logging.MustGetLogger("bans")

// Issue validates and stores a community ban.
func Issue(d Deps, p *acl.Principal, ban Ban) (Ban, error) {
	if ban.CommunityID == "" {
		return ban, exceptions.Invalid("communityId", "required")
	}
	if err := p.Require(acl.PermManageUsers, ban.CommunityID); err != nil {
		return ban, err
	}
	if ban.BannedMemberID == "" {
		return ban, exceptions.Invalid("bannedMemberId", "required")
	}
	if ban.BannedMemberID == p.ID {
		return ban, exceptions.Invalid("bannedMemberId", "cannot ban yourself")
	}
	reason, exists := d.Rules().BanReason(ban.ReasonCategory)
	if !exists {
		return ban, exceptions.Invalid("reasonCategory", "unknown ban reason %q", ban.ReasonCategory)
	}
	ban.ReasonText = strings.TrimSpace(ban.ReasonText)
	if utf8.RuneCountInString(ban.ReasonText) > maxReasonText {
		return ban, exceptions.Invalid("reasonText", "at most %d characters", maxReasonText)
	}

	now := common.Now()
	if ban.IsPermanent {
		if ban.Expires != nil {
			return ban, exceptions.Invalid("expirationDate", "permanent bans do not expire")
		}
	} else {
		if ban.Expires == nil {
			return ban, exceptions.Invalid("expirationDate", "required for temporary bans")
		}
		if !ban.Expires.After(now) {
			return ban, exceptions.Invalid("expirationDate", "must be after %s", now.Format(time.RFC3339))
		}
		expires := ban.Expires.UTC()
		ban.Expires = &expires
	}

	ban.ID = common.NewID()
	ban.IssuedBy = p.ID
	ban.IssuerRole = p.ActorRole()
	ban.LiftedEarly = false
	ban.Lifted = nil
	ban.LiftedBy = ""
	ban.Pardoned = false
	ban.Created = now
	marked := false
	err := d.BuntDB().Update(func(tx *buntdb.Tx) error {
		previous, err := findByMemberTx(tx, ban.BannedMemberID, ban.CommunityID)
		if err != nil {
			return err
		}
		for _, b := range previous {
			if b.IsActive {
				return exceptions.Conflict("community ban", b.ID, "active", "issued")
			}
		}
		effects, err := reason.Effects(offences(previous))
		if err != nil {
			return err
		}
		if ban.IsPermanent && !effects.AllowPermanent {
			return exceptions.Invalid("isPermanent", "reason %s does not allow a permanent ban yet", ban.ReasonCategory)
		}
		if !ban.IsPermanent && effects.MaxDuration > 0 && ban.Expires.Sub(now) > effects.MaxDuration {
			return exceptions.Invalid("expirationDate", "reason %s allows at most %s", ban.ReasonCategory, effects.MaxDuration)
		}
		if err := common.Put(tx, key(ban.ID), ban); err != nil {
			return err
		}

		// The ledis key is written while the store is locked so a
		// concurrent lift cannot clear it before it exists.
		if err := mark(d, ban); err != nil {
			return err
		}
		marked = true
		return nil
	})
	if err != nil {
		if marked {
			unmark(d, ban)
		}
		return ban, err
	}
	ban.IsActive = true

	events.Emit(events.Ban(events.BAN_ISSUED, ban.ID, events.UserSign{UserID: p.ID, Role: ban.IssuerRole, Reason: ban.ReasonCategory}))
	return ban, nil
}

// offences counts the bans a reason's effects escalate on. Pardoned bans
// were overturned on appeal and do not count.
func offences(previous []Ban) int {
	n := 0
	for _, b := range previous {
		if !b.Pardoned {
			n++
		}
	}
	return n
}

// Lift is the admin path to end a ban before it expires.
func Lift(d Deps, p *acl.Principal, community, id string) (Ban, error) {
	if err := p.RequireAdmin(acl.PermLiftBans); err != nil {
		return Ban{}, err
	}
	return lift(d, community, id, p.ID, p.Role, false)
}

// Release pardons a ban because an appeal against it was overturned. An
// active ban is lifted early; one that already expired or was lifted is
// only marked pardoned, so callers may retry freely.
func Release(d Deps, id, actorID, actorRole string) (Ban, error) {
	return lift(d, "", id, actorID, actorRole, true)
}

func lift(d Deps, community, id, actorID, actorRole string, pardon bool) (ban Ban, err error) {
	lifted := false
	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		ban, err = FindIdTx(tx, id)
		if err != nil {
			return err
		}
		if community != "" && ban.CommunityID != community {
			return exceptions.NotFound("community ban", id)
		}
		now := common.Now()
		switch {
		case ban.Active(now):
			ban.LiftedEarly = true
			ban.Lifted = &now
			ban.LiftedBy = actorID
			ban.IsActive = false
			lifted = true
		case !pardon:
			return exceptions.Conflict("community ban", id, ban.State(now), "lifted")
		case ban.Pardoned:
			return nil
		}
		ban.Pardoned = ban.Pardoned || pardon
		if err := common.Put(tx, key(ban.ID), ban); err != nil {
			return err
		}
		if lifted {
			return unmark(d, ban)
		}
		return nil
	})
	if err != nil || !lifted {
		return
	}
	events.Emit(events.Ban(events.BAN_LIFTED, ban.ID, events.UserSign{UserID: actorID, Role: actorRole}))
	return
}

// mark writes the ledis key used by IsBanned, expiring with the ban.
func mark(d Deps, ban Ban) error {
	k := memberKey(ban.CommunityID, ban.BannedMemberID)
	if err := d.LedisDB().Set(k, []byte(ban.ID)); err != nil {
		return err
	}
	if ban.IsPermanent {
		return nil
	}
	secs := int64(time.Until(*ban.Expires) / time.Second)
	if secs < 1 {
		secs = 1
	}
	_, err := d.LedisDB().Expire(k, secs)
	return err
}

func unmark(d Deps, ban Ban) error {
	_, err := d.LedisDB().Del(memberKey(ban.CommunityID, ban.BannedMemberID))
	if err != nil {
		log.Errorf("could not clear cached ban %s: %v", ban.ID, err)
	}
	return err
}
