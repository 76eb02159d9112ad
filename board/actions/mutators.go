package actions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/op/go-logging"
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/content"
	"github.com/tryanzu/tribunal/board/reports"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

var log = logging.MustGetLogger("actions")

// Permission needed to moderate a target of the given type.
func Permission(targetType string) string {
	if targetType == content.COMMENT {
		return acl.PermManageComments
	}
	return acl.PermManagePosts
}

// Create records a remove/approve decision and applies its effect.
func Create(d Deps, p *acl.Principal, a Action) (Action, error) {
	if err := a.Target.Validate(); err != nil {
		return a, err
	}
	if a.CommunityID == "" {
		return a, exceptions.Invalid("communityId", "required")
	}
	if err := p.Require(Permission(a.Target.Type), a.CommunityID); err != nil {
		return a, err
	}
	if err := validate(d, &a); err != nil {
		return a, err
	}

	author, err := d.Content().Author(a.Target)
	if err == content.ErrContentNotFound {
		return a, exceptions.NotFound(a.Target.Type, a.Target.ID)
	}
	if err != nil {
		return a, fmt.Errorf("resolving author of %s: %w", a.Target, err)
	}

	a.ID = common.NewID()
	a.TargetAuthorID = author
	a.ActorID = p.ID
	a.ActorRole = p.ActorRole()
	a.ReversalOf = ""

	// The write transaction serialises moderators acting on the store, the
	// visibility flip happens inside it so the audit entry and its effect
	// are committed together.
	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		if a.ReportID != "" {
			r, err := reports.FindIdTx(tx, a.ReportID)
			if err != nil {
				return err
			}
			if r.Target != a.Target || r.CommunityID != a.CommunityID {
				return exceptions.Invalid("reportId", "report %s targets %s in %s", r.ID, r.Target, r.CommunityID)
			}
		}
		pending := reports.HasPendingTx(tx, a.Target)
		switch a.ActionType {
		case REMOVE:
			changed, err := d.Content().SetVisible(a.Target, false)
			if err != nil {
				return fmt.Errorf("hiding %s: %w", a.Target, err)
			}
			a.Effective = changed
		case APPROVE:
			a.Effective = pending
		}
		a.Created = common.Now()
		if err := common.Put(tx, key(a.ID), a); err != nil {
			return err
		}
		return reports.ClearPendingTx(tx, a.Target)
	})
	if err != nil {
		return a, err
	}

	name := events.ACTION_APPROVE
	if a.ActionType == REMOVE {
		name = events.ACTION_REMOVE
	}
	if !a.Effective {
		log.Infof("%s on %s by %s recorded without effect", a.ActionType, a.Target, p.ID)
	}
	events.Emit(events.ModerationAction(name, a.ID, a.Effective, events.UserSign{UserID: p.ID, Role: a.ActorRole, Reason: a.ReasonCategory}))
	return a, nil
}

func validate(d Deps, a *Action) error {
	switch a.ActionType {
	case REMOVE:
		if !d.Rules().IsReportCategory(a.ReasonCategory) {
			return exceptions.Invalid("reasonCategory", "unknown category %q", a.ReasonCategory)
		}
		if !removalTypes[a.RemovalType] {
			return exceptions.Invalid("removalType", "unknown removal type %q", a.RemovalType)
		}
	case APPROVE:
		if a.ReasonCategory != "" && !d.Rules().IsReportCategory(a.ReasonCategory) {
			return exceptions.Invalid("reasonCategory", "unknown category %q", a.ReasonCategory)
		}
		if a.RemovalType != "" {
			return exceptions.Invalid("removalType", "only allowed on remove actions")
		}
	default:
		return exceptions.Invalid("actionType", "must be remove or approve, got %q", a.ActionType)
	}
	a.ReasonText = strings.TrimSpace(a.ReasonText)
	a.InternalNotes = strings.TrimSpace(a.InternalNotes)
	if utf8.RuneCountInString(a.ReasonText) > maxReasonText {
		return exceptions.Invalid("reasonText", "at most %d characters", maxReasonText)
	}
	if utf8.RuneCountInString(a.InternalNotes) > maxReasonText {
		return exceptions.Invalid("internalNotes", "at most %d characters", maxReasonText)
	}
	return nil
}

// Reverse undoes the visibility effect of a removal and records the
// reversal as a new approve action. Reversing twice returns the first
// reversal untouched, created tells which case happened.
func Reverse(d Deps, original Action, actorID, actorRole, reason string) (rev Action, created bool, err error) {
	if original.ActionType != REMOVE {
		return rev, false, exceptions.Invalid("actionType", "only remove actions can be reversed")
	}
	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		if rid, err := tx.Get(reversalKey(original.ID)); err == nil {
			rev, err = FindIdTx(tx, rid)
			return err
		}
		changed, err := d.Content().SetVisible(original.Target, true)
		if err != nil {
			return fmt.Errorf("restoring %s: %w", original.Target, err)
		}
		rev = Action{
			ID:             common.NewID(),
			CommunityID:    original.CommunityID,
			ActionType:     APPROVE,
			Target:         original.Target,
			TargetAuthorID: original.TargetAuthorID,
			ReasonCategory: original.ReasonCategory,
			ReasonText:     reason,
			ActorID:        actorID,
			ActorRole:      actorRole,
			Effective:      changed,
			ReversalOf:     original.ID,
			Created:        common.Now(),
		}
		if err := common.Put(tx, key(rev.ID), rev); err != nil {
			return err
		}
		_, _, err = tx.Set(reversalKey(original.ID), rev.ID, nil)
		created = true
		return err
	})
	return
}
