package appeals

import (
	"strings"
	"unicode/utf8"

	"github.com/kennygrant/sanitize"
	"github.com/op/go-logging"
	"github.com/tidwall/buntdb"
	"github.com/tryanzu/tribunal/board/actions"
	"github.com/tryanzu/tribunal/board/bans"
	"github.com/tryanzu/tribunal/core/common"
	"github.com/tryanzu/tribunal/core/events"
	"github.com/tryanzu/tribunal/modules/acl"
	"github.com/tryanzu/tribunal/modules/exceptions"
)

var log = logging.MustGetLogger("appeals")

// subject is what an appeal points at, resolved inside a transaction.
type subject struct {
	appellant  string
	community  string
	actorRole  string
	permission string
	state      string
	appealable bool
}

func resolveTx(tx *buntdb.Tx, kind, id string) (s subject, err error) {
	switch kind {
	case ACTION_SUBJECT:
		var a actions.Action
		a, err = actions.FindIdTx(tx, id)
		if err != nil {
			return
		}
		s = subject{
			appellant:  a.TargetAuthorID,
			community:  a.CommunityID,
			actorRole:  a.ActorRole,
			permission: actions.Permission(a.Target.Type),
			state:      a.ActionType,
			appealable: a.ActionType == actions.REMOVE && a.ReversalOf == "",
		}
		if actions.HasReversalTx(tx, a.ID) {
			s.state, s.appealable = "reversed", false
		}
	case BAN_SUBJECT:
		var b bans.Ban
		b, err = bans.FindIdTx(tx, id)
		if err != nil {
			return
		}
		s = subject{
			appellant:  b.BannedMemberID,
			community:  b.CommunityID,
			actorRole:  b.IssuerRole,
			permission: acl.PermManageUsers,
			state:      b.State(common.Now()),
			appealable: b.IsActive,
		}
	default:
		err = exceptions.Invalid("subjectType", "must be %s or %s, got %q", ACTION_SUBJECT, BAN_SUBJECT, kind)
	}
	return
}

// Create files a pending appeal. Only the member the action or ban was
// issued against may appeal, and only once at a time per subject.
func Create(d Deps, p *acl.Principal, a Appeal) (Appeal, error) {
	if err := p.Require(acl.PermAppeal, ""); err != nil {
		return a, err
	}
	if a.SubjectID == "" {
		return a, exceptions.Invalid("subjectId", "required")
	}
	if a.SubjectType != ACTION_SUBJECT && a.SubjectType != BAN_SUBJECT {
		return a, exceptions.Invalid("subjectType", "must be %s or %s, got %q", ACTION_SUBJECT, BAN_SUBJECT, a.SubjectType)
	}
	t, exists := d.Rules().AppealType(a.AppealType)
	if !exists {
		return a, exceptions.Invalid("appealType", "unknown appeal type %q", a.AppealType)
	}
	if t.Subject != a.SubjectType {
		return a, exceptions.Invalid("appealType", "%s appeals apply to %s subjects", a.AppealType, t.Subject)
	}
	a.AppealText = strings.TrimSpace(sanitize.HTML(a.AppealText))
	if a.AppealText == "" {
		return a, exceptions.Invalid("appealText", "required")
	}
	if utf8.RuneCountInString(a.AppealText) > maxAppealText {
		return a, exceptions.Invalid("appealText", "at most %d characters", maxAppealText)
	}

	err := d.BuntDB().Update(func(tx *buntdb.Tx) error {
		s, err := resolveTx(tx, a.SubjectType, a.SubjectID)
		if err != nil {
			return err
		}
		if s.appellant != p.ID {
			return exceptions.Forbidden("appellant", s.community)
		}
		if !s.appealable {
			return exceptions.Conflict(a.SubjectType, a.SubjectID, s.state, "appealed")
		}
		open, exists, err := findOpenTx(tx, a.SubjectID)
		if err != nil {
			return err
		}
		if exists {
			return exceptions.DuplicateAppeal(a.SubjectID, open.ID, open.Status)
		}

		a.ID = common.NewID()
		a.AppellantID = p.ID
		a.CommunityID = s.community
		a.Status = PENDING
		a.IsEscalated = false
		a.ReviewerRole = acl.RoleModerator
		if s.actorRole == acl.RoleAdmin {
			a.ReviewerRole = acl.RoleAdmin
		}
		a.ClaimedBy, a.Decision, a.Explanation, a.ReviewedBy = "", "", "", ""
		a.Reviewed, a.RemediedAt, a.History, a.Remedied = nil, nil, nil, false
		a.Created = common.Now()
		if err := common.Put(tx, key(a.ID), a); err != nil {
			return err
		}
		_, _, err = tx.Set(openKey(a.SubjectID), a.ID, nil)
		return err
	})
	if err != nil {
		return a, err
	}

	events.Emit(events.Appeal(events.APPEAL_NEW, a.ID, a.Status, events.UserSign{UserID: p.ID, Role: p.Role, Reason: a.AppealType}))
	return a, nil
}

// authorizeTx checks the reviewer against the appeal's tier and subject.
func authorizeTx(tx *buntdb.Tx, p *acl.Principal, a Appeal) error {
	if p.ID == a.AppellantID {
		return exceptions.Forbidden("review own appeal", a.CommunityID)
	}
	if a.ReviewerRole == acl.RoleAdmin && !p.IsAdmin() {
		return exceptions.Forbidden("admin review", a.CommunityID)
	}
	s, err := resolveTx(tx, a.SubjectType, a.SubjectID)
	if err != nil {
		return err
	}
	return p.Require(s.permission, a.CommunityID)
}

// Claim moves a pending appeal under review by the caller.
func Claim(d Deps, p *acl.Principal, id string) (a Appeal, err error) {
	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		a, err = findIdTx(tx, id)
		if err != nil {
			return err
		}
		if err := authorizeTx(tx, p, a); err != nil {
			return err
		}
		if a.Status != PENDING {
			return exceptions.Conflict("appeal", id, a.state(), UNDER_REVIEW)
		}
		a.Status = UNDER_REVIEW
		a.ClaimedBy = p.ID
		return common.Put(tx, key(a.ID), a)
	})
	if err != nil {
		return
	}
	events.Emit(events.Appeal(events.APPEAL_CLAIMED, a.ID, a.Status, events.UserSign{UserID: p.ID, Role: p.Role}))
	return
}

// Review records the terminal decision of the current tier. Overturning
// applies the remedy right after the decision commits; when the remedy
// fails the decision stands and a SideEffectError is returned with it.
func Review(d Deps, p *acl.Principal, id, decision, explanation string) (a Appeal, err error) {
	outcome, valid := outcomes[decision]
	if !valid {
		return a, exceptions.Invalid("decision", "must be uphold, overturn or reduce, got %q", decision)
	}
	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return a, exceptions.Invalid("decisionExplanation", "required")
	}
	if utf8.RuneCountInString(explanation) > maxAppealText {
		return a, exceptions.Invalid("decisionExplanation", "at most %d characters", maxAppealText)
	}

	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		a, err = findIdTx(tx, id)
		if err != nil {
			return err
		}
		if err := authorizeTx(tx, p, a); err != nil {
			return err
		}
		if !a.Open() {
			return exceptions.Conflict("appeal", id, a.state(), outcome)
		}
		now := common.Now()
		a.Status = outcome
		a.Decision = decision
		a.Explanation = explanation
		a.Reviewed = &now
		a.ReviewedBy = p.ID
		if err := common.Put(tx, key(a.ID), a); err != nil {
			return err
		}
		_, err := tx.Delete(openKey(a.SubjectID))
		if err == buntdb.ErrNotFound {
			err = nil
		}
		return err
	})
	if err != nil {
		return
	}

	log.Infof("appeal %s %s by %s (%s tier)", a.ID, a.Status, p.ID, a.ReviewerRole)
	events.Emit(events.Appeal(events.APPEAL_REVIEWED, a.ID, a.Status, events.UserSign{UserID: p.ID, Role: p.Role, Reason: decision}))
	if a.Status == OVERTURNED {
		return remedy(d, a, p)
	}
	return
}

// Escalate takes a moderator decision to the admin tier, reusing the
// same appeal. Only the appellant may escalate, and only once.
func Escalate(d Deps, p *acl.Principal, id string) (a Appeal, err error) {
	err = d.BuntDB().Update(func(tx *buntdb.Tx) error {
		a, err = findIdTx(tx, id)
		if err != nil {
			return err
		}
		if a.AppellantID != p.ID {
			return exceptions.Forbidden("appellant", a.CommunityID)
		}
		if !a.Escalatable() {
			return exceptions.Conflict("appeal", id, a.state(), UNDER_REVIEW+" by "+acl.RoleAdmin)
		}
		open, exists, err := findOpenTx(tx, a.SubjectID)
		if err != nil {
			return err
		}
		if exists {
			return exceptions.DuplicateAppeal(a.SubjectID, open.ID, open.Status)
		}

		previous := Decision{
			Decision:     a.Decision,
			Explanation:  a.Explanation,
			ReviewedBy:   a.ReviewedBy,
			ReviewerRole: a.ReviewerRole,
		}
		if a.Reviewed != nil {
			previous.Reviewed = *a.Reviewed
		}
		a.History = append(a.History, previous)
		a.IsEscalated = true
		a.Status = UNDER_REVIEW
		a.ReviewerRole = acl.RoleAdmin
		a.ClaimedBy = ""
		if err := common.Put(tx, key(a.ID), a); err != nil {
			return err
		}
		_, _, err = tx.Set(openKey(a.SubjectID), a.ID, nil)
		return err
	})
	if err != nil {
		return
	}
	events.Emit(events.Appeal(events.APPEAL_ESCALATED, a.ID, a.Status, events.UserSign{UserID: p.ID, Role: p.Role}))
	return
}
