package appeals

import (
	"time"

	"github.com/tryanzu/tribunal/modules/acl"
)

type status = string

// Appeal states.
const (
	PENDING      status = "pending"
	UNDER_REVIEW status = "under_review"
	UPHELD       status = "upheld"
	OVERTURNED   status = "overturned"
	REDUCED      status = "reduced"
)

// Subjects an appeal may be filed against.
const (
	ACTION_SUBJECT = "moderation_action"
	BAN_SUBJECT    = "community_ban"
)

// Review decisions.
const (
	UPHOLD   = "uphold"
	OVERTURN = "overturn"
	REDUCE   = "reduce"
)

// outcomes maps a decision to the terminal state it produces.
var outcomes = map[string]status{
	UPHOLD:   UPHELD,
	OVERTURN: OVERTURNED,
	REDUCE:   REDUCED,
}

// Decision made by one reviewer tier, kept when an appeal is escalated.
type Decision struct {
	Decision     string    `json:"decision"`
	Explanation  string    `json:"decision_explanation"`
	ReviewedBy   string    `json:"reviewed_by"`
	ReviewerRole string    `json:"reviewer_role"`
	Reviewed     time.Time `json:"reviewed_at"`
}

// Appeal is a member's request to reverse a removal or a ban.
type Appeal struct {
	ID           string     `json:"id"`
	AppellantID  string     `json:"appellant_member_id"`
	SubjectType  string     `json:"subject_type"`
	SubjectID    string     `json:"subject_id"`
	CommunityID  string     `json:"community_id"`
	AppealType   string     `json:"appeal_type"`
	AppealText   string     `json:"appeal_text"`
	Status       status     `json:"status"`
	IsEscalated  bool       `json:"is_escalated"`
	ReviewerRole string     `json:"reviewer_role"`
	ClaimedBy    string     `json:"claimed_by,omitempty"`
	Decision     string     `json:"decision,omitempty"`
	Explanation  string     `json:"decision_explanation,omitempty"`
	Reviewed     *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy   string     `json:"reviewed_by,omitempty"`
	History      []Decision `json:"history,omitempty"`
	Remedied     bool       `json:"remedied"`
	RemediedAt   *time.Time `json:"remedied_at,omitempty"`
	Created      time.Time  `json:"created_at"`
}

// Open appeals still await a decision.
func (a Appeal) Open() bool {
	return a.Status == PENDING || a.Status == UNDER_REVIEW
}

// Escalatable tells whether the appellant may still take the appeal to
// the admin tier.
func (a Appeal) Escalatable() bool {
	return (a.Status == UPHELD || a.Status == REDUCED) && a.ReviewerRole == acl.RoleModerator && !a.IsEscalated
}

// Readable tells whether p may read the appeal: its appellant, an admin
// or anyone moderating the appeal's community.
func (a Appeal) Readable(p *acl.Principal) bool {
	if p.ID == a.AppellantID || p.IsAdmin() {
		return true
	}
	for _, perm := range []string{acl.PermManagePosts, acl.PermManageComments, acl.PermManageUsers} {
		if p.Can(perm, a.CommunityID) {
			return true
		}
	}
	return false
}

// state describes the appeal for conflict errors.
func (a Appeal) state() string {
	s := a.Status
	if a.IsEscalated {
		s += " (escalated)"
	}
	if !a.Open() {
		s += " by " + a.ReviewerRole
	}
	return s
}

const maxAppealText = 2000

func key(id string) string {
	return "appeals:" + id
}

func openKey(subject string) string {
	return "open-appeal:" + subject
}
