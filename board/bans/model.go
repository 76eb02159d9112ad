package bans

import (
	"time"
)

// Ban restricts a member's participation in one community.
type Ban struct {
	ID             string     `json:"id"`
	CommunityID    string     `json:"community_id"`
	BannedMemberID string     `json:"banned_member_id"`
	ReasonCategory string     `json:"reason_category"`
	ReasonText     string     `json:"reason_text,omitempty"`
	IsPermanent    bool       `json:"is_permanent"`
	Expires        *time.Time `json:"expiration_date,omitempty"`
	IssuedBy       string     `json:"issued_by"`
	IssuerRole     string     `json:"issuer_role"`
	LiftedEarly    bool       `json:"lifted_early"`
	Lifted         *time.Time `json:"lifted_at,omitempty"`
	LiftedBy       string     `json:"lifted_by,omitempty"`
	Pardoned       bool       `json:"pardoned"`
	Created        time.Time  `json:"created_at"`

	// IsActive is derived on every read, never trusted from storage.
	IsActive bool `json:"is_active"`
}

// Active reports whether the ban still applies at the given time.
func (b Ban) Active(at time.Time) bool {
	if b.Lifted != nil {
		return false
	}
	return b.IsPermanent || (b.Expires != nil && b.Expires.After(at))
}

// State name used in conflict errors.
func (b Ban) State(at time.Time) string {
	switch {
	case b.Lifted != nil:
		return "lifted"
	case b.Active(at):
		return "active"
	}
	return "expired"
}

const maxReasonText = 1000

func key(id string) string {
	return "bans:" + id
}

func memberKey(community, member string) []byte {
	return []byte("ban:" + community + ":" + member)
}
