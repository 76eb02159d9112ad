package actions

import (
	"time"

	"github.com/tryanzu/tribunal/board/content"
)

const (
	REMOVE  = "remove"
	APPROVE = "approve"
)

// Removal types accepted on remove actions.
var removalTypes = map[string]bool{
	"":     true,
	"soft": true,
	"hard": true,
	"spam": true,
}

// Action is an immutable audit record of a moderator/admin decision.
type Action struct {
	ID          string `json:"id"`
	ReportID    string `json:"report_id,omitempty"`
	CommunityID string `json:"community_id"`
	ActionType  string `json:"action_type"`
	content.Target
	TargetAuthorID string `json:"target_author_id"`
	ReasonCategory string `json:"reason_category,omitempty"`
	ReasonText     string `json:"reason_text,omitempty"`
	RemovalType    string `json:"removal_type,omitempty"`
	InternalNotes  string `json:"internal_notes,omitempty"`
	ActorID        string `json:"actor_id"`
	ActorRole      string `json:"actor_role"`

	// Effective is false when the action did not change anything, e.g. a
	// second removal of already hidden content.
	Effective  bool      `json:"effective"`
	ReversalOf string    `json:"reversal_of,omitempty"`
	Created    time.Time `json:"created_at"`
}

// Public copy without moderator-only notes.
func (a Action) Public() Action {
	a.InternalNotes = ""
	return a
}

const maxReasonText = 1000

func key(id string) string {
	return "actions:" + id
}

func reversalKey(id string) string {
	return "reversal:" + id
}
