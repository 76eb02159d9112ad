package events

const (
	REPORT_NEW = "reports:new"

	ACTION_REMOVE  = "actions:remove"
	ACTION_APPROVE = "actions:approve"

	CONTENT_RESTORED = "content:restored"

	BAN_ISSUED = "bans:issued"
	BAN_LIFTED = "bans:lifted"

	APPEAL_NEW       = "appeals:new"
	APPEAL_CLAIMED   = "appeals:claimed"
	APPEAL_REVIEWED  = "appeals:reviewed"
	APPEAL_ESCALATED = "appeals:escalated"
	APPEAL_REMEDIED  = "appeals:remedied"
)
