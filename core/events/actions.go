package events

// NewReport event.
func NewReport(id string, sign UserSign) Event {
	return Event{
		Name: REPORT_NEW,
		Sign: &sign,
		Params: map[string]interface{}{
			"id": id,
		},
	}
}

// ModerationAction event for remove/approve decisions. Effective tells
// handlers whether visibility actually changed.
func ModerationAction(name, id string, effective bool, sign UserSign) Event {
	return Event{
		Name: name,
		Sign: &sign,
		Params: map[string]interface{}{
			"id":        id,
			"effective": effective,
		},
	}
}

// ContentRestored event, emitted once per reversed removal.
func ContentRestored(actionID, reversalID string, effective bool, sign UserSign) Event {
	return Event{
		Name: CONTENT_RESTORED,
		Sign: &sign,
		Params: map[string]interface{}{
			"id":        reversalID,
			"action_id": actionID,
			"effective": effective,
		},
	}
}

// Ban event for issued and lifted bans.
func Ban(name, id string, sign UserSign) Event {
	return Event{
		Name: name,
		Sign: &sign,
		Params: map[string]interface{}{
			"id": id,
		},
	}
}

// Appeal event for any appeal transition.
func Appeal(name, id, status string, sign UserSign) Event {
	return Event{
		Name: name,
		Sign: &sign,
		Params: map[string]interface{}{
			"id":     id,
			"status": status,
		},
	}
}
