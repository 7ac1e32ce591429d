package domain

// StepDiff represents the changes between two views of a session.
// It is designed to be serialized to JSON for partial updates on the client.
type StepDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Pattern *string `json:"pattern,omitempty"`
	Input   *string `json:"input,omitempty"`
	Index   *int    `json:"index,omitempty"`

	// ActiveIDs is the full new active set when membership changed.
	ActiveIDs ActiveSet `json:"active_ids,omitempty"`

	Accepted *bool `json:"accepted,omitempty"`
	Fired    []int `json:"fired_transitions,omitempty"`
}

// Diff calculates the difference between two snapshots of the same session.
// If old is nil, it returns a diff representing the entire new snapshot (initial load).
// It returns nil when nothing observable changed.
func Diff(oldSess *Session, oldView *View, newSess *Session, newView *View) *StepDiff {
	if newSess == nil || newView == nil {
		return nil
	}

	diff := &StepDiff{SessionID: newSess.ID}

	if oldSess == nil || oldSess.Pattern != newSess.Pattern {
		diff.Pattern = &newSess.Pattern
	}
	if oldSess == nil || oldSess.Input != newSess.Input {
		diff.Input = &newSess.Input
	}
	if oldView == nil || oldView.Index != newView.Index {
		diff.Index = &newView.Index
	}
	if oldView == nil || !oldView.ActiveIDs.Equal(newView.ActiveIDs) {
		diff.ActiveIDs = newView.ActiveIDs
		if diff.ActiveIDs == nil {
			diff.ActiveIDs = ActiveSet{}
		}
	}
	if oldView == nil || oldView.Accepted != newView.Accepted {
		diff.Accepted = &newView.Accepted
	}
	if diff.Index != nil && len(newView.Fired) > 0 {
		diff.Fired = newView.Fired
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StepDiff) IsEmpty() bool {
	return d.Pattern == nil &&
		d.Input == nil &&
		d.Index == nil &&
		d.ActiveIDs == nil &&
		d.Accepted == nil
}
