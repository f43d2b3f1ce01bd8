package models

import (
	"maps"
	"slices"
)

// Decision is one winning ad for a placement.
type Decision struct {
	AdID          int64
	CreativeID    int64
	FlightID      int64
	CampaignID    int64
	PriorityID    int64
	ClickURL      string
	ImpressionURL string
	Contents      []Content
	Events        []Event
	MatchedPoints []MatchedPoint
	Height        int
	Width         int
}

// EventURL returns the tracking URL of the event with the given id.
func (d Decision) EventURL(eventID int) (string, bool) {
	for _, e := range d.Events {
		if e.ID == eventID {
			return e.URL, true
		}
	}
	return "", false
}

// SlotKind tells how a placement was answered.
type SlotKind int

const (
	// SlotNoWinner means the engine explicitly picked nothing.
	SlotNoWinner SlotKind = iota
	// SlotSingle means exactly one decision won.
	SlotSingle
	// SlotMultiple means the placement asked for several winners.
	SlotMultiple
)

func (k SlotKind) String() string {
	switch k {
	case SlotNoWinner:
		return "no_winner"
	case SlotSingle:
		return "single"
	case SlotMultiple:
		return "multiple"
	default:
		return "unknown"
	}
}

// DecisionSlot is the answer for one placement. Its zero value is a
// no-winner slot.
type DecisionSlot struct {
	Kind      SlotKind
	Decisions []Decision
}

// NoWinner returns an empty slot.
func NoWinner() DecisionSlot { return DecisionSlot{Kind: SlotNoWinner} }

// SingleWinner wraps one decision.
func SingleWinner(d Decision) DecisionSlot {
	return DecisionSlot{Kind: SlotSingle, Decisions: []Decision{d}}
}

// MultipleWinners wraps a list of decisions. An empty list is a no-winner
// slot.
func MultipleWinners(ds []Decision) DecisionSlot {
	if len(ds) == 0 {
		return NoWinner()
	}
	return DecisionSlot{Kind: SlotMultiple, Decisions: slices.Clone(ds)}
}

// HasWinner reports whether the slot holds at least one decision.
func (s DecisionSlot) HasWinner() bool { return len(s.Decisions) > 0 }

// Primary returns the first decision of the slot.
func (s DecisionSlot) Primary() (Decision, bool) {
	if len(s.Decisions) == 0 {
		return Decision{}, false
	}
	return s.Decisions[0], true
}

// DecisionResponse is the decoded engine answer.
type DecisionResponse struct {
	// User is nil when the response carried no user.
	User *User
	// Decisions is keyed by placement div name. It is never nil after
	// decoding.
	Decisions map[string]DecisionSlot
}

// Lookup returns the slot for a placement. ok is false when the engine did
// not mention the placement at all, which is distinct from a no-winner slot.
func (r *DecisionResponse) Lookup(divName string) (slot DecisionSlot, ok bool) {
	slot, ok = r.Decisions[divName]
	return slot, ok
}

// Winners returns the decisions for a placement, nil when there are none.
func (r *DecisionResponse) Winners(divName string) []Decision {
	return slices.Clone(r.Decisions[divName].Decisions)
}

// PlacementNames returns the answered placement names in sorted order.
func (r *DecisionResponse) PlacementNames() []string {
	return slices.Sorted(maps.Keys(r.Decisions))
}

// UserKey returns the user key echoed by the engine, or "".
func (r *DecisionResponse) UserKey() string {
	if r.User == nil {
		return ""
	}
	return r.User.Key
}
