package entity

// Status is the lead lifecycle state as stored in the status column.
type Status string

const (
	StatusNew      Status = "nouveau"
	StatusApproved Status = "approuvé"
	StatusRejected Status = "rejeté"
)

// Allowed transitions. approuvé and rejeté are terminal.
var leadTransitions = map[Status]map[Status]bool{
	StatusNew:      {StatusApproved: true, StatusRejected: true},
	StatusApproved: {},
	StatusRejected: {},
}

// CanTransitionTo reports whether a lead in s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	return leadTransitions[s][next]
}

// IsTerminal is true for approuvé and rejeté.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func (s Status) String() string {
	return string(s)
}
