package domain

// Role identifies what a participant does in an estimation session. The
// string values are the persisted representation and must stay stable.
type Role string

const (
	RoleFrontEnd Role = "Front-End"
	RoleBackEnd  Role = "Back-End"
	RoleQA       Role = "QA"
	// RolePM is the facilitator: never votes, has exclusive rights to
	// reveal, reset, kick and reconfigure the room.
	RolePM Role = "PM"
)

// VotingRoles returns the three roles that cast votes and are included in
// averaging, in display order.
func VotingRoles() []Role {
	return []Role{RoleFrontEnd, RoleBackEnd, RoleQA}
}

// IsVoting reports whether the role takes part in estimation.
func (r Role) IsVoting() bool {
	return r == RoleFrontEnd || r == RoleBackEnd || r == RoleQA
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	return r.IsVoting() || r == RolePM
}

// Multipliers holds the per-role percentage weight applied to that role's
// mean vote before team averaging. The facilitator role deliberately has no
// field here, so it can never be assigned a weight.
type Multipliers struct {
	FrontEnd int `json:"Front-End" bson:"front_end"`
	BackEnd  int `json:"Back-End" bson:"back_end"`
	QA       int `json:"QA" bson:"qa"`
}

// DefaultMultipliers weighs every voting role at 100%.
func DefaultMultipliers() Multipliers {
	return Multipliers{FrontEnd: 100, BackEnd: 100, QA: 100}
}

// ForRole returns the multiplier for a voting role. The second return is
// false for the facilitator role and unknown roles.
func (m Multipliers) ForRole(r Role) (int, bool) {
	switch r {
	case RoleFrontEnd:
		return m.FrontEnd, true
	case RoleBackEnd:
		return m.BackEnd, true
	case RoleQA:
		return m.QA, true
	default:
		return 0, false
	}
}

// withRole returns a copy with the given voting role's weight replaced.
// Callers must have checked r.IsVoting() beforehand.
func (m Multipliers) withRole(r Role, percent int) Multipliers {
	switch r {
	case RoleFrontEnd:
		m.FrontEnd = percent
	case RoleBackEnd:
		m.BackEnd = percent
	case RoleQA:
		m.QA = percent
	}
	return m
}
