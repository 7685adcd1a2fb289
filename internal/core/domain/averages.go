package domain

import (
	"fmt"
	"math"
)

// NotAvailable is the rendering of an average that has no voters behind it.
const NotAvailable = "N/A"

// Averages are the derived results of a revealed round. Entries are either
// NotAvailable or a number formatted to exactly two decimal places. Never
// stored; recompute from the room whenever it is in StateRevealed.
type Averages struct {
	Team     string
	FrontEnd string
	BackEnd  string
	QA       string
}

// ForRole returns the average for one voting role. The facilitator role and
// unknown roles report NotAvailable.
func (a Averages) ForRole(r Role) string {
	switch r {
	case RoleFrontEnd:
		return a.FrontEnd
	case RoleBackEnd:
		return a.BackEnd
	case RoleQA:
		return a.QA
	default:
		return NotAvailable
	}
}

// ComputeAverages turns a room's cast votes and multipliers into per-role
// and team averages.
//
// For each voting role: the mean of that role's cast votes, scaled by the
// role's multiplier over 100, rounded to two decimals. Roles with no cast
// votes report NotAvailable and are excluded from the team average.
//
// The team average re-weights the rounded per-role averages by each role's
// voter count: sum(roleAvg * voters) / sum(voters). The multiplier scales
// the role mean first, then voter counts weight across roles, so this is
// deliberately not a flat weighted mean of the raw votes.
//
// Total function: a room with no cast votes at all reports NotAvailable
// everywhere, so calling it outside StateRevealed is harmless.
func ComputeAverages(room Room) Averages {
	averages := Averages{
		Team:     NotAvailable,
		FrontEnd: NotAvailable,
		BackEnd:  NotAvailable,
		QA:       NotAvailable,
	}

	var weightedSum float64
	var totalVoters int

	for _, role := range VotingRoles() {
		var sum float64
		var count int
		for _, p := range room.Participants {
			if p.Role == role && p.HasVote() {
				sum += *p.Vote
				count++
			}
		}
		if count == 0 {
			continue
		}

		multiplier, _ := room.Multipliers.ForRole(role)
		avg := round2(sum / float64(count) * float64(multiplier) / 100)

		formatted := fmt.Sprintf("%.2f", avg)
		switch role {
		case RoleFrontEnd:
			averages.FrontEnd = formatted
		case RoleBackEnd:
			averages.BackEnd = formatted
		case RoleQA:
			averages.QA = formatted
		}

		weightedSum += avg * float64(count)
		totalVoters += count
	}

	if totalVoters > 0 {
		averages.Team = fmt.Sprintf("%.2f", round2(weightedSum/float64(totalVoters)))
	}
	return averages
}

// round2 rounds to two decimal places, half away from zero. The team
// average is computed from already-rounded role averages on purpose: the
// displayed role figures and the team figure must agree.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
