package session

import (
	"time"

	"github.com/abhisek/wealthnav/internal/assessment"
)

// State is one user's in-flight questionnaire.
type State struct {
	SessionID    string
	CurrentIndex int
	Score        int
	Profile      assessment.Profile

	// Answers is the append-only log of committed answers, one per
	// answered question: the option code for single-choice questions,
	// the selected values for multi-select ones.
	Answers []assessment.Answer

	// Pending holds in-progress selections for the current multi-select
	// question, in selection order.
	Pending []string

	StartedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of st.
func (st *State) Clone() State {
	out := *st
	out.Profile = st.Profile.Clone()
	out.Answers = make([]assessment.Answer, len(st.Answers))
	for i, a := range st.Answers {
		if a.IsMulti() {
			a = assessment.Multi(a.Values)
		}
		out.Answers[i] = a
	}
	out.Pending = append([]string{}, st.Pending...)
	return out
}

// toggle adds v to the pending selection, or removes it if present.
func (st *State) toggle(v string) {
	for i, p := range st.Pending {
		if p == v {
			st.Pending = append(st.Pending[:i], st.Pending[i+1:]...)
			return
		}
	}
	st.Pending = append(st.Pending, v)
}
