package session

import (
	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/questionnaire"
)

// Outcome is the result of a Submit call. It is one of Invalid,
// NeedSelection, MultipleContinue, Next or Complete.
type Outcome interface {
	outcome()
}

// Invalid means the input matched no option. The session is unchanged.
type Invalid struct{}

// NeedSelection means a completion keyword arrived on a multi-select
// question with nothing selected.
type NeedSelection struct {
	Question questionnaire.Question
}

// MultipleContinue reports the pending selections after a toggle.
type MultipleContinue struct {
	Selected []string
	Question questionnaire.Question
}

// Next carries the question the session advanced to. PartChanged is set
// when the question opens a new part.
type Next struct {
	Question    questionnaire.Question
	Index       int
	PartChanged bool
}

// Complete carries the final result. The session no longer exists.
type Complete struct {
	Result assessment.Result
}

func (Invalid) outcome()          {}
func (NeedSelection) outcome()    {}
func (MultipleContinue) outcome() {}
func (Next) outcome()             {}
func (Complete) outcome()         {}
