package quiz

import "github.com/abhisek/wealthnav/internal/session"

// submittedMsg carries the engine's answer to one submission.
type submittedMsg struct {
	Outcome session.Outcome
	Err     error
}
