package delivery

import "time"

// Failure stages, i.e. which collaborator broke for one user.
const (
	StageConfig     = "config"
	StageRecipients = "recipients"
	StageAggregate  = "aggregate"
	StageGenerate   = "generate"
	StageRender     = "render"
	StageSend       = "send"
)

// UserFailure is one user's failure within a pass. The rest of the batch is
// unaffected by it.
type UserFailure struct {
	UserID   string `json:"user_id"`
	Stage    string `json:"stage"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

// RunReport summarizes one polling pass.
type RunReport struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Attempted int           `json:"attempted"`
	Sent      int           `json:"sent"`
	Skipped   int           `json:"skipped"`
	Failed    []UserFailure `json:"failed"`
}

func (r *RunReport) recordFailure(f UserFailure) {
	r.Failed = append(r.Failed, f)
}
