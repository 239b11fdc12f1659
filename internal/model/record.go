package model

import "time"

type Status string

const (
	Sent   Status = "sent"
	Failed Status = "failed"
)

// DispatchRecord is one attempted absence notification and, eventually, the
// guardian's reply to it.
type DispatchRecord struct {
	ID        int64
	Student   string
	Series    string
	Date      string // calendar date, YYYY-MM-DD
	Guardian  string
	Phone     string // normalized, digits only
	Status    Status
	Reply     *string
	CreatedAt time.Time
}

// AwaitingReply reports whether the record can still receive a correlated
// reply: the message went out and nothing has been attached yet.
func (r DispatchRecord) AwaitingReply() bool {
	return r.Status == Sent && r.Reply == nil
}

// FlaggedStudent is one absentee in a dispatch batch, as selected by the
// operator. Phone is raw input; it gets normalized before anything else.
type FlaggedStudent struct {
	Student  string `json:"student"`
	Guardian string `json:"guardian"`
	Phone    string `json:"phone"`
}

// DispatchOutcome is the per-student result of a batch.
type DispatchOutcome struct {
	Student  string `json:"student"`
	RecordID int64  `json:"recordId,omitempty"`
	Status   Status `json:"status,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Detail   string `json:"detail"`
}

// CorrelationOutcome is the result of matching one inbound reply.
// MatchedRecordID is nil when no outstanding record claimed it.
type CorrelationOutcome struct {
	MatchedRecordID *int64
	Number          string
	Body            string
}
