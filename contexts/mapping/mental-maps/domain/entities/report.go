package entities

import "time"

type ReportStatus string

const (
	ReportStatusNew        ReportStatus = "new"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
	ReportStatusRejected   ReportStatus = "rejected"
)

// IsValid reports whether s is one of the four workflow statuses.
// Any status may move to any other; there is no terminal state.
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusNew, ReportStatusInProgress, ReportStatusResolved, ReportStatusRejected:
		return true
	default:
		return false
	}
}

type Report struct {
	ReportID  string
	MapID     string
	AuthorID  string
	Reason    string
	Comment   string
	Status    ReportStatus
	CreatedAt time.Time
}
