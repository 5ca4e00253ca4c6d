package models

// ReviewTaskState is the lifecycle state of a review round. The same task
// row is reused across reject/reinitiate cycles, so completed and rejected
// are terminal for a round but not for the row.
type ReviewTaskState string

const (
	ReviewStatePending   ReviewTaskState = "pending"
	ReviewStateInReview  ReviewTaskState = "in_review"
	ReviewStateCompleted ReviewTaskState = "completed"
	ReviewStateRejected  ReviewTaskState = "rejected"
)

// Valid reports whether s is one of the defined task states.
func (s ReviewTaskState) Valid() bool {
	switch s {
	case ReviewStatePending, ReviewStateInReview, ReviewStateCompleted, ReviewStateRejected:
		return true
	}
	return false
}

// CaseReviewStatus is the per-case decision within a round.
type CaseReviewStatus string

const (
	CaseReviewPending  CaseReviewStatus = "pending"
	CaseReviewApproved CaseReviewStatus = "approved"
	CaseReviewRejected CaseReviewStatus = "rejected"
)

// Valid reports whether s is one of the defined case statuses.
func (s CaseReviewStatus) Valid() bool {
	switch s {
	case CaseReviewPending, CaseReviewApproved, CaseReviewRejected:
		return true
	}
	return false
}

// Reviewed reports whether the case no longer counts toward the pending gate.
func (s CaseReviewStatus) Reviewed() bool {
	return s != CaseReviewPending
}

// ReviewHistoryType tags how a round was closed.
type ReviewHistoryType string

const (
	HistoryTypeComplete ReviewHistoryType = "complete"
	HistoryTypeReject   ReviewHistoryType = "reject"
)
