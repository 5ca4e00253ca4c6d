package services

import (
	"testing"

	"test-platform-api/models"
)

func strPtr(s string) *string { return &s }

func entriesWithStatuses(statuses ...models.CaseReviewStatus) []models.CaseReviewEntry {
	entries := make([]models.CaseReviewEntry, 0, len(statuses))
	for i, s := range statuses {
		entries = append(entries, models.CaseReviewEntry{
			EntryID:      i + 1,
			TaskID:       1,
			CaseID:       100 + i,
			ReviewStatus: s,
		})
	}
	return entries
}

func TestProgressOfEmptyRoundIsZeroPercent(t *testing.T) {
	p := progressOf(nil)
	if p.Total != 0 || p.Reviewed != 0 || p.Pending != 0 {
		t.Fatalf("unexpected counts: %+v", p)
	}
	if p.ProgressPercent != 0 {
		t.Fatalf("expected 0%% for empty round, got %v", p.ProgressPercent)
	}
}

func TestProgressOfRoundsToTwoDecimals(t *testing.T) {
	entries := entriesWithStatuses(
		models.CaseReviewApproved,
		models.CaseReviewPending,
		models.CaseReviewPending,
	)
	p := progressOf(entries)
	if p.Total != 3 || p.Reviewed != 1 || p.Pending != 2 {
		t.Fatalf("unexpected counts: %+v", p)
	}
	if p.ProgressPercent != 33.33 {
		t.Fatalf("expected 33.33, got %v", p.ProgressPercent)
	}
}

func TestProgressOfFullyReviewedRound(t *testing.T) {
	entries := entriesWithStatuses(models.CaseReviewApproved, models.CaseReviewRejected)
	p := progressOf(entries)
	if p.ProgressPercent != 100 || p.Pending != 0 {
		t.Fatalf("unexpected progress: %+v", p)
	}
}

func TestPendingEntryCount(t *testing.T) {
	entries := entriesWithStatuses(
		models.CaseReviewApproved,
		models.CaseReviewPending,
		models.CaseReviewRejected,
		models.CaseReviewPending,
	)
	if got := pendingEntryCount(entries); got != 2 {
		t.Fatalf("expected 2 pending, got %d", got)
	}
}

func TestAnyEntryRejected(t *testing.T) {
	approved := entriesWithStatuses(models.CaseReviewApproved, models.CaseReviewApproved)
	if anyEntryRejected(approved) {
		t.Fatal("no entry is rejected")
	}
	mixed := entriesWithStatuses(models.CaseReviewApproved, models.CaseReviewRejected)
	if !anyEntryRejected(mixed) {
		t.Fatal("expected rejected entry to be detected")
	}
}

func TestTransitionGuards(t *testing.T) {
	cases := []struct {
		name  string
		guard func(models.ReviewTaskState) bool
		allow []models.ReviewTaskState
	}{
		{"decision", decisionAllowed, []models.ReviewTaskState{models.ReviewStatePending, models.ReviewStateInReview}},
		{"complete", completeAllowed, []models.ReviewTaskState{models.ReviewStateInReview}},
		{"reject", rejectAllowed, []models.ReviewTaskState{models.ReviewStateInReview, models.ReviewStateCompleted, models.ReviewStateRejected}},
		{"restart", restartAllowed, []models.ReviewTaskState{models.ReviewStateCompleted}},
		{"reinitiate", reinitiateAllowed, []models.ReviewTaskState{models.ReviewStateRejected}},
	}

	all := []models.ReviewTaskState{
		models.ReviewStatePending,
		models.ReviewStateInReview,
		models.ReviewStateCompleted,
		models.ReviewStateRejected,
	}

	for _, tc := range cases {
		allowed := make(map[models.ReviewTaskState]bool, len(tc.allow))
		for _, s := range tc.allow {
			allowed[s] = true
		}
		for _, state := range all {
			if got := tc.guard(state); got != allowed[state] {
				t.Errorf("%s guard in state %s: got %v want %v", tc.name, state, got, allowed[state])
			}
		}
	}
}

func TestInvalidCaseStatusIsRejectedUpfront(t *testing.T) {
	svc := NewReviewWorkflowService(nil)
	_, err := svc.RecordCaseDecision(Actor{UserID: 1}, 1, 1, "maybe", "")
	if err == nil {
		t.Fatal("expected validation error for invalid status")
	}
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestCaseReviewStatusValid(t *testing.T) {
	for _, s := range []models.CaseReviewStatus{
		models.CaseReviewPending,
		models.CaseReviewApproved,
		models.CaseReviewRejected,
	} {
		if !s.Valid() {
			t.Errorf("status %s should be valid", s)
		}
	}
	if models.CaseReviewStatus("maybe").Valid() {
		t.Error("unknown status should be invalid")
	}
	if models.CaseReviewStatus("").Valid() {
		t.Error("empty status should be invalid")
	}
}

func TestMapCurrentStatus(t *testing.T) {
	cases := []struct {
		state       models.ReviewTaskState
		anyRejected bool
		want        string
	}{
		{models.ReviewStatePending, false, SuiteReviewPending},
		{models.ReviewStateInReview, false, SuiteReviewInReview},
		{models.ReviewStateInReview, true, SuiteReviewInReview},
		{models.ReviewStateCompleted, false, SuiteReviewApproved},
		{models.ReviewStateCompleted, true, SuiteReviewRejected},
		{models.ReviewStateRejected, false, SuiteReviewRejected},
		{models.ReviewTaskState(""), false, SuiteReviewNotStarted},
	}
	for _, tc := range cases {
		if got := mapCurrentStatus(tc.state, tc.anyRejected); got != tc.want {
			t.Errorf("mapCurrentStatus(%s, %v) = %s, want %s", tc.state, tc.anyRejected, got, tc.want)
		}
	}
}

func TestCanViewTaskAccessRules(t *testing.T) {
	task := &models.ReviewTask{
		TaskID:      1,
		ReviewerID:  10,
		InitiatorID: 20,
		State:       models.ReviewStateInReview,
	}

	if !canViewTask(task, 10) {
		t.Error("reviewer should see the task")
	}
	if !canViewTask(task, 20) {
		t.Error("initiator should see the task")
	}
	if canViewTask(task, 30) {
		t.Error("third party should not see an open round")
	}

	task.State = models.ReviewStateCompleted
	if !canViewTask(task, 30) {
		t.Error("completed rounds are visible to any authenticated user")
	}

	task.State = models.ReviewStateRejected
	if canViewTask(task, 30) {
		t.Error("rejected rounds stay restricted")
	}
}

func TestRejectAllowedAfterFailingComplete(t *testing.T) {
	// Completing with a rejected case yields the rejected verdict; the
	// reviewer can still reject that round explicitly to archive a second
	// history version.
	entries := entriesWithStatuses(
		models.CaseReviewApproved,
		models.CaseReviewApproved,
		models.CaseReviewRejected,
	)

	state := models.ReviewStateCompleted
	if anyEntryRejected(entries) {
		state = models.ReviewStateRejected
	}
	if state != models.ReviewStateRejected {
		t.Fatalf("completing with a failing case must yield the rejected verdict, got %s", state)
	}
	if !rejectAllowed(state) {
		t.Fatal("reject must be allowed on a round completed with a failing verdict")
	}
}

func TestWriteAuditLogRejectsUnencodableValues(t *testing.T) {
	err := writeAuditLog(nil, Actor{UserID: 1}, "complete_review", 1,
		map[string]interface{}{"bad": make(chan int)}, "verdict recorded")
	if err == nil {
		t.Fatal("expected an encoding error for unencodable audit values")
	}
}

func TestVerdictDerivation(t *testing.T) {
	// complete maps any-rejected to a rejected round, all-approved to completed
	allApproved := entriesWithStatuses(models.CaseReviewApproved, models.CaseReviewApproved, models.CaseReviewApproved)
	oneRejected := entriesWithStatuses(models.CaseReviewApproved, models.CaseReviewApproved, models.CaseReviewRejected)

	if anyEntryRejected(allApproved) {
		t.Fatal("all-approved round must produce the completed verdict")
	}
	if !anyEntryRejected(oneRejected) {
		t.Fatal("a single rejected case must produce the rejected verdict")
	}
}
