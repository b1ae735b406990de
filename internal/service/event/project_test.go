package event

import (
	"testing"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

func TestProject_MergesInLogOrder(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	e := newCreatedEvent(userID)
	e.Actions = append(e.Actions,
		acceptedAction(e, domain.ActionNotify, domain.Declaration{"child.firstname": "Ada"}),
		acceptedAction(e, domain.ActionDeclare, domain.Declaration{
			"child.firstname": "Ada Jane",
			"child.dob":       "2024-01-02",
		}),
	)

	st := Project(e, testConfig(), testNow)
	if st.Status != domain.StatusDeclared {
		t.Errorf("status: got %s, want %s", st.Status, domain.StatusDeclared)
	}
	if st.Declaration["child.firstname"] != "Ada Jane" {
		t.Errorf("child.firstname: got %v, want %q (later write wins)", st.Declaration["child.firstname"], "Ada Jane")
	}
	if st.Declaration["child.dob"] != "2024-01-02" {
		t.Errorf("child.dob: got %v, want %q", st.Declaration["child.dob"], "2024-01-02")
	}
}

func TestProject_SkipsRejectedActions(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	e := newCreatedEvent(userID)
	rejected := acceptedAction(e, domain.ActionDeclare, domain.Declaration{"child.firstname": "Wrong"})
	rejected.Status = domain.ActionStatusRejected
	e.Actions = append(e.Actions, rejected)

	st := Project(e, testConfig(), testNow)
	if _, ok := st.Declaration["child.firstname"]; ok {
		t.Errorf("rejected action's declaration leaked into snapshot: %v", st.Declaration)
	}
}

func TestProject_CorrectionHeldUntilApproved(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	e := newCreatedEvent(userID)
	e.Actions = append(e.Actions,
		acceptedAction(e, domain.ActionDeclare, domain.Declaration{
			"child.firstname": "Ada",
			"child.dob":       "2024-01-02",
		}),
		acceptedAction(e, domain.ActionRegister, nil),
	)
	request := acceptedAction(e, domain.ActionRequestCorrection, domain.Declaration{"child.firstname": "Ava"})
	e.Actions = append(e.Actions, request)

	// Pending: the requested diff must not show.
	pending := Project(e, testConfig(), testNow)
	if pending.Declaration["child.firstname"] != "Ada" {
		t.Errorf("pending correction applied early: got %v, want %q",
			pending.Declaration["child.firstname"], "Ada")
	}
	if !pending.HasFlag(domain.FlagCorrectionRequested) {
		t.Error("expected CORRECTION_REQUESTED flag while pending")
	}

	// Approved: the diff applies at the approval's position.
	approval := acceptedAction(e, domain.ActionApproveCorrection, nil)
	approval.RequestID = &request.ID
	e.Actions = append(e.Actions, approval)

	approved := Project(e, testConfig(), testNow)
	if approved.Declaration["child.firstname"] != "Ava" {
		t.Errorf("approved correction not applied: got %v, want %q",
			approved.Declaration["child.firstname"], "Ava")
	}
	if approved.HasFlag(domain.FlagCorrectionRequested) {
		t.Error("expected CORRECTION_REQUESTED flag cleared after approval")
	}
	if approved.Status != domain.StatusRegistered {
		t.Errorf("status: got %s, want %s", approved.Status, domain.StatusRegistered)
	}
}

func TestProject_RejectedCorrectionNeverApplies(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	e := newCreatedEvent(userID)
	e.Actions = append(e.Actions,
		acceptedAction(e, domain.ActionDeclare, domain.Declaration{
			"child.firstname": "Ada",
			"child.dob":       "2024-01-02",
		}),
		acceptedAction(e, domain.ActionRegister, nil),
	)
	request := acceptedAction(e, domain.ActionRequestCorrection, domain.Declaration{"child.firstname": "Ava"})
	rejection := acceptedAction(e, domain.ActionRejectCorrection, nil)
	rejection.RequestID = &request.ID
	e.Actions = append(e.Actions, request, rejection)

	st := Project(e, testConfig(), testNow)
	if st.Declaration["child.firstname"] != "Ada" {
		t.Errorf("rejected correction applied: got %v, want %q", st.Declaration["child.firstname"], "Ada")
	}
	if st.HasFlag(domain.FlagCorrectionRequested) {
		t.Error("expected CORRECTION_REQUESTED flag cleared after rejection")
	}
}

func TestProject_PrunesHiddenFields(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	e := newCreatedEvent(userID)
	e.Actions = append(e.Actions,
		acceptedAction(e, domain.ActionDeclare, domain.Declaration{
			"child.firstname": "Ada",
			"child.dob":       "2024-01-02",
			"father.name":     "Charles",
		}),
		// The father is later recorded deceased, hiding father.name.
		acceptedAction(e, domain.ActionNotify, domain.Declaration{"father.deceased": true}),
	)

	st := Project(e, testConfig(), testNow)
	if _, ok := st.Declaration["father.name"]; ok {
		t.Errorf("hidden field kept its value: %v", st.Declaration["father.name"])
	}
	if st.Declaration["father.deceased"] != true {
		t.Errorf("father.deceased: got %v, want true", st.Declaration["father.deceased"])
	}
}

func TestProject_ApprovedCorrectionPrunesDependents(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	e := newCreatedEvent(userID)
	e.Actions = append(e.Actions,
		acceptedAction(e, domain.ActionDeclare, domain.Declaration{
			"child.firstname": "Ada",
			"child.dob":       "2024-01-02",
			"father.deceased": false,
			"father.name":     "Charles",
		}),
		acceptedAction(e, domain.ActionRegister, nil),
	)
	// The correction flips the governing field; the dependent value must
	// fall out of the projection once the diff applies.
	request := acceptedAction(e, domain.ActionRequestCorrection, domain.Declaration{"father.deceased": true})
	approval := acceptedAction(e, domain.ActionApproveCorrection, nil)
	approval.RequestID = &request.ID
	e.Actions = append(e.Actions, request, approval)

	st := Project(e, testConfig(), testNow)
	if st.Declaration["father.deceased"] != true {
		t.Errorf("father.deceased: got %v, want true", st.Declaration["father.deceased"])
	}
	if v, ok := st.Declaration["father.name"]; ok {
		t.Errorf("dependent field survived the approved correction: %v", v)
	}
	if st.Declaration["child.firstname"] != "Ada" {
		t.Errorf("unrelated field: got %v, want %q", st.Declaration["child.firstname"], "Ada")
	}
}

func TestProject_NilConfigSkipsPruning(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	e := newCreatedEvent(userID)
	e.Actions = append(e.Actions, acceptedAction(e, domain.ActionDeclare, domain.Declaration{
		"father.deceased": true,
		"father.name":     "Charles",
	}))

	st := Project(e, nil, testNow)
	if _, ok := st.Declaration["father.name"]; !ok {
		t.Error("without a configuration no fields should be pruned")
	}
}
