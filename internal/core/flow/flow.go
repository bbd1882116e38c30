// Package flow implements the preview-then-confirm workflow shared by the
// create and update screens.
//
// The workflow is a pure function over domain.SessionState: callers load the
// session, ask Decide what to do with a submission, execute the returned
// effects (staging, promoting or discarding uploads and persisting the
// record) and save the returned state.
//
//	EDITING --commit, valid--> PREVIEWING --commit, valid--> EDITING (committed)
//	   ^                            |
//	   +------ cancel / invalid ----+
package flow

import "github.com/blogdesk/admin-api/internal/core/domain"

// State is the position of a session within the workflow for one route.
type State int

const (
	Editing State = iota
	Previewing
)

func (s State) String() string {
	if s == Previewing {
		return "previewing"
	}
	return "editing"
}

// Intent is the action signalled by the submitted form.
type Intent int

const (
	IntentNone Intent = iota
	IntentCommit
	IntentCancel
)

func (i Intent) String() string {
	switch i {
	case IntentCommit:
		return "commit"
	case IntentCancel:
		return "cancel"
	default:
		return "none"
	}
}

// Outcome tells the caller how to answer the request.
type Outcome int

const (
	// OutcomeRedirect sends the client back to the fresh form.
	OutcomeRedirect Outcome = iota
	// OutcomeInvalid re-renders the editable form with validation errors.
	OutcomeInvalid
	// OutcomePreview re-renders the submitted values read-only.
	OutcomePreview
	// OutcomeCommit requires the caller to persist the staged submission.
	OutcomeCommit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomePreview:
		return "preview"
	case OutcomeCommit:
		return "commit"
	default:
		return "redirect"
	}
}

// Input describes one submission against a route.
type Input struct {
	RouteKey  string
	Intent    Intent
	Valid     bool
	HasUpload bool
	// Status is the submitted checkbox value; only read when a preview is staged.
	Status *bool
}

// Decision lists the side effects the caller must run, in order.
type Decision struct {
	Outcome Outcome
	// Discard holds staged upload paths that must be removed.
	Discard []string
	// StageUpload asks the caller to stage the request's file and record it with Staged.
	StageUpload bool
	// Promote is the staged upload to move into permanent storage before persisting.
	Promote string
	// Status is the checkbox value staged during preview, applied at commit.
	Status *bool
}

// StateOf reports the workflow state of routeKey for the given session.
func StateOf(s domain.SessionState, routeKey string) State {
	if s.Previewing(routeKey) {
		return Previewing
	}
	return Editing
}

// Enter records a visit to routeKey. Visiting any route other than the one that
// owns the session's workflow resets it and releases a pending upload.
func Enter(s domain.SessionState, routeKey string) (domain.SessionState, []string) {
	if s.LastRouteKey == routeKey {
		return s, nil
	}
	return domain.SessionState{LastRouteKey: routeKey}, pending(s)
}

// Decide applies a submission to the session and returns the next state along
// with the effects to execute.
func Decide(s domain.SessionState, in Input) (domain.SessionState, Decision) {
	s, discard := Enter(s, in.RouteKey)

	if in.Intent != IntentCommit {
		return reset(s), Decision{Outcome: OutcomeRedirect, Discard: append(discard, pending(s)...)}
	}

	if !in.Valid {
		return reset(s), Decision{Outcome: OutcomeInvalid, Discard: append(discard, pending(s)...)}
	}

	if !s.Previewing(in.RouteKey) {
		d := Decision{Outcome: OutcomePreview, Discard: append(discard, pending(s)...), StageUpload: in.HasUpload}
		next := reset(s)
		next.ConfirmFlag = true
		next.PendingPostStatus = copyBool(in.Status)
		return next, d
	}

	d := Decision{
		Outcome: OutcomeCommit,
		Discard: discard,
		Promote: s.PendingProfilePath,
		Status:  copyBool(s.PendingPostStatus),
	}
	return reset(s), d
}

// Staged records the path of an upload staged for a preview of routeKey.
func Staged(s domain.SessionState, routeKey, path string) domain.SessionState {
	if !s.Previewing(routeKey) {
		return s
	}
	s.PendingProfilePath = path
	return s
}

// reset returns s in the EDITING state, keeping the route it belongs to.
func reset(s domain.SessionState) domain.SessionState {
	return domain.SessionState{LastRouteKey: s.LastRouteKey}
}

func pending(s domain.SessionState) []string {
	if s.PendingProfilePath == "" {
		return nil
	}
	return []string{s.PendingProfilePath}
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
