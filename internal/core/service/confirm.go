package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/blogdesk/admin-api/internal/core/domain"
	"github.com/blogdesk/admin-api/internal/core/flow"
	"github.com/blogdesk/admin-api/internal/core/forms"
	"github.com/blogdesk/admin-api/internal/core/ports"
)

// Upload is a file attached to a form submission.
type Upload struct {
	Name string
	Body io.Reader
}

// Submission is one POST against a confirmation form.
type Submission struct {
	RouteKey string
	Intent   flow.Intent
	// Errors is the validation result of the submitted values.
	Errors forms.Errors
	Upload *Upload
	// Status is the submitted checkbox value of post forms.
	Status *bool
	// Precheck, when set, must pass before a staged upload is promoted.
	Precheck func(ctx context.Context) error
	// Checkpoint, when set, persists the post-commit state before anything is written.
	Checkpoint func(ctx context.Context, state domain.SessionState) error
}

// CommitInput carries the staged values the commit callback must apply.
type CommitInput struct {
	// ProfilePath is the permanent key of an upload promoted in this cycle.
	ProfilePath string
	// Status is the checkbox value staged during preview.
	Status *bool
}

// CommitFunc persists the submission once the user confirmed it.
type CommitFunc func(ctx context.Context, in CommitInput) error

// ConfirmResult tells the handler how to answer the submission.
type ConfirmResult struct {
	Outcome flow.Outcome
	Errors  forms.Errors
}

// Confirmer runs the effects decided by the flow package against the staging area.
type Confirmer struct {
	temp   ports.TempFileStore
	logger zerolog.Logger
}

func NewConfirmer(temp ports.TempFileStore, logger zerolog.Logger) *Confirmer {
	return &Confirmer{temp: temp, logger: logger}
}

// Run advances the workflow for sub. Failures while staging, promoting or
// committing become a form-level error and leave the session in EDITING.
// Only not-found and forbidden commit failures are returned as errors.
func (c *Confirmer) Run(ctx context.Context, state domain.SessionState, sub Submission, commit CommitFunc) (domain.SessionState, ConfirmResult, error) {
	next, d := flow.Decide(state, flow.Input{
		RouteKey:  sub.RouteKey,
		Intent:    sub.Intent,
		Valid:     sub.Errors.OK(),
		HasUpload: sub.Upload != nil,
		Status:    sub.Status,
	})

	c.Discard(ctx, d.Discard)

	log := c.logger.With().Str("route", sub.RouteKey).Str("outcome", d.Outcome.String()).Logger()

	switch d.Outcome {
	case flow.OutcomeInvalid:
		return next, ConfirmResult{Outcome: d.Outcome, Errors: sub.Errors}, nil

	case flow.OutcomePreview:
		if d.StageUpload {
			path, err := c.temp.Stage(ctx, sub.Upload.Name, sub.Upload.Body)
			if err != nil {
				log.Error().Err(err).Msg("failed to stage upload")
				return domain.SessionState{LastRouteKey: sub.RouteKey}, failed(err), nil
			}
			next = flow.Staged(next, sub.RouteKey, path)
		}
		return next, ConfirmResult{Outcome: d.Outcome}, nil

	case flow.OutcomeCommit:
		in := CommitInput{Status: d.Status}
		if sub.Precheck != nil {
			if err := sub.Precheck(ctx); err != nil {
				c.Discard(ctx, []string{d.Promote})
				return c.commitFailed(log, next, err)
			}
		}
		if sub.Checkpoint != nil {
			if err := sub.Checkpoint(ctx, next); err != nil {
				log.Error().Err(err).Msg("failed to save session before commit")
				return state, ConfirmResult{Outcome: flow.OutcomeInvalid}, err
			}
		}
		if d.Promote != "" {
			permanent, err := c.temp.Promote(ctx, d.Promote)
			if err != nil {
				log.Error().Err(err).Str("staged", d.Promote).Msg("failed to promote upload")
				return next, failed(err), nil
			}
			in.ProfilePath = permanent
		}
		if err := commit(ctx, in); err != nil {
			if in.ProfilePath != "" {
				log.Warn().Str("permanent", in.ProfilePath).Msg("upload promoted for a failed commit")
			}
			return c.commitFailed(log, next, err)
		}
		log.Info().Msg("submission committed")
		return next, ConfirmResult{Outcome: d.Outcome}, nil
	}

	return next, ConfirmResult{Outcome: d.Outcome}, nil
}

func (c *Confirmer) commitFailed(log zerolog.Logger, next domain.SessionState, err error) (domain.SessionState, ConfirmResult, error) {
	if isTerminal(err) {
		return next, ConfirmResult{Outcome: flow.OutcomeInvalid}, err
	}
	log.Warn().Err(err).Msg("commit failed")
	return next, failed(err), nil
}

// Discard removes staged uploads, logging failures. Empty paths are skipped.
func (c *Confirmer) Discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := c.temp.Discard(ctx, p); err != nil {
			c.logger.Warn().Err(err).Str("staged", p).Msg("failed to discard staged upload")
		}
	}
}

func failed(err error) ConfirmResult {
	var fe forms.Errors
	if errors.As(err, &fe) {
		return ConfirmResult{Outcome: flow.OutcomeInvalid, Errors: fe}
	}
	return ConfirmResult{Outcome: flow.OutcomeInvalid, Errors: forms.NonField(err.Error())}
}

func isTerminal(err error) bool {
	return errors.Is(err, domain.ErrPostNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrForbidden)
}
