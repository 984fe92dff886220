package intake

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/botcheck"
	"github.com/acidni/intake-service/internal/config"
	"github.com/acidni/intake-service/internal/domain"
	"github.com/acidni/intake-service/internal/events"
	"github.com/acidni/intake-service/internal/observability"
	"github.com/acidni/intake-service/internal/sink"
	apperrors "github.com/acidni/intake-service/pkg/util/errorutil"
)

// BotVerifier abstracts the bot-mitigation gate.
type BotVerifier interface {
	Verify(ctx context.Context, token string) botcheck.Verdict
}

// sinkPolicy states, per form, which sinks apply, which are mandatory for
// the response, and how bot-verification errors are treated.
type sinkPolicy struct {
	useTracker     bool
	emailMandatory bool
	// botFailOpen lets the submission proceed when the verification call
	// itself errored. A definitive failed verdict still rejects.
	botFailOpen    bool
	failureMessage string
}

var sinkPolicies = map[domain.Form]sinkPolicy{
	domain.FormContact:  {useTracker: false, emailMandatory: true, botFailOpen: false, failureMessage: "Failed to send email"},
	domain.FormFeedback: {useTracker: true, emailMandatory: false, botFailOpen: true, failureMessage: "Failed to process feedback submission"},
	domain.FormSupport:  {useTracker: true, emailMandatory: false, botFailOpen: false, failureMessage: "An error occurred processing your request"},
}

// Result is the caller-visible outcome of a processed submission.
type Result struct {
	TicketID   string
	WorkItemID int
	EmailSent  bool
}

// Pipeline runs validate, verify, format, and dispatch for one submission.
// It holds no per-request state; every invocation is independent.
type Pipeline struct {
	cfg        *config.Config
	verifier   BotVerifier
	tracker    sink.Tracker
	email      sink.Email
	formatter  *Formatter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the pipeline.
type Dependencies struct {
	Verifier   BotVerifier
	Tracker    sink.Tracker
	Email      sink.Email
	Formatter  *Formatter
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewPipeline constructs the pipeline.
func NewPipeline(cfg *config.Config, deps Dependencies) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		verifier:   deps.Verifier,
		tracker:    deps.Tracker,
		email:      deps.Email,
		formatter:  deps.Formatter,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
}

// Process runs the full intake flow for a submission. Validation and
// verification failures short-circuit before any sink is contacted.
func (p *Pipeline) Process(ctx context.Context, sub *domain.Submission) (*Result, error) {
	policy, ok := sinkPolicies[sub.Form]
	if !ok {
		policy = sinkPolicies[domain.FormFeedback]
	}

	if err := Validate(sub); err != nil {
		p.reject(ctx, sub, err)
		return nil, err
	}

	verdict := p.verifier.Verify(ctx, sub.BotToken)
	if !verdict.Pass {
		if policy.botFailOpen && verdict.Errored {
			p.logger.Warn("bot verification errored, continuing",
				zap.String("kind", string(sub.Kind)),
				zap.String("reason", verdict.Reason))
		} else {
			err := apperrors.NewBotVerificationFailed("reCAPTCHA verification failed. Please try again.")
			p.logger.Info("bot verification rejected submission",
				zap.String("kind", string(sub.Kind)),
				zap.Float64("score", verdict.Score),
				zap.String("reason", verdict.Reason))
			p.reject(ctx, sub, err)
			return nil, err
		}
	}

	if policy.useTracker && !p.cfg.Tracker.Configured() {
		err := apperrors.NewMisconfigured("tracker")
		p.logger.Error("tracker sink required but not configured", zap.String("kind", string(sub.Kind)))
		p.reject(ctx, sub, err)
		return nil, err
	}
	if policy.emailMandatory && !p.cfg.Email.Configured() {
		err := apperrors.NewMisconfigured("email")
		p.logger.Error("email sink required but not configured", zap.String("kind", string(sub.Kind)))
		p.reject(ctx, sub, err)
		return nil, err
	}

	p.publish(ctx, events.EventSubmissionAccepted, sub, "", events.SubmissionAcceptedPayload{
		Subject:  sub.Subject,
		App:      sub.Meta("app"),
		BotScore: verdict.Score,
	})

	result := &Result{}
	if policy.useTracker {
		workItemID, err := p.tracker.CreateWorkItem(ctx, p.formatter.WorkItem(sub))
		p.metrics.RecordSinkCall("tracker", err == nil)
		if err != nil {
			p.logger.Error("work item creation failed", zap.String("kind", string(sub.Kind)), zap.Error(err))
			p.metrics.RecordSubmission(string(sub.Kind), "sink_failure")
			return nil, apperrors.NewSinkFailure(policy.failureMessage, err)
		}
		result.WorkItemID = workItemID
		p.logger.Info("work item created",
			zap.String("kind", string(sub.Kind)),
			zap.Int("work_item_id", workItemID))
	}
	result.TicketID = p.formatter.TicketID(sub, result.WorkItemID)

	// The email sink is best-effort for tracked kinds: a failure is logged
	// and the response is unchanged. For the email-only contact kind it is
	// the system of record and a failure fails the request.
	if p.cfg.Email.Configured() {
		msg := p.formatter.Email(sub, result.TicketID, result.WorkItemID)
		err := p.email.Send(ctx, msg)
		p.metrics.RecordSinkCall("email", err == nil)
		if err != nil {
			if policy.emailMandatory {
				p.logger.Error("notification email failed", zap.String("kind", string(sub.Kind)), zap.Error(err))
				p.metrics.RecordSubmission(string(sub.Kind), "sink_failure")
				return nil, apperrors.NewSinkFailure(policy.failureMessage, err)
			}
			p.logger.Warn("notification email failed, continuing",
				zap.String("kind", string(sub.Kind)),
				zap.Error(err))
		} else {
			result.EmailSent = true
		}
	}

	p.metrics.RecordSubmission(string(sub.Kind), "accepted")
	p.publish(ctx, events.EventTicketDispatched, sub, result.TicketID, events.TicketDispatchedPayload{
		WorkItemID: result.WorkItemID,
		EmailSent:  result.EmailSent,
	})
	return result, nil
}

func (p *Pipeline) reject(ctx context.Context, sub *domain.Submission, err error) {
	domainErr := apperrors.ToDomainError(err)
	p.metrics.RecordSubmission(string(sub.Kind), "rejected")
	p.publish(ctx, events.EventSubmissionRejected, sub, "", events.SubmissionRejectedPayload{
		Code:   domainErr.Code,
		Reason: domainErr.Message,
	})
}

func (p *Pipeline) publish(ctx context.Context, eventType events.EventType, sub *domain.Submission, ticketID string, payload interface{}) {
	if p.dispatcher == nil {
		return
	}
	_ = p.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Kind:      sub.Kind,
		TicketID:  ticketID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
