package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/botcheck"
	"github.com/acidni/intake-service/internal/config"
	"github.com/acidni/intake-service/internal/domain"
	"github.com/acidni/intake-service/internal/observability"
	"github.com/acidni/intake-service/internal/sink"
	apperrors "github.com/acidni/intake-service/pkg/util/errorutil"
)

type fakeVerifier struct {
	verdict botcheck.Verdict
	calls   int
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) botcheck.Verdict {
	f.calls++
	return f.verdict
}

type fakeTracker struct {
	id    int
	err   error
	calls int
	last  sink.WorkItem
}

func (f *fakeTracker) CreateWorkItem(ctx context.Context, item sink.WorkItem) (int, error) {
	f.calls++
	f.last = item
	return f.id, f.err
}

type fakeEmail struct {
	err   error
	calls int
	last  sink.Message
}

func (f *fakeEmail) Send(ctx context.Context, msg sink.Message) error {
	f.calls++
	f.last = msg
	return f.err
}

type pipelineFixture struct {
	pipeline *Pipeline
	verifier *fakeVerifier
	tracker  *fakeTracker
	email    *fakeEmail
	metrics  *observability.Metrics
}

func newFixture(cfg *config.Config) *pipelineFixture {
	verifier := &fakeVerifier{verdict: botcheck.Verdict{Pass: true}}
	tracker := &fakeTracker{id: 123}
	email := &fakeEmail{}
	metrics := observability.NewMetrics()
	pipeline := NewPipeline(cfg, Dependencies{
		Verifier:  verifier,
		Tracker:   tracker,
		Email:     email,
		Formatter: NewFormatter(cfg.Site, cfg.Email, cfg.Tracker),
		Metrics:   metrics,
		Logger:    zap.NewNop(),
	})
	return &pipelineFixture{pipeline: pipeline, verifier: verifier, tracker: tracker, email: email, metrics: metrics}
}

func fullConfig() *config.Config {
	return &config.Config{
		Site: config.SiteConfig{Name: "Acidni.net"},
		Email: config.EmailConfig{
			Endpoint:          "https://apim.example.net/communications/send-email",
			APIKey:            "key",
			NotificationEmail: "contact@acidni.net",
			SupportEmail:      "support@acidni.net",
		},
		Tracker: config.TrackerConfig{
			OrgURL:  "https://dev.azure.com/acidni",
			Project: "Acidni Website",
			PAT:     "pat",
		},
	}
}

func feedbackSub() *domain.Submission {
	return &domain.Submission{
		Form:     domain.FormFeedback,
		Kind:     domain.KindFeedback,
		Subject:  "Great app",
		Body:     "Works well",
		Metadata: map[string]string{"app": "Terprint"},
	}
}

func TestProcessRejectsInvalidWithoutSinkCalls(t *testing.T) {
	fx := newFixture(fullConfig())

	_, err := fx.pipeline.Process(context.Background(), &domain.Submission{Form: domain.FormContact, Kind: domain.KindContact})
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
	assert.Zero(t, fx.tracker.calls)
	assert.Zero(t, fx.email.calls)
	assert.Zero(t, fx.verifier.calls)
	assert.Equal(t, int64(1), fx.metrics.SubmissionCount("contact", "rejected"))
}

func TestProcessFeedbackHappyPath(t *testing.T) {
	fx := newFixture(fullConfig())

	result, err := fx.pipeline.Process(context.Background(), feedbackSub())
	require.NoError(t, err)
	assert.Equal(t, 123, result.WorkItemID)
	assert.Equal(t, "TERPRINT-123", result.TicketID)
	assert.True(t, result.EmailSent)
	assert.Equal(t, 1, fx.tracker.calls)
	assert.Equal(t, 1, fx.email.calls)
	// email subject embeds the ticket id, so the tracker result came first
	assert.Contains(t, fx.email.last.Subject, "[TERPRINT-123]")
	assert.Equal(t, int64(1), fx.metrics.SubmissionCount("feedback", "accepted"))
}

func TestProcessContactSkipsTracker(t *testing.T) {
	fx := newFixture(fullConfig())
	sub := &domain.Submission{Form: domain.FormContact, Kind: domain.KindContact, Name: "Jane", Email: "jane@x.com", Body: "Hello"}

	result, err := fx.pipeline.Process(context.Background(), sub)
	require.NoError(t, err)
	assert.Zero(t, fx.tracker.calls)
	assert.Equal(t, 1, fx.email.calls)
	assert.Zero(t, result.WorkItemID)
	assert.True(t, len(result.TicketID) > 3 && result.TicketID[:3] == "FB-")
}

func TestSinkFailureAsymmetry(t *testing.T) {
	t.Run("tracker failure is fatal for feedback", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.tracker.err = errors.New("boom")

		_, err := fx.pipeline.Process(context.Background(), feedbackSub())
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, 500, domainErr.HTTPStatus)
		assert.Equal(t, "SINK_FAILURE", domainErr.Code)
		assert.Equal(t, "Failed to process feedback submission", domainErr.Message)
		assert.Zero(t, fx.email.calls, "email must not be attempted after a fatal tracker failure")
	})

	t.Run("email failure is non-fatal for feedback", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.email.err = errors.New("smtp down")

		result, err := fx.pipeline.Process(context.Background(), feedbackSub())
		require.NoError(t, err)
		assert.Equal(t, "TERPRINT-123", result.TicketID)
		assert.False(t, result.EmailSent)
	})

	t.Run("email failure is fatal for contact", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.email.err = errors.New("smtp down")
		sub := &domain.Submission{Form: domain.FormContact, Kind: domain.KindContact, Name: "Jane", Email: "jane@x.com", Body: "Hello"}

		_, err := fx.pipeline.Process(context.Background(), sub)
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "SINK_FAILURE", domainErr.Code)
		assert.Equal(t, "Failed to send email", domainErr.Message)
	})
}

func TestMisconfiguredSinks(t *testing.T) {
	t.Run("tracked kind without tracker config", func(t *testing.T) {
		cfg := fullConfig()
		cfg.Tracker = config.TrackerConfig{}
		fx := newFixture(cfg)

		_, err := fx.pipeline.Process(context.Background(), feedbackSub())
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "SERVER_MISCONFIGURED", domainErr.Code)
		assert.Equal(t, "Server configuration error", domainErr.Message)
		assert.Equal(t, 500, domainErr.HTTPStatus)
		assert.Zero(t, fx.tracker.calls)
	})

	t.Run("contact without email config", func(t *testing.T) {
		cfg := fullConfig()
		cfg.Email.APIKey = ""
		fx := newFixture(cfg)
		sub := &domain.Submission{Form: domain.FormContact, Kind: domain.KindContact, Name: "Jane", Email: "jane@x.com", Body: "Hello"}

		_, err := fx.pipeline.Process(context.Background(), sub)
		require.Error(t, err)
		assert.Equal(t, "SERVER_MISCONFIGURED", apperrors.ToDomainError(err).Code)
	})

	t.Run("feedback without email config still succeeds", func(t *testing.T) {
		cfg := fullConfig()
		cfg.Email = config.EmailConfig{}
		fx := newFixture(cfg)

		result, err := fx.pipeline.Process(context.Background(), feedbackSub())
		require.NoError(t, err)
		assert.Zero(t, fx.email.calls)
		assert.False(t, result.EmailSent)
	})
}

func TestBotVerificationPolicies(t *testing.T) {
	supportSub := func() *domain.Submission {
		return &domain.Submission{
			Form:           domain.FormSupport,
		Kind:           domain.KindSupport,
			Name:           "Jane",
			Email:          "jane@example.com",
			Subject:        "Help",
			Body:           "Something is wrong with my account.",
			Classification: domain.Classification{Category: "technical", Priority: "low"},
		}
	}

	t.Run("support rejects a failed verdict", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.verifier.verdict = botcheck.Verdict{Pass: false, Score: 0.2, Reason: "verification failed"}

		_, err := fx.pipeline.Process(context.Background(), supportSub())
		require.Error(t, err)
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "BOT_VERIFICATION_FAILED", domainErr.Code)
		assert.Equal(t, "reCAPTCHA verification failed. Please try again.", domainErr.Message)
		assert.Zero(t, fx.tracker.calls)
		assert.Zero(t, fx.email.calls)
	})

	t.Run("support rejects a verification error", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.verifier.verdict = botcheck.Verdict{Pass: false, Errored: true, Reason: "verification error"}

		_, err := fx.pipeline.Process(context.Background(), supportSub())
		require.Error(t, err)
		assert.Zero(t, fx.tracker.calls)
	})

	t.Run("feedback continues past a verification error", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.verifier.verdict = botcheck.Verdict{Pass: false, Errored: true, Reason: "verification error"}

		result, err := fx.pipeline.Process(context.Background(), feedbackSub())
		require.NoError(t, err)
		assert.Equal(t, 1, fx.tracker.calls)
		assert.Equal(t, "TERPRINT-123", result.TicketID)
	})

	t.Run("feedback still rejects a definitive failed verdict", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.verifier.verdict = botcheck.Verdict{Pass: false, Score: 0.1, Reason: "verification failed"}

		_, err := fx.pipeline.Process(context.Background(), feedbackSub())
		require.Error(t, err)
		assert.Zero(t, fx.tracker.calls)
	})

	t.Run("unconfigured gate passes everything through", func(t *testing.T) {
		fx := newFixture(fullConfig())
		fx.verifier.verdict = botcheck.Verdict{Pass: true, Reason: "verification not configured"}

		_, err := fx.pipeline.Process(context.Background(), supportSub())
		require.NoError(t, err)
		assert.Equal(t, 1, fx.verifier.calls)
		assert.Equal(t, 1, fx.tracker.calls)
	})
}

func TestProcessSupportResult(t *testing.T) {
	fx := newFixture(fullConfig())
	fx.tracker.id = 987
	sub := &domain.Submission{
		Form:           domain.FormSupport,
		Kind:           domain.KindSupport,
		Name:           "Jane",
		Email:          "jane@example.com",
		Subject:        "Help",
		Body:           "Something is wrong with my account.",
		Classification: domain.Classification{Category: "technical", Priority: "medium"},
	}

	result, err := fx.pipeline.Process(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, 987, result.WorkItemID)
	assert.Equal(t, "987", result.TicketID)
	assert.Equal(t, "support@acidni.net", fx.email.last.To)
	assert.Equal(t, "support; technical; medium", fx.tracker.last.Tags)
	assert.Equal(t, 3, fx.tracker.last.Priority)
}
