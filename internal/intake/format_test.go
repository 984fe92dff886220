package intake

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acidni/intake-service/internal/config"
	"github.com/acidni/intake-service/internal/domain"
)

func testFormatter() *Formatter {
	f := NewFormatter(
		config.SiteConfig{Name: "Acidni.net"},
		config.EmailConfig{
			NotificationEmail: "contact@acidni.net",
			SupportEmail:      "support@acidni.net",
		},
		config.TrackerConfig{OrgURL: "https://dev.azure.com/acidni", Project: "Acidni Website", PAT: "x"},
	)
	f.now = func() time.Time { return time.Unix(1700000000, 0) }
	return f
}

func feedbackSubmission() *domain.Submission {
	return &domain.Submission{
		Kind:    domain.KindBug,
		Email:   "user@example.com",
		Subject: "App crashes on startup",
		Body:    "Open the app\nIt crashes",
		Metadata: map[string]string{
			"app":              "Terprint",
			"version":          "1.2.3",
			"userId":           "u-42",
			"platform":         "windows",
			"sessionId":        "s-1",
			"userAgent":        "Mozilla/5.0",
			"screenResolution": "1920x1080",
			"timestamp":        "2024-01-02T03:04:05Z",
			"referrer":         "",
			"buildChannel":     "beta",
		},
	}
}

func TestEscapeHTMLEntities(t *testing.T) {
	got := escapeHTML(`<script>&"'</script>`)
	assert.Equal(t, "&lt;script&gt;&amp;&quot;&#039;&lt;/script&gt;", got)
}

func TestWorkItemEscapesUserText(t *testing.T) {
	sub := feedbackSubmission()
	sub.Body = `<script>&"'</script>`
	item := testFormatter().WorkItem(sub)

	assert.Contains(t, item.Description, "&lt;script&gt;&amp;&quot;&#039;&lt;/script&gt;")
	assert.NotContains(t, item.Description, "<script>")
}

func TestWorkItemFeedbackFamily(t *testing.T) {
	item := testFormatter().WorkItem(feedbackSubmission())

	assert.Equal(t, "Bug", item.Type)
	assert.Equal(t, "[Terprint] App crashes on startup", item.Title)
	assert.Equal(t, "customer-reported;bug", item.Tags)
	assert.Equal(t, 2, item.Priority)
	assert.Equal(t, "Acidni Website\\Terprint", item.AreaPath)

	assert.Contains(t, item.Description, "<h2>User Submission</h2>")
	assert.Contains(t, item.Description, "Open the app<br/>It crashes")
	assert.Contains(t, item.Description, "<h2>Application Details</h2>")
	assert.Contains(t, item.Description, "<td>1.2.3</td>")
	// empty referrer renders the placeholder, never an empty cell
	assert.Contains(t, item.Description, "<td>Direct</td>")
	// non-standard metadata keys land in the additional block
	assert.Contains(t, item.Description, "<h2>Additional Metadata</h2>")
	assert.Contains(t, item.Description, "buildChannel")
	assert.NotContains(t, item.Description, "<h2>Legal</h2>")
}

func TestWorkItemFeatureLegalSection(t *testing.T) {
	sub := feedbackSubmission()
	sub.Kind = domain.KindFeature
	sub.AcceptTerms = true
	item := testFormatter().WorkItem(sub)

	assert.Equal(t, "Feature", item.Type)
	assert.Equal(t, "feature-request;customer-submitted", item.Tags)
	assert.Equal(t, 3, item.Priority)
	assert.Contains(t, item.Description, "<h2>Legal</h2>")
	assert.Contains(t, item.Description, "User accepted IP release terms at 2024-01-02T03:04:05Z")
}

func TestWorkItemAnonymousFallbacks(t *testing.T) {
	sub := &domain.Submission{
		Kind:    domain.KindFeedback,
		Subject: "Nice app",
		Body:    "Keep it up",
	}
	item := testFormatter().WorkItem(sub)

	assert.Contains(t, item.Description, "Not provided")
	assert.Contains(t, item.Description, "Anonymous")
	assert.Contains(t, item.Description, "Not specified")
	assert.Equal(t, "Acidni Website\\Other", item.AreaPath)
}

func TestWorkItemSupport(t *testing.T) {
	sub := &domain.Submission{
		Kind:    domain.KindSupport,
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Company: "Acme",
		Phone:   "555-0100",
		Subject: "Billing question",
		Body:    "I was charged twice\nfor the same invoice.",
		Classification: domain.Classification{
			Category: "billing",
			Priority: "urgent",
		},
		UserAgent:   "Mozilla/5.0",
		SubmittedAt: "2024-01-02T03:04:05Z",
	}
	item := testFormatter().WorkItem(sub)

	assert.Equal(t, "Issue", item.Type)
	assert.Equal(t, "[Support] Billing question", item.Title)
	assert.Equal(t, "support; billing; urgent", item.Tags)
	assert.Equal(t, 1, item.Priority)
	assert.Equal(t, "Acidni Website\\Support", item.AreaPath)
	assert.Contains(t, item.Description, "<strong>From:</strong> Jane Doe (jane@example.com)")
	assert.Contains(t, item.Description, "<strong>Company:</strong> Acme")
	assert.Contains(t, item.Description, "charged twice<br/>for the same invoice.")
	assert.Contains(t, item.Description, "<em>User Agent: Mozilla/5.0</em>")
}

func TestWorkItemSupportOmitsEmptyOptionalBlocks(t *testing.T) {
	sub := &domain.Submission{
		Kind:           domain.KindSupport,
		Name:           "Jane",
		Email:          "jane@example.com",
		Subject:        "Help",
		Body:           "Something is wrong with my account.",
		Classification: domain.Classification{Category: "technical", Priority: "low"},
	}
	item := testFormatter().WorkItem(sub)

	assert.NotContains(t, item.Description, "Company:")
	assert.NotContains(t, item.Description, "Phone:")
	assert.Equal(t, 4, item.Priority)
}

func TestFormattingIsDeterministic(t *testing.T) {
	f := testFormatter()
	sub := feedbackSubmission()

	first := f.WorkItem(sub)
	second := f.WorkItem(sub)
	assert.Equal(t, first, second)

	firstMail := f.Email(sub, "TERPRINT-123", 123)
	secondMail := f.Email(sub, "TERPRINT-123", 123)
	assert.Equal(t, firstMail, secondMail)
}

func TestTicketID(t *testing.T) {
	f := testFormatter()

	t.Run("feedback composes app code and work item id", func(t *testing.T) {
		sub := feedbackSubmission()
		sub.Metadata["app"] = "Copilot Chat Manager"
		assert.Equal(t, "COPILOTCHATMANAGER-456", f.TicketID(sub, 456))
	})

	t.Run("support exposes the raw work item id", func(t *testing.T) {
		sub := &domain.Submission{Kind: domain.KindSupport}
		assert.Equal(t, "789", f.TicketID(sub, 789))
	})

	t.Run("contact synthesizes a timestamp id", func(t *testing.T) {
		sub := &domain.Submission{Kind: domain.KindContact}
		assert.Equal(t, "FB-1700000000", f.TicketID(sub, 0))
	})
}

func TestContactEmail(t *testing.T) {
	f := testFormatter()
	sub := &domain.Submission{
		Kind:  domain.KindContact,
		Name:  "Jane",
		Email: "jane@x.com",
		Body:  "Hello there",
	}
	msg := f.Email(sub, "FB-1700000000", 0)

	assert.Equal(t, "contact@acidni.net", msg.To)
	assert.Equal(t, "[Acidni.net] Contact from Jane - General Inquiry", msg.Subject)
	assert.Empty(t, msg.HTML)
	assert.Contains(t, msg.Body, "New Contact Form Submission from Acidni.net")
	assert.Contains(t, msg.Body, "Company: Not provided")
	assert.Contains(t, msg.Body, "Service Interest: Not specified")
	assert.Contains(t, msg.Body, "Message:\nHello there")
	assert.Contains(t, msg.Body, "Reference: FB-1700000000")

	sub.Service = "Cloud Migration"
	msg = f.Email(sub, "FB-1700000000", 0)
	assert.Equal(t, "[Acidni.net] Contact from Jane - Cloud Migration", msg.Subject)
}

func TestFeedbackEmail(t *testing.T) {
	f := testFormatter()
	msg := f.Email(feedbackSubmission(), "TERPRINT-123", 123)

	assert.Equal(t, "contact@acidni.net", msg.To)
	assert.Equal(t, "New Bug Report: App crashes on startup [TERPRINT-123]", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Work Item:</strong> #123")
	assert.Contains(t, msg.HTML, "https://dev.azure.com/acidni/Acidni Website/_workitems/edit/123")
	require.NotEmpty(t, msg.Body)
	assert.Contains(t, msg.Body, "Ticket ID: TERPRINT-123")
}

func TestFeedbackEmailAnonymous(t *testing.T) {
	f := testFormatter()
	sub := feedbackSubmission()
	sub.Email = ""
	msg := f.Email(sub, "TERPRINT-123", 123)
	assert.Contains(t, msg.HTML, "<strong>From:</strong> Anonymous")
}

func TestSupportEmail(t *testing.T) {
	f := testFormatter()
	sub := &domain.Submission{
		Kind:           domain.KindSupport,
		Name:           "Jane",
		Email:          "jane@example.com",
		Subject:        "Billing question",
		Body:           "I was charged twice for the same invoice.",
		Classification: domain.Classification{Category: "billing", Priority: "high"},
	}
	msg := f.Email(sub, "321", 321)

	assert.Equal(t, "support@acidni.net", msg.To)
	assert.Equal(t, "New Support Request: Billing question", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>Work Item ID:</strong> 321")
	assert.True(t, strings.Contains(msg.Body, "Work Item ID: 321"))
}

func TestCustomMetadataKeysSorted(t *testing.T) {
	keys := customMetadataKeys(map[string]string{
		"zeta":   "1",
		"alpha":  "2",
		"app":    "standard, excluded",
		"userId": "standard, excluded",
	})
	assert.Equal(t, []string{"alpha", "zeta"}, keys)
}
