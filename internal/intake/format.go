package intake

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/acidni/intake-service/internal/config"
	"github.com/acidni/intake-service/internal/domain"
	"github.com/acidni/intake-service/internal/sink"
)

// Placeholder text for optional fields so every rendered field is non-empty.
const (
	placeholderNotProvided  = "Not provided"
	placeholderNotSpecified = "Not specified"
	placeholderAnonymous    = "Anonymous"
	placeholderDirect       = "Direct"
)

var feedbackLabels = map[domain.Kind]string{
	domain.KindBug:      "Bug Report",
	domain.KindFeedback: "Feedback",
	domain.KindFeature:  "Feature Request",
}

// htmlEscaper escapes user-supplied text before interpolation into markup.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Formatter renders sink-ready ticket content from validated submissions.
// All rendering is deterministic; only the local fallback ticket id depends
// on the clock.
type Formatter struct {
	site    config.SiteConfig
	email   config.EmailConfig
	tracker config.TrackerConfig
	now     func() time.Time
}

// NewFormatter constructs a Formatter.
func NewFormatter(site config.SiteConfig, email config.EmailConfig, tracker config.TrackerConfig) *Formatter {
	return &Formatter{site: site, email: email, tracker: tracker, now: time.Now}
}

// WorkItem renders the tracker payload for a submission.
func (f *Formatter) WorkItem(sub *domain.Submission) sink.WorkItem {
	item := sink.WorkItem{
		Type:     domain.WorkItemTypeFor(sub.Kind),
		Tags:     domain.TagsFor(sub.Kind, sub.Classification),
		Priority: domain.PriorityRankFor(sub.Kind, sub.Classification),
	}
	if sub.Kind == domain.KindSupport {
		item.Title = "[Support] " + sub.Subject
		item.Description = f.supportDescriptionHTML(sub)
		item.AreaPath = f.tracker.Project + "\\Support"
		return item
	}
	item.Title = "[" + sub.Meta("app") + "] " + sub.Subject
	item.Description = f.feedbackDescriptionHTML(sub)
	item.AreaPath = domain.AreaPathFor(sub.Meta("app"))
	return item
}

// TicketID composes the correlation id returned to the caller.
// Feedback-family ids prefix the tracker id with the condensed app name,
// support exposes the raw work-item id, and the email-only contact kind
// synthesizes a local timestamp id since no tracker call occurs.
func (f *Formatter) TicketID(sub *domain.Submission, workItemID int) string {
	switch {
	case sub.Kind == domain.KindContact:
		return fmt.Sprintf("FB-%d", f.now().Unix())
	case sub.Kind == domain.KindSupport:
		return strconv.Itoa(workItemID)
	default:
		return fmt.Sprintf("%s-%d", domain.AppCode(sub.Meta("app")), workItemID)
	}
}

// Email renders the notification message for a submission. For tracked kinds
// the ticket id and work-item id are already known, so the tracker call must
// complete before this runs.
func (f *Formatter) Email(sub *domain.Submission, ticketID string, workItemID int) sink.Message {
	switch sub.Kind {
	case domain.KindContact:
		return f.contactEmail(sub, ticketID)
	case domain.KindSupport:
		return f.supportEmail(sub, workItemID)
	default:
		return f.feedbackEmail(sub, ticketID, workItemID)
	}
}

func (f *Formatter) contactEmail(sub *domain.Submission, ticketID string) sink.Message {
	service := sub.Service
	if service == "" {
		service = "General Inquiry"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New Contact Form Submission from %s\n\n", f.site.Name)
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	fmt.Fprintf(&b, "Email: %s\n", sub.Email)
	fmt.Fprintf(&b, "Company: %s\n", orElse(sub.Company, placeholderNotProvided))
	fmt.Fprintf(&b, "Service Interest: %s\n\n", orElse(sub.Service, placeholderNotSpecified))
	fmt.Fprintf(&b, "Message:\n%s\n\n", sub.Body)
	fmt.Fprintf(&b, "---\nReference: %s\nSent from %s contact form", ticketID, f.site.Name)

	return sink.Message{
		To:      f.email.NotificationEmail,
		Subject: fmt.Sprintf("[%s] Contact from %s - %s", f.site.Name, sub.Name, service),
		Body:    b.String(),
	}
}

func (f *Formatter) feedbackEmail(sub *domain.Submission, ticketID string, workItemID int) sink.Message {
	label := feedbackLabels[sub.Kind]
	from := orElse(sub.Email, placeholderAnonymous)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New %s Submitted</h2>\n\n", label)
	fmt.Fprintf(&b, "<p><strong>Ticket ID:</strong> %s</p>\n", ticketID)
	fmt.Fprintf(&b, "<p><strong>Work Item:</strong> #%d</p>\n", workItemID)
	fmt.Fprintf(&b, "<p><strong>App:</strong> %s v%s</p>\n", escapeHTML(sub.Meta("app")), escapeHTML(sub.Meta("version")))
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s (%s)</p>\n\n", escapeHTML(from), escapeHTML(sub.Meta("userId")))
	fmt.Fprintf(&b, "<h3>Title</h3>\n<p>%s</p>\n\n", escapeHTML(sub.Subject))
	fmt.Fprintf(&b, "<h3>Description</h3>\n<p>%s</p>\n\n", htmlParagraph(sub.Body))
	fmt.Fprintf(&b, "<hr>\n<p><a href=\"%s/%s/_workitems/edit/%d\">View in tracker</a></p>",
		f.tracker.OrgURL, f.tracker.Project, workItemID)

	var text strings.Builder
	fmt.Fprintf(&text, "New %s Submitted\n\n", label)
	fmt.Fprintf(&text, "Ticket ID: %s\nWork Item: #%d\n", ticketID, workItemID)
	fmt.Fprintf(&text, "App: %s v%s\nFrom: %s (%s)\n\n", sub.Meta("app"), sub.Meta("version"), from, sub.Meta("userId"))
	fmt.Fprintf(&text, "Title:\n%s\n\nDescription:\n%s\n", sub.Subject, sub.Body)

	return sink.Message{
		To:      f.email.NotificationEmail,
		Subject: fmt.Sprintf("New %s: %s [%s]", label, sub.Subject, ticketID),
		Body:    text.String(),
		HTML:    b.String(),
	}
}

func (f *Formatter) supportEmail(sub *domain.Submission, workItemID int) sink.Message {
	var b strings.Builder
	b.WriteString("<h2>New Support Request</h2>\n")
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s (%s)</p>\n", escapeHTML(sub.Name), escapeHTML(sub.Email))
	if sub.Company != "" {
		fmt.Fprintf(&b, "<p><strong>Company:</strong> %s</p>\n", escapeHTML(sub.Company))
	}
	if sub.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>\n", escapeHTML(sub.Phone))
	}
	fmt.Fprintf(&b, "<p><strong>Category:</strong> %s</p>\n", escapeHTML(sub.Classification.Category))
	fmt.Fprintf(&b, "<p><strong>Priority:</strong> %s</p>\n", escapeHTML(sub.Classification.Priority))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>\n", escapeHTML(sub.Subject))
	b.WriteString("<hr/>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", htmlParagraph(sub.Body))
	b.WriteString("<hr/>\n")
	fmt.Fprintf(&b, "<p><strong>Work Item ID:</strong> %d</p>\n", workItemID)
	fmt.Fprintf(&b, "<p><em>Submitted: %s</em></p>", escapeHTML(orElse(sub.SubmittedAt, placeholderNotProvided)))

	var text strings.Builder
	text.WriteString("New Support Request\n\n")
	fmt.Fprintf(&text, "From: %s (%s)\n", sub.Name, sub.Email)
	fmt.Fprintf(&text, "Category: %s\nPriority: %s\nSubject: %s\n\n", sub.Classification.Category, sub.Classification.Priority, sub.Subject)
	fmt.Fprintf(&text, "%s\n\nWork Item ID: %d\n", sub.Body, workItemID)

	return sink.Message{
		To:      f.email.SupportEmail,
		Subject: "New Support Request: " + sub.Subject,
		Body:    text.String(),
		HTML:    b.String(),
	}
}

func (f *Formatter) feedbackDescriptionHTML(sub *domain.Submission) string {
	var b strings.Builder
	b.WriteString("<div>\n<h2>User Submission</h2>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n\n", htmlParagraph(sub.Body))

	b.WriteString("<h2>Contact</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", escapeHTML(orElse(sub.Email, placeholderNotProvided)))
	fmt.Fprintf(&b, "<p><strong>User ID:</strong> %s</p>\n\n", escapeHTML(orElse(sub.Meta("userId"), placeholderAnonymous)))

	b.WriteString("<h2>Application Details</h2>\n<table>\n")
	fmt.Fprintf(&b, "<tr><td><strong>Application:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("app"), placeholderNotSpecified)))
	fmt.Fprintf(&b, "<tr><td><strong>Version:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("version"), placeholderNotSpecified)))
	fmt.Fprintf(&b, "<tr><td><strong>Platform:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("platform"), placeholderNotSpecified)))
	fmt.Fprintf(&b, "<tr><td><strong>Session ID:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("sessionId"), placeholderNotProvided)))
	b.WriteString("</table>\n\n")

	b.WriteString("<h2>Environment</h2>\n<table>\n")
	fmt.Fprintf(&b, "<tr><td><strong>User Agent:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("userAgent"), placeholderNotProvided)))
	fmt.Fprintf(&b, "<tr><td><strong>Screen Resolution:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("screenResolution"), placeholderNotProvided)))
	fmt.Fprintf(&b, "<tr><td><strong>Referrer:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("referrer"), placeholderDirect)))
	fmt.Fprintf(&b, "<tr><td><strong>Submitted:</strong></td><td>%s</td></tr>\n", escapeHTML(orElse(sub.Meta("timestamp"), placeholderNotProvided)))
	b.WriteString("</table>\n")

	if custom := customMetadataKeys(sub.Metadata); len(custom) > 0 {
		b.WriteString("\n<h2>Additional Metadata</h2>\n<table>\n")
		for _, key := range custom {
			fmt.Fprintf(&b, "<tr><td><strong>%s:</strong></td><td>%s</td></tr>\n", escapeHTML(key), escapeHTML(sub.Metadata[key]))
		}
		b.WriteString("</table>\n")
	}

	if sub.Kind == domain.KindFeature {
		b.WriteString("\n<h2>Legal</h2>\n")
		fmt.Fprintf(&b, "<p>User accepted IP release terms at %s</p>\n", escapeHTML(orElse(sub.Meta("timestamp"), placeholderNotProvided)))
	}

	b.WriteString("</div>")
	return b.String()
}

func (f *Formatter) supportDescriptionHTML(sub *domain.Submission) string {
	var b strings.Builder
	b.WriteString("<div>\n")
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s (%s)</p>\n", escapeHTML(sub.Name), escapeHTML(sub.Email))
	if sub.Company != "" {
		fmt.Fprintf(&b, "<p><strong>Company:</strong> %s</p>\n", escapeHTML(sub.Company))
	}
	if sub.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>\n", escapeHTML(sub.Phone))
	}
	fmt.Fprintf(&b, "<p><strong>Category:</strong> %s</p>\n", escapeHTML(sub.Classification.Category))
	fmt.Fprintf(&b, "<p><strong>Priority:</strong> %s</p>\n", escapeHTML(sub.Classification.Priority))
	b.WriteString("<hr/>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", htmlParagraph(sub.Body))
	b.WriteString("<hr/>\n")
	fmt.Fprintf(&b, "<p><em>User Agent: %s</em></p>\n", escapeHTML(orElse(sub.UserAgent, placeholderNotProvided)))
	fmt.Fprintf(&b, "<p><em>Submitted: %s</em></p>\n", escapeHTML(orElse(sub.SubmittedAt, placeholderNotProvided)))
	b.WriteString("</div>")
	return b.String()
}

// customMetadataKeys returns non-standard metadata keys in sorted order so
// rendering stays deterministic.
func customMetadataKeys(metadata map[string]string) []string {
	standard := make(map[string]struct{}, len(domain.StandardMetadataKeys))
	for _, key := range domain.StandardMetadataKeys {
		standard[key] = struct{}{}
	}
	keys := make([]string, 0)
	for key := range metadata {
		if _, ok := standard[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func escapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// htmlParagraph escapes user text and converts newlines to line breaks.
func htmlParagraph(text string) string {
	escaped := escapeHTML(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return strings.ReplaceAll(escaped, "\n", "<br/>")
}

func orElse(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
