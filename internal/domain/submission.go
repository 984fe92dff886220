package domain

// Form identifies the public endpoint a submission arrived through. Forms
// are assigned server-side by the handlers; Kind on the feedback form is
// client-supplied and must be validated against the feedback family.
type Form string

const (
	FormContact  Form = "contact"
	FormFeedback Form = "feedback"
	FormSupport  Form = "support"
)

// Kind enumerates the supported submission kinds.
type Kind string

const (
	KindContact  Kind = "contact"
	KindBug      Kind = "bug"
	KindFeedback Kind = "feedback"
	KindFeature  Kind = "feature"
	KindSupport  Kind = "support"
)

// IsFeedbackFamily reports whether the kind arrived via the feedback endpoint.
func (k Kind) IsFeedbackFamily() bool {
	return k == KindBug || k == KindFeedback || k == KindFeature
}

// Valid reports whether the kind is part of the closed enumeration.
func (k Kind) Valid() bool {
	switch k {
	case KindContact, KindBug, KindFeedback, KindFeature, KindSupport:
		return true
	}
	return false
}

// Classification captures the support-only category and priority fields.
type Classification struct {
	Category string
	Priority string
}

// Submission is the normalized in-memory representation of one inbound form post.
// It lives only for the duration of a single request; durable storage is
// delegated to the work-item tracker sink.
type Submission struct {
	Form           Form
	Kind           Kind
	Name           string
	Email          string
	Company        string
	Phone          string
	Service        string
	Subject        string
	Body           string
	Classification Classification
	Metadata       map[string]string
	AcceptTerms    bool
	BotToken       string
	UserAgent      string
	SubmittedAt    string
}

// StandardMetadataKeys are rendered in fixed ticket sections; anything else
// in Metadata lands in the additional-metadata block.
var StandardMetadataKeys = []string{
	"app", "version", "userId", "platform", "sessionId",
	"userAgent", "screenResolution", "timestamp", "referrer",
}

// Meta returns a metadata value or the empty string.
func (s *Submission) Meta(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
