package intake

import (
	"strings"
	"unicode/utf8"

	"github.com/acidni/intake-service/internal/domain"
	apperrors "github.com/acidni/intake-service/pkg/util/errorutil"
)

const supportMinBodyLength = 20

// Validate applies the per-form required-field rules to a submission.
// It is pure: the first failing rule determines the returned error and no
// sink is contacted before validation passes. Rules dispatch on the form,
// not the kind, because the feedback form's type field is client-supplied
// and an out-of-family value must not select another form's rules.
func Validate(sub *domain.Submission) error {
	switch sub.Form {
	case domain.FormContact:
		if empty(sub.Name) || empty(sub.Email) || empty(sub.Body) {
			return apperrors.NewValidationError("Missing required fields: name, email, message", nil)
		}
	case domain.FormSupport:
		if empty(sub.Name) || empty(sub.Email) || empty(sub.Classification.Category) ||
			empty(sub.Classification.Priority) || empty(sub.Subject) || empty(sub.Body) {
			return apperrors.NewValidationError("Missing required fields", nil)
		}
		// character count, not bytes
		if utf8.RuneCountInString(sub.Body) < supportMinBodyLength {
			return apperrors.NewValidationError("Description must be at least 20 characters", nil)
		}
	default:
		// The required-field check runs before the closed-enumeration check.
		if empty(string(sub.Kind)) || empty(sub.Subject) || empty(sub.Body) {
			return apperrors.NewValidationError("Missing required fields: type, title, and description are required", nil)
		}
		if !sub.Kind.IsFeedbackFamily() {
			return apperrors.NewValidationError("Invalid type. Must be: bug, feedback, or feature", nil)
		}
		if sub.Kind == domain.KindFeature && !sub.AcceptTerms {
			return apperrors.NewTermsRequired("Feature requests require acceptance of terms")
		}
	}
	return nil
}

func empty(s string) bool {
	return strings.TrimSpace(s) == ""
}
