package domain

import "strings"

// Ticket is the rendered, sink-ready representation of a Submission.
type Ticket struct {
	TicketID        string
	WorkItemID      int
	RenderedSubject string
	RenderedHTML    string
	RenderedText    string
	Tags            string
	PriorityRank    int
	WorkItemType    string
	AreaPath        string
}

// workItemTypeByKind maps submission kinds to tracker work-item types.
var workItemTypeByKind = map[Kind]string{
	KindBug:      "Bug",
	KindFeedback: "Task",
	KindFeature:  "Feature",
	KindSupport:  "Issue",
}

// tagsByKind maps kinds to their fixed tracker tags. Support tags are
// composed from the classification, see TagsFor.
var tagsByKind = map[Kind]string{
	KindBug:      "customer-reported;bug",
	KindFeedback: "customer-feedback",
	KindFeature:  "feature-request;customer-submitted",
}

// supportPriorityRank maps the support classification priority to the
// tracker's numeric priority. Unknown values rank as medium.
var supportPriorityRank = map[string]int{
	"low":    4,
	"medium": 3,
	"high":   2,
	"urgent": 1,
}

// appAreaPaths routes feedback-family work items by application name.
var appAreaPaths = map[string]string{
	"ACCM":                 "Acidni Website\\ACCM",
	"Copilot Chat Manager": "Acidni Website\\ACCM",
	"Terprint":             "Acidni Website\\Terprint",
	"Website":              "Acidni Website\\Website",
}

const defaultAreaPath = "Acidni Website\\Other"

// WorkItemTypeFor returns the tracker work-item type for a kind.
func WorkItemTypeFor(kind Kind) string {
	return workItemTypeByKind[kind]
}

// TagsFor derives tracker tags from the kind and classification.
func TagsFor(kind Kind, class Classification) string {
	if kind == KindSupport {
		return "support; " + class.Category + "; " + class.Priority
	}
	return tagsByKind[kind]
}

// PriorityRankFor derives the numeric tracker priority.
func PriorityRankFor(kind Kind, class Classification) int {
	if kind == KindSupport {
		if rank, ok := supportPriorityRank[class.Priority]; ok {
			return rank
		}
		return 3
	}
	if kind == KindBug {
		return 2
	}
	return 3
}

// AreaPathFor returns the tracker area path for a feedback-family work item.
func AreaPathFor(app string) string {
	if path, ok := appAreaPaths[app]; ok {
		return path
	}
	return defaultAreaPath
}

// AppCode condenses an application name into the ticket-id prefix.
func AppCode(app string) string {
	return strings.ToUpper(strings.Join(strings.Fields(app), ""))
}
