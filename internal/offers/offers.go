// Package offers normalizes heterogeneous marketplace-offer JSON files
// into the fixed schema the static site generator consumes.
package offers

import (
	"regexp"
	"strings"
)

const (
	maxFeatures = 6
	maxPricing  = 4

	defaultIcon   = "🌿"
	defaultStatus = "preview"
)

// linkKeys are the only link entries carried into the normalized offer.
var linkKeys = []string{"website", "marketplace", "sales", "docs", "contact"}

// Feature is one product capability bullet.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Pricing is one pricing plan entry.
type Pricing struct {
	Plan    string `json:"plan"`
	Price   string `json:"price,omitempty"`
	Details string `json:"details,omitempty"`
}

// Source is the loose shape found in upstream offer files. Every field is
// optional; Normalize coalesces the variants into an Offer.
type Source struct {
	Slug             string            `json:"slug"`
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Title            string            `json:"title"`
	Tagline          string            `json:"tagline"`
	Summary          string            `json:"summary"`
	ShortDescription string            `json:"shortDescription"`
	Description      string            `json:"description"`
	LongDescription  string            `json:"longDescription"`
	Icon             string            `json:"icon"`
	Status           string            `json:"status"`
	Audience         []string          `json:"audience"`
	Features         []Feature         `json:"features"`
	Pricing          []Pricing         `json:"pricing"`
	Links            map[string]string `json:"links"`
}

// Offer is the fixed output schema.
type Offer struct {
	Slug        string            `json:"slug"`
	Name        string            `json:"name"`
	Tagline     string            `json:"tagline"`
	Summary     string            `json:"summary"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
	Status      string            `json:"status"`
	Audience    []string          `json:"audience,omitempty"`
	Features    []Feature         `json:"features,omitempty"`
	Pricing     []Pricing         `json:"pricing,omitempty"`
	Links       map[string]string `json:"links"`
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses non-alphanumeric runs to hyphens.
func Slugify(name string) string {
	slug := slugInvalid.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// Normalize coalesces a loose source into the fixed offer shape. Missing
// fields fall back through the documented alternatives; list fields are
// truncated to the schema limits.
func Normalize(src Source) Offer {
	slug := src.Slug
	if slug == "" {
		slug = src.ID
	}
	if slug == "" {
		slug = Slugify(coalesce(src.Title, src.Name))
	}

	name := coalesce(src.Name, src.Title, slug)
	summary := coalesce(src.Summary, src.ShortDescription)
	description := coalesce(src.Description, src.LongDescription, summary)

	offer := Offer{
		Slug:        slug,
		Name:        name,
		Tagline:     src.Tagline,
		Summary:     summary,
		Description: description,
		Icon:        coalesce(src.Icon, defaultIcon),
		Status:      normalizeStatus(src.Status),
		Audience:    src.Audience,
		Links:       pickLinks(src.Links),
	}
	if len(src.Features) > 0 {
		offer.Features = truncateFeatures(src.Features)
	}
	if len(src.Pricing) > 0 {
		offer.Pricing = truncatePricing(src.Pricing)
	}
	return offer
}

// normalizeStatus maps upstream publishing labels onto the site's status
// vocabulary. Unrecognized non-empty values pass through unchanged.
func normalizeStatus(raw string) string {
	status := strings.ToLower(raw)
	switch {
	case strings.Contains(status, "publish"), strings.Contains(status, "public"), strings.Contains(status, "live"):
		return "available"
	case strings.Contains(status, "preview"):
		return "preview"
	case strings.Contains(status, "coming"), strings.Contains(status, "soon"), strings.Contains(status, "plan"):
		return "coming-soon"
	case raw != "":
		return raw
	}
	return defaultStatus
}

func truncateFeatures(features []Feature) []Feature {
	if len(features) > maxFeatures {
		return features[:maxFeatures]
	}
	return features
}

func truncatePricing(pricing []Pricing) []Pricing {
	if len(pricing) > maxPricing {
		return pricing[:maxPricing]
	}
	return pricing
}

func pickLinks(links map[string]string) map[string]string {
	out := make(map[string]string)
	for _, key := range linkKeys {
		if val, ok := links[key]; ok {
			out[key] = val
		}
	}
	return out
}

func coalesce(values ...string) string {
	for _, val := range values {
		if val != "" {
			return val
		}
	}
	return ""
}
