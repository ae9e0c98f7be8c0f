package job

import "strings"

// CatalogEntry is a selectable id/label pair surfaced to clients.
type CatalogEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Categories lists the category ids accepted by category-aware sources.
var Categories = []CatalogEntry{
	{ID: "software-dev", Label: "Software Dev", Icon: "fa-code"},
	{ID: "design", Label: "Design", Icon: "fa-palette"},
	{ID: "product", Label: "Product", Icon: "fa-box"},
	{ID: "marketing", Label: "Marketing", Icon: "fa-bullhorn"},
	{ID: "data", Label: "Data", Icon: "fa-database"},
	{ID: "devops", Label: "DevOps & Infra", Icon: "fa-server"},
	{ID: "customer-support", Label: "Support", Icon: "fa-headset"},
	{ID: "sales", Label: "Sales", Icon: "fa-handshake"},
	{ID: "finance-legal", Label: "Finance & Legal", Icon: "fa-scale-balanced"},
	{ID: "hr", Label: "Human Resources", Icon: "fa-users"},
	{ID: "qa", Label: "QA", Icon: "fa-bug"},
	{ID: "writing", Label: "Writing", Icon: "fa-pen"},
}

// JobTypes lists the selectable employment-type ids.
var JobTypes = []CatalogEntry{
	{ID: "full_time", Label: "Full-time", Icon: "fa-briefcase"},
	{ID: "contract", Label: "Contract", Icon: "fa-file-contract"},
	{ID: "part_time", Label: "Part-time", Icon: "fa-clock"},
	{ID: "freelance", Label: "Freelance", Icon: "fa-laptop"},
	{ID: "internship", Label: "Internship", Icon: "fa-graduation-cap"},
}

var jobTypeDisplay = map[string]string{
	"full_time":  "Full-time",
	"part_time":  "Part-time",
	"contract":   "Contract",
	"freelance":  "Freelance",
	"internship": "Internship",
}

// FormatJobType maps a raw source code onto the closed display set.
// Missing codes default to Full-time; an unrecognized-but-present code is
// title-cased with underscores turned into spaces.
func FormatJobType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "undefined" || raw == "null" {
		return "Full-time"
	}
	norm := strings.ReplaceAll(strings.ToLower(raw), "-", "_")
	if v, ok := jobTypeDisplay[norm]; ok {
		return v
	}
	return TitleCase(strings.ReplaceAll(raw, "_", " "))
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		if upperNext && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upperNext = !isWordRune(r)
		b.WriteRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
