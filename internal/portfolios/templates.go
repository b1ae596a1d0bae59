package portfolios

import "strings"

// Template describes a visual layout a portfolio can be rendered with.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var templates = []Template{
	{ID: "minimal", Name: "Minimal", Description: "Clean single column with generous whitespace."},
	{ID: "modern", Name: "Modern", Description: "Bold header, card sections and accent colors."},
	{ID: "creative", Name: "Creative", Description: "Asymmetric layout for designers and artists."},
	{ID: "professional", Name: "Professional", Description: "Traditional two column resume style."},
	{ID: "developer", Name: "Developer", Description: "Terminal inspired layout that highlights projects."},
}

// Templates returns the registered templates in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// IsKnownTemplate reports whether id names a registered template.
func IsKnownTemplate(id string) bool {
	id = strings.TrimSpace(id)
	for _, t := range templates {
		if t.ID == id {
			return true
		}
	}
	return false
}
