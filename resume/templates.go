package resume

import "slices"

const DefaultTemplateID = "classic"

// Template describes a selectable resume layout.
type Template struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

var templates = []Template{
	{ID: "classic", Name: "Classic", Categories: []string{"single-column", "classic", "professional"}},
	{ID: "modern", Name: "Modern", Categories: []string{"single-column", "modern"}},
	{ID: "corporate", Name: "Corporate", Categories: []string{"two-column", "corporate", "professional"}},
	{ID: "professional", Name: "Professional", Categories: []string{"single-column", "professional", "classic"}},
	{ID: "minimalist", Name: "Minimalist", Categories: []string{"single-column", "minimalist", "modern"}},
	{ID: "tech", Name: "Tech", Categories: []string{"single-column", "tech", "modern"}},
	{ID: "creative", Name: "Creative", Categories: []string{"two-column", "creative", "modern"}},
	{ID: "onyx", Name: "Onyx", Categories: []string{"two-column", "dark", "modern"}},
	{ID: "executive", Name: "Executive", Categories: []string{"two-column", "professional", "corporate"}},
	{ID: "cosmo", Name: "Cosmo", Categories: []string{"single-column", "photo", "modern"}},
	{ID: "galaxy", Name: "Galaxy", Categories: []string{"two-column", "modern", "creative"}},
	{ID: "academic", Name: "Academic", Categories: []string{"single-column", "academic", "classic"}},
	{ID: "infographic", Name: "Infographic", Categories: []string{"two-column", "creative", "modern"}},
	{ID: "vanguard", Name: "Vanguard", Categories: []string{"single-column", "bold", "modern"}},
	{ID: "spearmint", Name: "Spearmint", Categories: []string{"two-column", "creative", "modern"}},
	{ID: "journal", Name: "Journal", Categories: []string{"single-column", "classic", "academic"}},
	{ID: "matrix", Name: "Matrix", Categories: []string{"single-column", "dark", "tech"}},
	{ID: "plum", Name: "Plum", Categories: []string{"single-column", "modern", "elegant"}},
	{ID: "blueprint", Name: "Blueprint", Categories: []string{"two-column", "tech", "professional"}},
}

// Templates returns the template catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	for i, t := range templates {
		t.Categories = slices.Clone(t.Categories)
		out[i] = t
	}
	return out
}

// LookupTemplate finds a template by ID.
func LookupTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			t.Categories = slices.Clone(t.Categories)
			return t, true
		}
	}
	return Template{}, false
}

// TemplatesInCategory filters the catalog by category.
func TemplatesInCategory(category string) []Template {
	var out []Template
	for _, t := range Templates() {
		if slices.Contains(t.Categories, category) {
			out = append(out, t)
		}
	}
	return out
}
