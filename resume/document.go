// Package resume implements a resume editing session on top of a history
// store: every form edit, theme change, template pick or profile import is a
// committed snapshot that the toolbar can undo and redo.
package resume

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Section identifiers accepted in Document.SectionOrder.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionEducation  = "education"
	SectionAwards     = "awards"
)

var (
	ErrInvalidDocument = errors.New("resume: invalid document")
	ErrEntryNotFound   = errors.New("resume: entry not found")
)

type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type WorkExperience struct {
	ID               string   `json:"id"`
	JobTitle         string   `json:"jobTitle"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	Dates            string   `json:"dates"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Dates       string `json:"dates"`
}

// Award covers awards and certifications.
type Award struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Date         string `json:"date"`
}

// Document is one resume. It is the snapshot type held by the editor history.
type Document struct {
	Contact                 Contact          `json:"contact"`
	ProfessionalSummary     string           `json:"professionalSummary"`
	WorkExperience          []WorkExperience `json:"workExperience"`
	Skills                  []string         `json:"skills"`
	Education               []Education      `json:"education"`
	AwardsAndCertifications []Award          `json:"awardsAndCertifications"`
	SectionOrder            []string         `json:"sectionOrder"`
	Theme                   Theme            `json:"theme"`
	SelectedTemplate        string           `json:"selectedTemplate"`
}

// DefaultSectionOrder returns the section order of a blank resume.
func DefaultSectionOrder() []string {
	return []string{SectionSummary, SectionExperience, SectionSkills, SectionEducation, SectionAwards}
}

// Defaults returns a blank resume.
func Defaults() Document {
	return Document{
		WorkExperience:          []WorkExperience{},
		Skills:                  []string{},
		Education:               []Education{},
		AwardsAndCertifications: []Award{},
		SectionOrder:            DefaultSectionOrder(),
		Theme:                   DefaultTheme(),
		SelectedTemplate:        DefaultTemplateID,
	}
}

// normalize replaces nil collections with empty ones so that documents that
// differ only in nil-ness encode, and therefore compare, identically. The
// caller's backing arrays are never written.
func (d Document) normalize() Document {
	if d.WorkExperience == nil {
		d.WorkExperience = []WorkExperience{}
	}
	copied := false
	for i := range d.WorkExperience {
		if d.WorkExperience[i].Responsibilities != nil {
			continue
		}
		if !copied {
			d.WorkExperience = slices.Clone(d.WorkExperience)
			copied = true
		}
		d.WorkExperience[i].Responsibilities = []string{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.AwardsAndCertifications == nil {
		d.AwardsAndCertifications = []Award{}
	}
	if d.SectionOrder == nil {
		d.SectionOrder = []string{}
	}
	return d
}

// Validate checks the theme, the section order and the template selection.
func (d Document) Validate() error {
	if err := d.Theme.Validate(); err != nil {
		return err
	}
	if err := validateSectionOrder(d.SectionOrder); err != nil {
		return err
	}
	if _, ok := LookupTemplate(d.SelectedTemplate); !ok {
		return fmt.Errorf("%w: unknown template %q", ErrInvalidDocument, d.SelectedTemplate)
	}
	return nil
}

func validateSectionOrder(order []string) error {
	known := DefaultSectionOrder()
	seen := make(map[string]struct{}, len(order))
	for _, section := range order {
		if !slices.Contains(known, section) {
			return fmt.Errorf("%w: unknown section %q", ErrInvalidDocument, section)
		}
		if _, dup := seen[section]; dup {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidDocument, section)
		}
		seen[section] = struct{}{}
	}
	return nil
}

// cleanList trims entries and drops empty ones.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// mergeUnique appends the entries of extra missing from base, keeping order.
func mergeUnique(base, extra []string) []string {
	out := slices.Clone(base)
	if out == nil {
		out = []string{}
	}
	for _, value := range extra {
		if !slices.Contains(out, value) {
			out = append(out, value)
		}
	}
	return out
}
