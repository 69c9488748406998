package resume

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-history/internal/hydrate"
	"github.com/goliatone/go-history/layering"
)

// ImportedContact holds the contact fields a profile import may provide.
type ImportedContact struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

type ImportedExperience struct {
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Dates       string `json:"dates"`
	Description string `json:"description"`
}

type ImportedEducation struct {
	Degree       string `json:"degree"`
	Institution  string `json:"institution"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	Dates        string `json:"dates"`
}

// ImportedProfile is a professional profile fetched from an external source.
// Nil sections are left untouched when applied.
type ImportedProfile struct {
	Contact        *ImportedContact     `json:"contact,omitempty"`
	Headline       string               `json:"headline,omitempty"`
	AboutSection   string               `json:"aboutSection,omitempty"`
	WorkExperience []ImportedExperience `json:"workExperience,omitempty"`
	Education      []ImportedEducation  `json:"education,omitempty"`
	Skills         []string             `json:"skills,omitempty"`
}

// MergeImport applies profile to doc:
//   - contact fields present in the import replace the current ones
//   - the about section, or else the headline, becomes the summary
//   - experiences and education are appended with fresh IDs; description
//     lines become responsibilities, the field of study is folded into the
//     degree and the unknown education location is recorded as "N/A"
//   - skills are merged without duplicates
func MergeImport(doc Document, profile ImportedProfile, newID func() string) Document {
	if profile.Contact != nil {
		c := profile.Contact
		doc.Contact = layering.Overlay(doc.Contact, Contact{
			Name:     c.Name,
			Email:    c.Email,
			Phone:    c.Phone,
			LinkedIn: c.LinkedIn,
			GitHub:   c.GitHub,
			Website:  c.Website,
			PhotoURL: c.PhotoURL,
		})
	}
	switch {
	case profile.AboutSection != "":
		doc.ProfessionalSummary = profile.AboutSection
	case profile.Headline != "":
		doc.ProfessionalSummary = profile.Headline
	}
	for _, exp := range profile.WorkExperience {
		doc.WorkExperience = append(doc.WorkExperience, WorkExperience{
			ID:               newID(),
			JobTitle:         exp.JobTitle,
			Company:          exp.Company,
			Location:         exp.Location,
			Dates:            exp.Dates,
			Responsibilities: cleanList(strings.Split(exp.Description, "\n")),
		})
	}
	for _, edu := range profile.Education {
		degree := edu.Degree
		if edu.FieldOfStudy != "" {
			degree += " in " + edu.FieldOfStudy
		}
		doc.Education = append(doc.Education, Education{
			ID:          newID(),
			Degree:      degree,
			Institution: edu.Institution,
			Location:    "N/A",
			Dates:       edu.Dates,
		})
	}
	if profile.Skills != nil {
		doc.Skills = mergeUnique(doc.Skills, cleanList(profile.Skills))
	}
	return doc.normalize()
}

// ApplyImport merges profile into the current document as a single edit.
func (e *Editor) ApplyImport(profile ImportedProfile) bool {
	return e.update("Import profile", func(doc Document) Document {
		return MergeImport(doc, profile, e.newID)
	})
}

var importDecoder = hydrate.NewDecoder(
	hydrate.WithPostHook[ImportedProfile](func(_ hydrate.Context, p *ImportedProfile) error {
		if p.Contact != nil && strings.TrimSpace(p.Contact.Name) == "" {
			return fmt.Errorf("imported contact has no name")
		}
		return nil
	}),
)

// DecodeImport converts a loosely typed import payload, e.g. decoded JSON from
// an external API, into an ImportedProfile.
func DecodeImport(payload map[string]any) (ImportedProfile, error) {
	return importDecoder.Decode(hydrate.Context{Source: "import"}, payload)
}

// ImportPayload decodes payload and applies it.
func (e *Editor) ImportPayload(payload map[string]any) (bool, error) {
	profile, err := DecodeImport(payload)
	if err != nil {
		return false, err
	}
	return e.ApplyImport(profile), nil
}

var documentDecoder = hydrate.NewDecoder(
	hydrate.WithDisallowUnknownFields[Document](),
	hydrate.WithPostHook[Document](func(_ hydrate.Context, doc *Document) error {
		*doc = doc.normalize()
		return doc.Validate()
	}),
)

// DecodeDocument parses a stored JSON document, rejecting unknown keys and
// invalid themes, sections or templates.
func DecodeDocument(raw []byte) (Document, error) {
	return documentDecoder.DecodeJSON(hydrate.Context{Source: "document"}, raw)
}
