package models

import (
	"regexp"
	"strings"
	"time"
)

// Project statuses. DateLivraison is only meaningful for completed projects.
const (
	StatusCompleted  = "Terminé"
	StatusInDelivery = "En cours de livraison"
)

// ProjectTypes lists the accepted typeProjet values.
var ProjectTypes = []string{"Villa", "Appartement", "Bureau"}

// ProjectStatuses lists the accepted statut values.
var ProjectStatuses = []string{StatusCompleted, StatusInDelivery}

// Project represents a portfolio project record as persisted in the record
// store. The structured fields are authoritative; Details is a derived
// projection regenerated on every save and must never be edited by hand.
type Project struct {
	ID               string     `json:"id" firestore:"-"`
	Title            string     `json:"title" firestore:"title"`
	Description      string     `json:"description" firestore:"description"`
	Slug             string     `json:"slug" firestore:"slug"`
	TypeProjet       string     `json:"typeProjet" firestore:"typeProjet"`
	SurfaceHabitable string     `json:"surfaceHabitable" firestore:"surfaceHabitable"`
	SurfaceTerrain   string     `json:"surfaceTerrain" firestore:"surfaceTerrain"`
	MontantTravaux   string     `json:"montantTravaux" firestore:"montantTravaux"`
	Statut           string     `json:"statut" firestore:"statut"`
	DateLivraison    string     `json:"dateLivraison,omitempty" firestore:"dateLivraison"`
	Details          []string   `json:"details" firestore:"details"`
	Image            string     `json:"image" firestore:"image"`
	Images           []string   `json:"images" firestore:"images"`
	Published        bool       `json:"published" firestore:"published"`
	CreatedAt        *time.Time `json:"createdAt,omitempty" firestore:"createdAt"`
}

// ProjectForm carries the editable structured fields of a project, as shown
// in the authoring form. Surface values are held without the unit suffix.
type ProjectForm struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Slug             string `json:"slug"`
	TypeProjet       string `json:"typeProjet"`
	SurfaceHabitable string `json:"surfaceHabitable"`
	SurfaceTerrain   string `json:"surfaceTerrain"`
	MontantTravaux   string `json:"montantTravaux"`
	Statut           string `json:"statut"`
	DateLivraison    string `json:"dateLivraison"`
}

var (
	unitM2Exact = regexp.MustCompile(`\s*m²`)
	unitM2ASCII = regexp.MustCompile(`(?i)\s*m2`)
)

// AppendSurfaceUnit appends the " m²" suffix to a surface value unless the
// value already carries m² or m2 (case-insensitive). Idempotent; empty values
// pass through unchanged.
func AppendSurfaceUnit(value string) string {
	if value == "" {
		return value
	}
	cleaned := strings.TrimSpace(value)
	if strings.Contains(cleaned, "m²") || strings.Contains(strings.ToLower(cleaned), "m2") {
		return cleaned
	}
	return cleaned + " m²"
}

// StripSurfaceUnit removes any m²/m2 suffix (case-insensitive) and
// surrounding whitespace from a surface value.
func StripSurfaceUnit(value string) string {
	if value == "" {
		return value
	}
	stripped := unitM2Exact.ReplaceAllString(value, "")
	stripped = unitM2ASCII.ReplaceAllString(stripped, "")
	return strings.TrimSpace(stripped)
}

// Detail line labels, in the order the projection emits them.
const (
	labelTypeProjet       = "Type de projet"
	labelSurfaceHabitable = "Surface habitable"
	labelSurfaceTerrain   = "Surface du terrain"
	labelMontantTravaux   = "Montant des travaux"
	labelStatut           = "Statut"
	labelDateLivraison    = "Date de livraison"
)

// BuildDetails generates the human-readable detail lines from the structured
// fields, in a fixed order, skipping empty fields. The delivery date only
// appears for completed projects.
func (p Project) BuildDetails() []string {
	details := make([]string, 0, 6)
	if p.TypeProjet != "" {
		details = append(details, labelTypeProjet+" : "+p.TypeProjet)
	}
	if p.SurfaceHabitable != "" {
		details = append(details, labelSurfaceHabitable+" : "+AppendSurfaceUnit(p.SurfaceHabitable))
	}
	if p.SurfaceTerrain != "" {
		details = append(details, labelSurfaceTerrain+" : "+AppendSurfaceUnit(p.SurfaceTerrain))
	}
	if p.MontantTravaux != "" {
		details = append(details, labelMontantTravaux+" : "+p.MontantTravaux)
	}
	if p.Statut != "" {
		details = append(details, labelStatut+" : "+p.Statut)
	}
	if p.Statut == StatusCompleted && p.DateLivraison != "" {
		details = append(details, labelDateLivraison+" : "+p.DateLivraison)
	}
	return details
}

// Normalize enforces the record invariants before a save: the delivery date
// is cleared unless the project is completed, the detail lines are
// regenerated from the structured fields, and the cover image tracks the
// first entry of the image list.
func (p *Project) Normalize() {
	if p.Statut != StatusCompleted {
		p.DateLivraison = ""
	}
	p.Details = p.BuildDetails()
	if len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
}

// EditForm extracts the structured fields for the edit form. A populated
// structured field wins (with the surface unit stripped); otherwise the
// detail lines are scanned for the matching label as a best-effort fallback
// for legacy records that only carry details. The scan takes the first entry
// containing the label, in the fixed field order. When labels overlap (both
// surface lines contain "Surface") this is a known heuristic, not a lossless
// inverse of BuildDetails.
func (p Project) EditForm() ProjectForm {
	form := ProjectForm{
		Title:            p.Title,
		Description:      p.Description,
		Slug:             p.Slug,
		TypeProjet:       p.TypeProjet,
		SurfaceHabitable: StripSurfaceUnit(p.SurfaceHabitable),
		SurfaceTerrain:   StripSurfaceUnit(p.SurfaceTerrain),
		MontantTravaux:   p.MontantTravaux,
		Statut:           p.Statut,
		DateLivraison:    p.DateLivraison,
	}

	if form.TypeProjet == "" {
		form.TypeProjet = detailValue(p.Details, labelTypeProjet)
	}
	if form.SurfaceHabitable == "" {
		form.SurfaceHabitable = StripSurfaceUnit(detailValue(p.Details, labelSurfaceHabitable))
	}
	if form.SurfaceTerrain == "" {
		form.SurfaceTerrain = StripSurfaceUnit(detailValue(p.Details, labelSurfaceTerrain))
	}
	if form.MontantTravaux == "" {
		form.MontantTravaux = detailValue(p.Details, labelMontantTravaux)
	}
	if form.Statut == "" {
		form.Statut = detailValue(p.Details, labelStatut)
	}
	if form.DateLivraison == "" {
		form.DateLivraison = detailValue(p.Details, labelDateLivraison)
	}

	return form
}

// detailValue returns the text after the first colon of the first detail
// entry containing label, trimmed, or "" when no entry matches.
func detailValue(details []string, label string) string {
	for _, d := range details {
		if !strings.Contains(d, label) {
			continue
		}
		parts := strings.SplitN(d, ":", 2)
		if len(parts) < 2 {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CoverImage returns the representative image URL for listings, falling back
// to the first gallery image for records created through legacy paths.
func (p Project) CoverImage() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// IsValidProjectType reports whether t is one of the accepted categories.
func IsValidProjectType(t string) bool {
	for _, v := range ProjectTypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsValidProjectStatus reports whether s is one of the accepted statuses.
func IsValidProjectStatus(s string) bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}
