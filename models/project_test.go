package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSurfaceUnit(t *testing.T) {
	t.Run("appends the unit to a bare value", func(t *testing.T) {
		assert.Equal(t, "120 m²", AppendSurfaceUnit("120"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		assert.Equal(t, "120 m²", AppendSurfaceUnit(AppendSurfaceUnit("120")))
	})

	t.Run("leaves an existing ascii unit alone regardless of case", func(t *testing.T) {
		assert.Equal(t, "120 m2", AppendSurfaceUnit("120 m2"))
		assert.Equal(t, "120 M2", AppendSurfaceUnit("120 M2"))
	})

	t.Run("passes empty through", func(t *testing.T) {
		assert.Equal(t, "", AppendSurfaceUnit(""))
	})
}

func TestStripSurfaceUnit(t *testing.T) {
	t.Run("removes the unicode unit", func(t *testing.T) {
		assert.Equal(t, "120", StripSurfaceUnit("120 m²"))
	})

	t.Run("removes the ascii unit regardless of case", func(t *testing.T) {
		assert.Equal(t, "120", StripSurfaceUnit("120 M2"))
	})

	t.Run("round-trips with AppendSurfaceUnit", func(t *testing.T) {
		assert.Equal(t, "85", StripSurfaceUnit(AppendSurfaceUnit("85")))
	})
}

func TestBuildDetails(t *testing.T) {
	t.Run("emits all lines in fixed order for a completed project", func(t *testing.T) {
		p := Project{
			TypeProjet:       "Villa",
			SurfaceHabitable: "180",
			SurfaceTerrain:   "950",
			MontantTravaux:   "450 000 €",
			Statut:           StatusCompleted,
			DateLivraison:    "2024",
		}

		details := p.BuildDetails()
		require.Len(t, details, 6)
		assert.Equal(t, "Type de projet : Villa", details[0])
		assert.Equal(t, "Surface habitable : 180 m²", details[1])
		assert.Equal(t, "Surface du terrain : 950 m²", details[2])
		assert.Equal(t, "Montant des travaux : 450 000 €", details[3])
		assert.Equal(t, "Statut : Terminé", details[4])
		assert.Equal(t, "Date de livraison : 2024", details[5])
	})

	t.Run("omits the delivery date for a project still in delivery", func(t *testing.T) {
		p := Project{
			TypeProjet:    "Appartement",
			Statut:        StatusInDelivery,
			DateLivraison: "2025",
		}

		details := p.BuildDetails()
		for _, d := range details {
			assert.NotContains(t, d, "Date de livraison")
		}
	})

	t.Run("skips empty fields without leaving gaps", func(t *testing.T) {
		p := Project{
			TypeProjet: "Bureau",
			Statut:     StatusInDelivery,
		}

		details := p.BuildDetails()
		require.Len(t, details, 2)
		assert.Equal(t, "Type de projet : Bureau", details[0])
		assert.Equal(t, "Statut : En cours de livraison", details[1])
	})
}

func TestNormalize(t *testing.T) {
	t.Run("clears the delivery date unless completed", func(t *testing.T) {
		p := Project{Statut: StatusInDelivery, DateLivraison: "2025"}
		p.Normalize()
		assert.Empty(t, p.DateLivraison)
	})

	t.Run("keeps the delivery date for completed projects", func(t *testing.T) {
		p := Project{Statut: StatusCompleted, DateLivraison: "2024"}
		p.Normalize()
		assert.Equal(t, "2024", p.DateLivraison)
	})

	t.Run("regenerates details from structured fields", func(t *testing.T) {
		p := Project{
			TypeProjet: "Villa",
			Statut:     StatusInDelivery,
			Details:    []string{"stale line"},
		}
		p.Normalize()
		assert.NotContains(t, p.Details, "stale line")
		assert.Contains(t, p.Details, "Type de projet : Villa")
	})

	t.Run("cover image tracks the first gallery entry", func(t *testing.T) {
		p := Project{
			Image:  "old.jpg",
			Images: []string{"first.jpg", "second.jpg"},
		}
		p.Normalize()
		assert.Equal(t, "first.jpg", p.Image)
	})

	t.Run("cover image untouched when the gallery is empty", func(t *testing.T) {
		p := Project{Image: "old.jpg"}
		p.Normalize()
		assert.Equal(t, "old.jpg", p.Image)
	})
}

func TestEditForm(t *testing.T) {
	t.Run("structured fields win, surface units stripped", func(t *testing.T) {
		p := Project{
			Title:            "Maison du Lac",
			SurfaceHabitable: "180 m²",
			SurfaceTerrain:   "950 m2",
			Statut:           StatusCompleted,
			DateLivraison:    "2024",
			Details:          []string{"Surface habitable : 999 m²"},
		}

		form := p.EditForm()
		assert.Equal(t, "180", form.SurfaceHabitable)
		assert.Equal(t, "950", form.SurfaceTerrain)
		assert.Equal(t, "2024", form.DateLivraison)
	})

	t.Run("falls back to detail lines for legacy records", func(t *testing.T) {
		p := Project{
			Title: "Bergerie",
			Details: []string{
				"Type de projet : Villa",
				"Surface habitable : 120 m²",
				"Surface du terrain : 800 m²",
				"Montant des travaux : 300 000 €",
				"Statut : Terminé",
				"Date de livraison : 2023",
			},
		}

		form := p.EditForm()
		assert.Equal(t, "Villa", form.TypeProjet)
		assert.Equal(t, "120", form.SurfaceHabitable)
		assert.Equal(t, "800", form.SurfaceTerrain)
		assert.Equal(t, "300 000 €", form.MontantTravaux)
		assert.Equal(t, StatusCompleted, form.Statut)
		assert.Equal(t, "2023", form.DateLivraison)
	})

	t.Run("detail entry without a colon yields an empty value", func(t *testing.T) {
		p := Project{Details: []string{"Type de projet"}}
		form := p.EditForm()
		assert.Empty(t, form.TypeProjet)
	})
}

func TestCoverImage(t *testing.T) {
	t.Run("prefers the stored cover", func(t *testing.T) {
		p := Project{Image: "cover.jpg", Images: []string{"first.jpg"}}
		assert.Equal(t, "cover.jpg", p.CoverImage())
	})

	t.Run("falls back to the first gallery image", func(t *testing.T) {
		p := Project{Images: []string{"first.jpg"}}
		assert.Equal(t, "first.jpg", p.CoverImage())
	})

	t.Run("empty when the record has no images at all", func(t *testing.T) {
		assert.Empty(t, Project{}.CoverImage())
	})
}

func TestProjectEnums(t *testing.T) {
	for _, typ := range ProjectTypes {
		assert.True(t, IsValidProjectType(typ))
	}
	assert.False(t, IsValidProjectType("Château"))

	for _, status := range ProjectStatuses {
		assert.True(t, IsValidProjectStatus(status))
	}
	assert.False(t, IsValidProjectStatus("Annulé"))
}
