package database

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"

	"github.com/ateliermistral/site-backend/errs"
	"github.com/ateliermistral/site-backend/models"
)

// ProjectsCollection is the record store collection holding project records.
const ProjectsCollection = "projets"

type ProjectRepo struct {
	store RecordStore
}

func NewProjectRepo(store RecordStore) *ProjectRepo {
	return &ProjectRepo{store: store}
}

// FindPublished returns all published projects, newest first. The preferred
// path asks the store to order by createdAt; when the store rejects the
// filter+order combination the query is reissued filter-only. The client-side
// sort runs on both paths so the final ordering is identical either way.
func (r *ProjectRepo) FindPublished(ctx context.Context) ([]models.Project, error) {
	filters := []Filter{{Path: "published", Op: "==", Value: true}}
	order := &Order{Path: "createdAt", Desc: true}

	records, err := r.store.Query(ctx, ProjectsCollection, filters, order)
	if errs.IsUnsupportedQuery(err) {
		log.Warn().Err(err).Msg("ordered project query unsupported, retrying filter-only")
		records, err = r.store.Query(ctx, ProjectsCollection, filters, nil)
	}
	if err != nil {
		return nil, err
	}

	projects, err := decodeProjects(records)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(projects)
	return projects, nil
}

// FindBySlug returns the published project with the given slug.
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	filters := []Filter{
		{Path: "slug", Op: "==", Value: slug},
		{Path: "published", Op: "==", Value: true},
	}
	records, err := r.store.Query(ctx, ProjectsCollection, filters, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("project %q: %w", slug, errs.ErrNotFound)
	}

	var project models.Project
	if err := records[0].DataTo(&project); err != nil {
		return nil, err
	}
	project.ID = records[0].ID()
	return &project, nil
}

// FindByID returns a project by its store-assigned identifier.
func (r *ProjectRepo) FindByID(ctx context.Context, id string) (*models.Project, error) {
	record, err := r.store.Get(ctx, ProjectsCollection, id)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := record.DataTo(&project); err != nil {
		return nil, err
	}
	project.ID = record.ID()
	return &project, nil
}

// Add inserts a new project record. The creation timestamp is assigned by
// the store; the assigned id is written back to the project.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	doc := projectDoc(*project)
	doc["createdAt"] = firestore.ServerTimestamp

	id, err := r.store.Create(ctx, ProjectsCollection, doc)
	if err != nil {
		return err
	}
	project.ID = id
	return nil
}

// Update overwrites the mutable fields of an existing project record.
// createdAt is deliberately absent from the document so the original
// creation timestamp survives edits.
func (r *ProjectRepo) Update(ctx context.Context, id string, project models.Project) error {
	return r.store.Update(ctx, ProjectsCollection, id, projectDoc(project))
}

// Delete removes a project record by id. Irreversible.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, ProjectsCollection, id)
}

// projectDoc maps a project to its stored representation. dateLivraison is
// stored as null when absent, matching the records written by earlier
// versions of the site.
func projectDoc(p models.Project) map[string]interface{} {
	var dateLivraison interface{}
	if p.DateLivraison != "" {
		dateLivraison = p.DateLivraison
	}

	return map[string]interface{}{
		"title":            p.Title,
		"description":      p.Description,
		"slug":             p.Slug,
		"typeProjet":       p.TypeProjet,
		"surfaceHabitable": p.SurfaceHabitable,
		"surfaceTerrain":   p.SurfaceTerrain,
		"montantTravaux":   p.MontantTravaux,
		"statut":           p.Statut,
		"dateLivraison":    dateLivraison,
		"details":          p.Details,
		"image":            p.Image,
		"images":           p.Images,
		"published":        p.Published,
	}
}

func decodeProjects(records []Record) ([]models.Project, error) {
	projects := make([]models.Project, 0, len(records))
	for _, record := range records {
		var project models.Project
		if err := record.DataTo(&project); err != nil {
			return nil, err
		}
		project.ID = record.ID()
		projects = append(projects, project)
	}
	return projects, nil
}

// sortNewestFirst orders projects by creation timestamp descending. Records
// without a timestamp (legacy paths) sort after any record that has one; two
// records without timestamps keep their relative order.
func sortNewestFirst(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i].CreatedAt, projects[j].CreatedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}
