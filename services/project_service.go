package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ateliermistral/site-backend/database"
	"github.com/ateliermistral/site-backend/errs"
	"github.com/ateliermistral/site-backend/models"
)

// ImageUpload is a newly selected local image to push to the blob store.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProjectService owns the project authoring flow: validation, image upload
// orchestration, image-set merge and the single record-store write per
// submission.
type ProjectService struct {
	projectRepo *database.ProjectRepo
	blobs       BlobStore
	logger      zerolog.Logger
}

func NewProjectService(projectRepo *database.ProjectRepo, blobs BlobStore) ProjectService {
	return ProjectService{
		projectRepo: projectRepo,
		blobs:       blobs,
		logger:      log.With().Str("serviceName", "projectService").Logger(),
	}
}

// Create publishes a new project. The slug is derived from the title when the
// form leaves it blank. A create with no images fails validation before any
// network write.
func (s ProjectService) Create(ctx context.Context, form models.ProjectForm, uploads []ImageUpload) (*models.Project, error) {
	if form.Slug == "" {
		form.Slug = Slugify(form.Title)
	}
	if err := validateProjectForm(form); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, errs.NewMissingRequiredFieldError("images")
	}

	urls, err := s.uploadAll(ctx, form.Slug, uploads)
	if err != nil {
		return nil, err
	}

	project := projectFromForm(form)
	project.Images = urls
	project.Normalize()

	if err := s.projectRepo.Add(ctx, &project); err != nil {
		s.logger.Error().Err(err).Str("slug", project.Slug).Msg("Failed to create project record")
		return nil, errs.NewStoreError("create", "project", err)
	}
	return &project, nil
}

// Update edits an existing project. The stored slug is frozen to preserve
// external links; the final image set is the kept existing images followed by
// the newly uploaded ones, in that order. All uploads must succeed before the
// record write is attempted; on any upload failure the record is left
// untouched (already-uploaded blobs are not rolled back).
func (s ProjectService) Update(ctx context.Context, id string, form models.ProjectForm, existingImages []string, uploads []ImageUpload) (*models.Project, error) {
	stored, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	form.Slug = stored.Slug
	if err := validateProjectForm(form); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, stored.Slug, uploads)
	if err != nil {
		return nil, err
	}

	project := projectFromForm(form)
	project.ID = id
	project.Images = append(filterEmpty(existingImages), urls...)
	project.Normalize()
	if project.Image == "" && len(existingImages) > 0 {
		project.Image = existingImages[0]
	}

	if err := s.projectRepo.Update(ctx, id, project); err != nil {
		s.logger.Error().Err(err).Str("projectID", id).Msg("Failed to update project record")
		return nil, errs.NewStoreError("update", "project", err)
	}
	return &project, nil
}

// uploadAll pushes every new image to the blob store concurrently and
// reassembles the resulting URLs in input order. Keys are scoped by slug and
// disambiguated by filename, submission timestamp and position so a batch
// never collides with itself or an earlier one.
func (s ProjectService) uploadAll(ctx context.Context, slug string, uploads []ImageUpload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}

	urls := make([]string, len(uploads))
	stamp := time.Now().UnixMilli()

	g, gctx := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		i, upload := i, upload
		key := fmt.Sprintf("projets/%s/%s-%d-%d", slug, upload.Filename, stamp, i)
		g.Go(func() error {
			url, err := s.blobs.Upload(gctx, key, upload.Content)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("Image batch upload failed")
		return nil, err
	}
	return urls, nil
}

func projectFromForm(form models.ProjectForm) models.Project {
	return models.Project{
		Title:            form.Title,
		Description:      form.Description,
		Slug:             form.Slug,
		TypeProjet:       form.TypeProjet,
		SurfaceHabitable: form.SurfaceHabitable,
		SurfaceTerrain:   form.SurfaceTerrain,
		MontantTravaux:   form.MontantTravaux,
		Statut:           form.Statut,
		DateLivraison:    form.DateLivraison,
		Published:        true,
	}
}

func validateProjectForm(form models.ProjectForm) error {
	// Surfaces, montant and description are optional; their detail lines are
	// simply omitted when empty.
	required := []struct {
		name  string
		value string
	}{
		{"title", form.Title},
		{"slug", form.Slug},
		{"typeProjet", form.TypeProjet},
		{"statut", form.Statut},
	}
	for _, field := range required {
		if field.value == "" {
			return errs.NewMissingRequiredFieldError(field.name)
		}
	}

	if !models.IsValidProjectType(form.TypeProjet) {
		return errs.NewInvalidFieldError("typeProjet", "must be one of Villa, Appartement, Bureau")
	}
	if !models.IsValidProjectStatus(form.Statut) {
		return errs.NewInvalidFieldError("statut", "unknown status")
	}
	if form.Statut == models.StatusCompleted && form.DateLivraison == "" {
		return errs.NewMissingRequiredFieldError("dateLivraison")
	}
	return nil
}

func filterEmpty(urls []string) []string {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			kept = append(kept, u)
		}
	}
	return kept
}
