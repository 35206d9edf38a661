package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ateliermistral/site-backend/database"
	"github.com/ateliermistral/site-backend/errs"
	"github.com/ateliermistral/site-backend/models"
	"github.com/ateliermistral/site-backend/services"
)

// maxUploadSize bounds a single project submission, images included.
const maxUploadSize = 32 << 20

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	projectRepo    *database.ProjectRepo
	projectService services.ProjectService
}

func newProjectHandler(projectRepo *database.ProjectRepo, projectService services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		projectRepo:    projectRepo,
		projectService: projectService,
	}
}

// ProjectCollection represents a list of projects
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total,omitempty"`
}

// ProjectEditView bundles a project with the form values an editor starts from
type ProjectEditView struct {
	Project models.Project     `json:"project"`
	Form    models.ProjectForm `json:"form"`
}

// getPublishedProjects retrieves the published portfolio, newest first
// @Summary Get published projects
// @Description Retrieves all published projects, newest first
// @Tags Projects
// @Produce json
// @Success 200 {object} ProjectCollection "List of published projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getPublishedProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindPublished(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapStoreError("find projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProjectBySlug retrieves a published project by slug
// @Summary Get project by slug
// @Description Retrieves a single published project by its URL slug
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - No published project with this slug"
// @Router /projects/{slug} [get]
func (h projectHandler) getProjectBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		project, err := h.projectRepo.FindBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, wrapStoreError("find project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// getAllProjects retrieves every project for the admin listing
// @Summary List projects (admin)
// @Description Retrieves all projects for the admin dashboard, newest first
// @Tags Admin
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid session"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /admin/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session checked by middleware

		projects, err := h.projectRepo.FindPublished(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapStoreError("find projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		})
	}
}

// getProjectForEdit retrieves one project with its prefilled edit form
// @Summary Get project for editing (admin)
// @Description Retrieves a project by ID together with the form values to prefill the editor
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} ProjectEditView "Project with edit form values"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid session"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{projectID} [get]
func (h projectHandler) getProjectForEdit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session checked by middleware

		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapStoreError("find project", "project", err))
			return
		}

		h.responder.WriteJSON(w, ProjectEditView{
			Project: *project,
			Form:    project.EditForm(),
		})
	}
}

// createProject publishes a new project from a multipart submission
// @Summary Create project (admin)
// @Description Creates and publishes a new project from a multipart form with at least one image
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid or incomplete form"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid session"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Upload or store failure"
// @Router /admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session checked by middleware

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project form", err))
			return
		}

		form := projectFormFromRequest(r)
		uploads, closeUploads, err := imageUploadsFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeUploads()

		project, err := h.projectService.Create(r.Context(), form, uploads)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateProject edits an existing project from a multipart submission
// @Summary Update project (admin)
// @Description Updates a project; the final gallery is the kept existing images followed by newly uploaded ones
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid or incomplete form"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid session"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Upload or store failure"
// @Router /admin/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session checked by middleware

		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("project form", err))
			return
		}

		form := projectFormFromRequest(r)
		existingImages := r.MultipartForm.Value["existingImages"]
		uploads, closeUploads, err := imageUploadsFromRequest(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer closeUploads()

		project, err := h.projectService.Update(r.Context(), projectID, form, existingImages, uploads)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project (admin)
// @Description Deletes a project record; its uploaded images stay in the blob store
// @Tags Admin
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} map[string]string "Success message"
// @Failure 401 {object} ErrorResponse "Unauthorized - Missing or invalid session"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session checked by middleware

		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing projectID"))
			return
		}

		// Verify project exists
		if _, err := h.projectRepo.FindByID(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapStoreError("find project", "project", err))
			return
		}

		if err := h.projectRepo.Delete(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, wrapStoreError("delete project", "project", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

// projectFormFromRequest pulls the structured fields out of a parsed
// multipart form.
func projectFormFromRequest(r *http.Request) models.ProjectForm {
	return models.ProjectForm{
		Title:            r.FormValue("title"),
		Description:      r.FormValue("description"),
		Slug:             r.FormValue("slug"),
		TypeProjet:       r.FormValue("typeProjet"),
		SurfaceHabitable: r.FormValue("surfaceHabitable"),
		SurfaceTerrain:   r.FormValue("surfaceTerrain"),
		MontantTravaux:   r.FormValue("montantTravaux"),
		Statut:           r.FormValue("statut"),
		DateLivraison:    r.FormValue("dateLivraison"),
	}
}

// imageUploadsFromRequest opens the uploaded image parts in form order. The
// returned closer releases every opened part and must be called once the
// uploads are consumed.
func imageUploadsFromRequest(r *http.Request) ([]services.ImageUpload, func(), error) {
	headers := r.MultipartForm.File["images"]

	uploads := make([]services.ImageUpload, 0, len(headers))
	closers := make([]func() error, 0, len(headers))
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, errs.NewMalformedPayloadError("image upload", err)
		}
		closers = append(closers, file.Close)
		uploads = append(uploads, services.ImageUpload{
			Filename: header.Filename,
			Content:  file,
		})
	}

	return uploads, closeAll, nil
}
