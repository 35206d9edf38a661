package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliermistral/site-backend/database"
	"github.com/ateliermistral/site-backend/errs"
	"github.com/ateliermistral/site-backend/models"
)

type memRecord struct {
	id      string
	project models.Project
}

func (r memRecord) ID() string { return r.id }

func (r memRecord) DataTo(v interface{}) error {
	p, ok := v.(*models.Project)
	if !ok {
		return fmt.Errorf("unexpected target type %T", v)
	}
	*p = r.project
	return nil
}

type memStore struct {
	stored     map[string]models.Project
	writes     int
	lastCreate map[string]interface{}
	lastUpdate map[string]interface{}
}

func newMemStore() *memStore {
	return &memStore{stored: make(map[string]models.Project)}
}

func (s *memStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	s.writes++
	s.lastCreate = data
	return "new-id", nil
}

func (s *memStore) Update(ctx context.Context, collection, id string, data map[string]interface{}) error {
	s.writes++
	s.lastUpdate = data
	return nil
}

func (s *memStore) Delete(ctx context.Context, collection, id string) error { return nil }

func (s *memStore) Get(ctx context.Context, collection, id string) (database.Record, error) {
	project, ok := s.stored[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", collection, id, errs.ErrNotFound)
	}
	return memRecord{id: id, project: project}, nil
}

func (s *memStore) Query(ctx context.Context, collection string, filters []database.Filter, order *database.Order) ([]database.Record, error) {
	return nil, nil
}

// fakeBlobs records uploads and can fail for one filename.
type fakeBlobs struct {
	mu       sync.Mutex
	keys     []string
	failFor  string
	uploaded int
}

func (b *fakeBlobs) Upload(ctx context.Context, key string, content io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failFor != "" && strings.Contains(key, b.failFor) {
		return "", errs.NewUploadError(key, fmt.Errorf("connection reset"))
	}
	b.uploaded++
	b.keys = append(b.keys, key)
	return "https://blobs.test/" + key, nil
}

func validForm() models.ProjectForm {
	return models.ProjectForm{
		Title:            "Maison du Lac",
		Description:      "Une maison au bord du lac.",
		TypeProjet:       "Villa",
		SurfaceHabitable: "180",
		SurfaceTerrain:   "950",
		MontantTravaux:   "450 000 €",
		Statut:           models.StatusInDelivery,
	}
}

func upload(name string) ImageUpload {
	return ImageUpload{Filename: name, Content: strings.NewReader("image-bytes")}
}

func TestProjectServiceCreate(t *testing.T) {
	t.Run("creates a published project with generated slug", func(t *testing.T) {
		store := newMemStore()
		blobs := &fakeBlobs{}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		project, err := svc.Create(context.Background(), validForm(), []ImageUpload{upload("facade.jpg")})
		require.NoError(t, err)

		assert.Equal(t, "maison-du-lac", project.Slug)
		assert.True(t, project.Published)
		assert.Equal(t, "new-id", project.ID)
		assert.NotEmpty(t, project.Details)
	})

	t.Run("zero images fails before any write", func(t *testing.T) {
		store := newMemStore()
		blobs := &fakeBlobs{}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		_, err := svc.Create(context.Background(), validForm(), nil)
		require.Error(t, err)
		assert.True(t, errs.IsMissingRequiredFieldError(err))
		assert.Zero(t, store.writes)
		assert.Zero(t, blobs.uploaded)
	})

	t.Run("image urls keep submission order", func(t *testing.T) {
		store := newMemStore()
		blobs := &fakeBlobs{}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		uploads := []ImageUpload{upload("one.jpg"), upload("two.jpg"), upload("three.jpg")}
		project, err := svc.Create(context.Background(), validForm(), uploads)
		require.NoError(t, err)

		require.Len(t, project.Images, 3)
		assert.Contains(t, project.Images[0], "one.jpg")
		assert.Contains(t, project.Images[1], "two.jpg")
		assert.Contains(t, project.Images[2], "three.jpg")
		assert.Equal(t, project.Images[0], project.Image)
	})

	t.Run("upload keys are scoped by slug", func(t *testing.T) {
		store := newMemStore()
		blobs := &fakeBlobs{}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		_, err := svc.Create(context.Background(), validForm(), []ImageUpload{upload("facade.jpg")})
		require.NoError(t, err)

		require.Len(t, blobs.keys, 1)
		assert.True(t, strings.HasPrefix(blobs.keys[0], "projets/maison-du-lac/facade.jpg-"))
	})

	t.Run("any failed upload leaves the record store untouched", func(t *testing.T) {
		store := newMemStore()
		blobs := &fakeBlobs{failFor: "two.jpg"}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		uploads := []ImageUpload{upload("one.jpg"), upload("two.jpg")}
		_, err := svc.Create(context.Background(), validForm(), uploads)
		require.Error(t, err)
		assert.True(t, errs.IsUploadFailed(err))
		assert.Zero(t, store.writes)
	})

	t.Run("rejects an unknown project type", func(t *testing.T) {
		svc := NewProjectService(database.NewProjectRepo(newMemStore()), &fakeBlobs{})

		form := validForm()
		form.TypeProjet = "Château"
		_, err := svc.Create(context.Background(), form, []ImageUpload{upload("a.jpg")})
		assert.True(t, errs.IsInvalidFieldError(err))
	})

	t.Run("completed projects require a delivery date", func(t *testing.T) {
		svc := NewProjectService(database.NewProjectRepo(newMemStore()), &fakeBlobs{})

		form := validForm()
		form.Statut = models.StatusCompleted
		_, err := svc.Create(context.Background(), form, []ImageUpload{upload("a.jpg")})
		assert.True(t, errs.IsMissingRequiredFieldError(err))
	})
}

func TestProjectServiceUpdate(t *testing.T) {
	seed := func(store *memStore) {
		store.stored["p1"] = models.Project{
			Title:  "Maison du Lac",
			Slug:   "maison-du-lac",
			Images: []string{"https://blobs.test/projets/maison-du-lac/old.jpg"},
		}
	}

	t.Run("slug is frozen to the stored value", func(t *testing.T) {
		store := newMemStore()
		seed(store)
		svc := NewProjectService(database.NewProjectRepo(store), &fakeBlobs{})

		form := validForm()
		form.Title = "Maison Renommée"
		form.Slug = "autre-slug"
		project, err := svc.Update(context.Background(), "p1", form, nil, []ImageUpload{upload("new.jpg")})
		require.NoError(t, err)

		assert.Equal(t, "maison-du-lac", project.Slug)
	})

	t.Run("kept images come first, new uploads after", func(t *testing.T) {
		store := newMemStore()
		seed(store)
		svc := NewProjectService(database.NewProjectRepo(store), &fakeBlobs{})

		existing := []string{"https://blobs.test/projets/maison-du-lac/old.jpg"}
		project, err := svc.Update(context.Background(), "p1", validForm(), existing, []ImageUpload{upload("new.jpg")})
		require.NoError(t, err)

		require.Len(t, project.Images, 2)
		assert.Equal(t, existing[0], project.Images[0])
		assert.Contains(t, project.Images[1], "new.jpg")
		assert.Equal(t, existing[0], project.Image)
	})

	t.Run("empty entries in the kept list are dropped", func(t *testing.T) {
		store := newMemStore()
		seed(store)
		svc := NewProjectService(database.NewProjectRepo(store), &fakeBlobs{})

		existing := []string{"", "https://blobs.test/kept.jpg", ""}
		project, err := svc.Update(context.Background(), "p1", validForm(), existing, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"https://blobs.test/kept.jpg"}, project.Images)
	})

	t.Run("update with only kept images performs no upload", func(t *testing.T) {
		store := newMemStore()
		seed(store)
		blobs := &fakeBlobs{}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		_, err := svc.Update(context.Background(), "p1", validForm(), []string{"https://blobs.test/kept.jpg"}, nil)
		require.NoError(t, err)
		assert.Zero(t, blobs.uploaded)
	})

	t.Run("unknown project id is not found", func(t *testing.T) {
		svc := NewProjectService(database.NewProjectRepo(newMemStore()), &fakeBlobs{})

		_, err := svc.Update(context.Background(), "missing", validForm(), nil, nil)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("failed upload leaves the stored record untouched", func(t *testing.T) {
		store := newMemStore()
		seed(store)
		blobs := &fakeBlobs{failFor: "new.jpg"}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		_, err := svc.Update(context.Background(), "p1", validForm(), nil, []ImageUpload{upload("new.jpg")})
		require.Error(t, err)
		assert.Zero(t, store.writes)
	})
}

func TestProjectAuthoringScenarios(t *testing.T) {
	t.Run("create then edit an in-delivery villa", func(t *testing.T) {
		store := newMemStore()
		blobs := &fakeBlobs{}
		svc := NewProjectService(database.NewProjectRepo(store), blobs)

		form := models.ProjectForm{
			Title:            "Villa Côte d'Azur",
			TypeProjet:       "Villa",
			SurfaceHabitable: "180",
			SurfaceTerrain:   "800",
			Statut:           models.StatusInDelivery,
		}

		created, err := svc.Create(context.Background(), form, []ImageUpload{upload("un.jpg"), upload("deux.jpg")})
		require.NoError(t, err)

		assert.Equal(t, "villa-cote-d-azur", created.Slug)
		assert.Equal(t, []string{
			"Type de projet : Villa",
			"Surface habitable : 180 m²",
			"Surface du terrain : 800 m²",
			"Statut : En cours de livraison",
		}, created.Details)
		assert.Equal(t, created.Images[0], created.Image)
		assert.Empty(t, created.DateLivraison)

		// Edit: drop the first image, add one new one.
		store.stored[created.ID] = *created
		kept := created.Images[1:]
		updated, err := svc.Update(context.Background(), created.ID, form, kept, []ImageUpload{upload("trois.jpg")})
		require.NoError(t, err)

		require.Len(t, updated.Images, 2)
		assert.Equal(t, created.Images[1], updated.Images[0])
		assert.Contains(t, updated.Images[1], "trois.jpg")
		assert.Equal(t, created.Images[1], updated.Image)
	})
}
