package database

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/ateliermistral/site-backend/models"
)

// ContactCollection is the record store collection holding contact requests.
const ContactCollection = "contact"

type ContactRepo struct {
	store RecordStore
}

func NewContactRepo(store RecordStore) *ContactRepo {
	return &ContactRepo{store: store}
}

// Add persists a new contact request, unread, timestamped by the store.
func (r *ContactRepo) Add(ctx context.Context, request *models.ContactRequest) error {
	doc := map[string]interface{}{
		"nom":       request.Nom,
		"email":     request.Email,
		"message":   request.Message,
		"lu":        false,
		"createdAt": firestore.ServerTimestamp,
	}

	id, err := r.store.Create(ctx, ContactCollection, doc)
	if err != nil {
		return err
	}
	request.ID = id
	return nil
}

// FindAll returns every contact request, most recent first. The order is a
// single-field sort the store indexes by default, so no fallback path is
// needed here.
func (r *ContactRepo) FindAll(ctx context.Context) ([]models.ContactRequest, error) {
	order := &Order{Path: "createdAt", Desc: true}
	records, err := r.store.Query(ctx, ContactCollection, nil, order)
	if err != nil {
		return nil, err
	}

	requests := make([]models.ContactRequest, 0, len(records))
	for _, record := range records {
		var request models.ContactRequest
		if err := record.DataTo(&request); err != nil {
			return nil, err
		}
		request.ID = record.ID()
		requests = append(requests, request)
	}
	return requests, nil
}

// Delete removes a contact request by id. Irreversible.
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, ContactCollection, id)
}
