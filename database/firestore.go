package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ateliermistral/site-backend/errs"
)

// FirestoreStore implements RecordStore on top of Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

type firestoreRecord struct {
	snap *firestore.DocumentSnapshot
}

func (r firestoreRecord) ID() string {
	return r.snap.Ref.ID
}

func (r firestoreRecord) DataTo(v interface{}) error {
	return r.snap.DataTo(v)
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", translateStoreError(err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return translateStoreError(err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return translateStoreError(err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Record, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, errs.ErrNotFound)
		}
		return nil, translateStoreError(err)
	}
	return firestoreRecord{snap: snap}, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filters []Filter, order *Order) ([]Record, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Path, f.Op, f.Value)
	}
	if order != nil {
		dir := firestore.Asc
		if order.Desc {
			dir = firestore.Desc
		}
		q = q.OrderBy(order.Path, dir)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		// Firestore rejects an unindexed filter+order combination with
		// FailedPrecondition; surface it as the distinct sentinel so the
		// repositories can fall back to a filter-only query.
		if status.Code(err) == codes.FailedPrecondition {
			return nil, fmt.Errorf("%s: %w", collection, errs.ErrUnsupportedQuery)
		}
		return nil, translateStoreError(err)
	}

	records := make([]Record, 0, len(snaps))
	for _, snap := range snaps {
		records = append(records, firestoreRecord{snap: snap})
	}
	return records, nil
}

func translateStoreError(err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	default:
		return err
	}
}
