package database

import "context"

// Filter restricts a query to records whose field at Path satisfies
// Op (e.g. "==") against Value.
type Filter struct {
	Path  string
	Op    string
	Value interface{}
}

// Order requests server-side ordering of query results by the field at Path.
type Order struct {
	Path string
	Desc bool
}

// Record is a single document returned by the record store.
type Record interface {
	ID() string
	DataTo(v interface{}) error
}

// RecordStore is the document database the site delegates all persistence
// to. Query returns errs.ErrUnsupportedQuery when the store rejects the
// filter+order combination (missing composite index); callers are expected
// to catch that specific failure and retry filter-only.
type RecordStore interface {
	Create(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	Update(ctx context.Context, collection, id string, data map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Get(ctx context.Context, collection, id string) (Record, error)
	Query(ctx context.Context, collection string, filters []Filter, order *Order) ([]Record, error)
}
