package auth

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Clients bundles the Firebase-backed collaborators: identity, record store
// and blob store.
type Clients struct {
	Auth       *fbauth.Client
	Firestore  *firestore.Client
	Bucket     *storage.BucketHandle
	BucketName string
}

// InitializeFirebase initializes the Firebase Admin SDK and returns the
// service clients. Any failure here is fatal to startup.
func InitializeFirebase(ctx context.Context, credentialsPath, storageBucket string) (*Clients, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_FILE is required")
	}
	if storageBucket == "" {
		return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET is required")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: storageBucket}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Storage client: %w", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to get default storage bucket: %w", err)
	}

	return &Clients{
		Auth:       authClient,
		Firestore:  firestoreClient,
		Bucket:     bucket,
		BucketName: storageBucket,
	}, nil
}
