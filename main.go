package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	api "github.com/ateliermistral/site-backend/api"
	"github.com/ateliermistral/site-backend/auth"
	"github.com/ateliermistral/site-backend/config"
	"github.com/ateliermistral/site-backend/database"
	"github.com/ateliermistral/site-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	credentialsPath, err := config.MustGetString(c, "FIREBASE_CREDENTIALS_FILE")
	if err != nil {
		fmt.Printf("Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	storageBucket, err := config.MustGetString(c, "FIREBASE_STORAGE_BUCKET")
	if err != nil {
		fmt.Printf("Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	webAPIKey, err := config.MustGetString(c, "FIREBASE_WEB_API_KEY")
	if err != nil {
		fmt.Printf("Error reading configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	fmt.Println("Connecting to Firebase...")
	clients, err := auth.InitializeFirebase(ctx, credentialsPath, storageBucket)
	if err != nil {
		fmt.Printf("Error initializing Firebase: %v\n", err)
		os.Exit(1)
	}
	defer clients.Firestore.Close()

	currentDB := database.New(database.NewFirestoreStore(clients.Firestore))

	sessions := auth.NewSessions(clients.Auth, webAPIKey)
	uploader := services.NewBucketUploader(clients.Bucket, clients.BucketName)
	projectService := services.NewProjectService(currentDB.ProjectRepo(), uploader)
	notifier := services.NewContactNotifier(
		config.GetString(c, "RESEND_API_KEY", ""),
		config.GetString(c, "RESEND_FROM_EMAIL", ""),
		config.GetString(c, "CONTACT_NOTIFY_EMAIL", ""),
	)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, projectService, sessions, notifier)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Error().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
