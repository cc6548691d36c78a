package utils

import (
	"context"
	"fmt"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var (
	FirebaseClient *messaging.Client
	once           sync.Once
	initErr        error
)

// InitFirebase initializes Firebase Admin SDK and FCM client (singleton pattern)
func InitFirebase(credentialsPath, projectID string) error {
	once.Do(func() {
		ctx := context.Background()

		// GOOGLE_APPLICATION_CREDENTIALS wins over the configured path
		if env := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); env != "" {
			credentialsPath = env
		}
		if credentialsPath == "" {
			initErr = fmt.Errorf("FCM_CREDENTIALS_PATH not set")
			return
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			initErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}

		var conf *firebase.Config
		if projectID != "" {
			conf = &firebase.Config{ProjectID: projectID}
		}

		app, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(credentialsPath))
		if err != nil {
			initErr = fmt.Errorf("firebase app initialization failed: %w", err)
			return
		}

		client, err := app.Messaging(ctx)
		if err != nil {
			initErr = fmt.Errorf("FCM client initialization failed: %w", err)
			return
		}

		log.Info().Str("project_id", projectID).Msg("✅ FCM client initialized successfully")
		FirebaseClient = client
	})

	return initErr
}

// IsFCMEnabled checks if FCM is available
func IsFCMEnabled() bool {
	return FirebaseClient != nil
}
