package firebase

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"github.com/prabhata303-del/Dd/internal/config"
)

// Scopes required by the Realtime Database REST API. The admin SDK requests
// these itself; the streaming client needs them explicitly.
var streamScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/firebase.database",
}

// Clients bundles the backend handles the rest of the application is built
// on: the admin app, the auth client, the database client and an HTTP
// client authorized for the database REST API (used by change streams).
type Clients struct {
	App        *firebase.App
	Auth       *auth.Client
	DB         *db.Client
	StreamHTTP *http.Client
}

// Init initializes the Firebase Admin SDK from the application config.
// Credentials resolve in order: explicit credentials file, base64 encoded
// service account JSON, Application Default Credentials.
func Init(ctx context.Context, cfg *config.Config) (*Clients, error) {
	if cfg == nil {
		return nil, fmt.Errorf("firebase: config cannot be nil")
	}

	credsOption, err := credentialsOption(cfg)
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if credsOption != nil {
		opts = append(opts, credsOption)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   cfg.FirebaseProjectID,
		DatabaseURL: cfg.FirebaseDatabaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: init auth client: %w", err)
	}

	dbClient, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: init database client: %w", err)
	}

	streamOpts := append([]option.ClientOption{option.WithScopes(streamScopes...)}, opts...)
	streamHTTP, _, err := htransport.NewClient(ctx, streamOpts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: init stream transport: %w", err)
	}

	return &Clients{
		App:        app,
		Auth:       authClient,
		DB:         dbClient,
		StreamHTTP: streamHTTP,
	}, nil
}

func credentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseCredentialsFile != "" {
		return option.WithCredentialsFile(cfg.FirebaseCredentialsFile), nil
	}
	if cfg.FirebaseCredentialsJSONBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredentialsJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("firebase: decode credentials JSON: %w", err)
		}
		return option.WithCredentialsJSON(decoded), nil
	}
	// Fall through to Application Default Credentials.
	return nil, nil
}
