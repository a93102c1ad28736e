package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/proconnect/backend/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Verifier checks Firebase ID tokens
type Verifier struct {
	client *auth.Client
}

// InitFirebase initializes the Firebase application and returns a token verifier
func InitFirebase(ctx context.Context, credentialsPath string, logger *zap.Logger) (*Verifier, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	logger.Info("firebase auth client initialized")
	return &Verifier{client: client}, nil
}

// VerifyIDToken validates idToken and extracts the identity claims.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*models.ExternalIdentity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	return identityFromClaims(token.UID, token.Claims), nil
}

func identityFromClaims(uid string, claims map[string]interface{}) *models.ExternalIdentity {
	id := &models.ExternalIdentity{ExternalID: uid}
	id.Email, _ = claims["email"].(string)
	id.VerifiedEmail, _ = claims["email_verified"].(bool)
	id.Name, _ = claims["name"].(string)
	id.PictureURL, _ = claims["picture"].(string)
	return id
}
