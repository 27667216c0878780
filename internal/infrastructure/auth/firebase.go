package auth

import (
	"context"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/pkg/logger"
)

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	UID   string
	Email string
}

// FirebaseVerifier validates bearer tokens against Firebase Auth
type FirebaseVerifier struct {
	client *fbauth.Client
	logger logger.Logger
}

// NewFirebaseVerifier creates a verifier from a service-account
// credentials file
func NewFirebaseVerifier(ctx context.Context, credentialsFile, projectID string, log logger.Logger) (*FirebaseVerifier, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var cfg *firebase.Config
	if projectID != "" {
		cfg = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, apperr.Wrap(apperr.ExternalProvider, "failed to initialize identity provider", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.ExternalProvider, "failed to initialize identity provider", err)
	}

	return &FirebaseVerifier{client: client, logger: log}, nil
}

// Verify checks an ID token and returns the caller identity. Any
// verification failure is Forbidden; the caller presented a credential,
// it just was not a valid one.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		v.logger.Warn("Token verification failed", "error", err)
		return Identity{}, apperr.Wrap(apperr.Forbidden, "forbidden access", err)
	}

	email, _ := decoded.Claims["email"].(string)
	return Identity{UID: decoded.UID, Email: email}, nil
}

// CustomToken mints a custom sign-in token for the given UID. Used by the
// get-token utility during local development.
func (v *FirebaseVerifier) CustomToken(ctx context.Context, uid string) (string, error) {
	token, err := v.client.CustomToken(ctx, uid)
	if err != nil {
		return "", apperr.Wrap(apperr.ExternalProvider, "failed to mint custom token", err)
	}
	return token, nil
}
