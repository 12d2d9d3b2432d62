package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/parlevel/studiogate/pkg/roles"
)

// roleClaimKey is the custom-claim key carrying the mirrored role.
const roleClaimKey = "role"

// FirebaseConfig holds credentials for the Firebase identity provider.
// Exactly one credential source is needed; with neither set, the SDK
// falls back to Application Default Credentials.
type FirebaseConfig struct {
	ProjectID             string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile       string `env:"FIREBASE_CREDENTIALS_FILE"`
	CredentialsJSONBase64 string `env:"FIREBASE_CREDENTIALS_JSON_BASE64"`
}

// FirebaseProvider implements Provider on top of the Firebase Admin SDK.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider initializes the Firebase app and its auth client.
func NewFirebaseProvider(ctx context.Context, cfg FirebaseConfig) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.CredentialsJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("decode firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	return &FirebaseProvider{client: client}, nil
}

// SetRoleClaim writes the role custom claim, replacing the previous one.
func (p *FirebaseProvider) SetRoleClaim(ctx context.Context, uid string, role roles.Role) error {
	if uid == "" {
		return ErrEmptyUID
	}
	if !roles.IsValid(role) {
		return roles.ErrInvalidRole
	}

	claims := map[string]any{roleClaimKey: string(role)}
	if err := p.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return errors.Join(ErrClaimWriteFailed, err)
	}
	return nil
}

// VerifyToken validates a Firebase ID token and returns the identity
// it carries.
func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (AuthState, error) {
	if token == "" {
		return AuthState{}, ErrInvalidToken
	}

	decoded, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return AuthState{}, errors.Join(ErrInvalidToken, err)
	}

	state := AuthState{UserID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		state.Email = email
	}
	return state, nil
}

// RoleClaim reads the role custom claim for a user. A missing or
// malformed claim resolves to the default role, never to an error that
// could be mistaken for elevated access.
func (p *FirebaseProvider) RoleClaim(ctx context.Context, uid string) (roles.Role, error) {
	if uid == "" {
		return roles.Default, ErrEmptyUID
	}

	user, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return roles.Default, errors.Join(ErrProviderUnavailable, err)
	}

	raw, ok := user.CustomClaims[roleClaimKey].(string)
	if !ok {
		return roles.Default, nil
	}
	role, err := roles.Parse(raw)
	if err != nil {
		return roles.Default, nil
	}
	return role, nil
}
