package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"postlinkBack/internal/models"
	"postlinkBack/utils"
)

type fakeAuthStore struct {
	byEmail  map[string]*models.Publisher
	sessions map[int]models.Session
	nextID   int
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		byEmail:  make(map[string]*models.Publisher),
		sessions: make(map[int]models.Session),
		nextID:   1,
	}
}

func (f *fakeAuthStore) CreatePublisher(_ context.Context, p models.Publisher) (models.Publisher, error) {
	p.ID = f.nextID
	f.nextID++
	f.byEmail[p.Email] = &p
	return p, nil
}

func (f *fakeAuthStore) GetPublisherByEmail(_ context.Context, email string) (models.Publisher, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return models.Publisher{}, models.ErrPublisherNotFound
	}
	return *p, nil
}

func (f *fakeAuthStore) CreateSession(_ context.Context, session models.Session) error {
	f.sessions[session.UserID] = session
	return nil
}

func newAuthService(t *testing.T) (*AuthService, *fakeAuthStore) {
	t.Helper()
	tokens, err := utils.NewManager("test-signing-key")
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	store := newFakeAuthStore()
	return &AuthService{PublisherRepo: store, Tokens: tokens, SigningKey: "test-signing-key"}, store
}

func TestSignUpHashesPasswordAndDefaults(t *testing.T) {
	svc, store := newAuthService(t)

	p, err := svc.SignUp(context.Background(), models.Publisher{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if p.Role != models.RolePublisher {
		t.Errorf("role = %q, want publisher", p.Role)
	}
	if p.AccountTier != models.TierSilver {
		t.Errorf("tier = %q, want silver", p.AccountTier)
	}
	stored := store.byEmail["dana@example.com"]
	if stored.Password == "hunter22" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	ctx := context.Background()
	if _, err := svc.SignUp(ctx, models.Publisher{Email: "dana@example.com", Password: "pw1"}); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, err := svc.SignUp(ctx, models.Publisher{Email: "dana@example.com", Password: "pw2"}); err != models.ErrDuplicateEmail {
		t.Errorf("duplicate sign up: err = %v, want ErrDuplicateEmail", err)
	}
}

func TestSignUpRequiresEmailAndPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.SignUp(context.Background(), models.Publisher{Email: "a@b.c"}); err == nil {
		t.Errorf("expected error for missing password")
	}
	if _, err := svc.SignUp(context.Background(), models.Publisher{Password: "pw"}); err == nil {
		t.Errorf("expected error for missing email")
	}
}

func TestSignInIssuesTokensAndSession(t *testing.T) {
	svc, store := newAuthService(t)

	ctx := context.Background()
	if _, err := svc.SignUp(ctx, models.Publisher{Email: "dana@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	tokens, err := svc.SignIn(ctx, "dana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", tokens)
	}

	claims := &models.Claims{}
	parsed, err := jwt.ParseWithClaims(tokens.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-signing-key"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not parse: %v", err)
	}
	if claims.UserID != 1 || claims.Role != models.RolePublisher {
		t.Errorf("claims = %d/%q, want 1/publisher", claims.UserID, claims.Role)
	}

	session, ok := store.sessions[1]
	if !ok {
		t.Fatalf("no session stored")
	}
	if session.RefreshToken != tokens.RefreshToken {
		t.Errorf("session refresh token mismatch")
	}
	if session.Role != models.RolePublisher {
		t.Errorf("session role = %q, want publisher", session.Role)
	}
	if !session.ExpiresAt.After(time.Now().Add(29 * 24 * time.Hour)) {
		t.Errorf("session expiry %v is shorter than 30 days", session.ExpiresAt)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	ctx := context.Background()
	if _, err := svc.SignUp(ctx, models.Publisher{Email: "dana@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, err := svc.SignIn(ctx, "dana@example.com", "wrong"); err != models.ErrInvalidCredentials {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "hunter22"); err != models.ErrInvalidCredentials {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}
