package services

import (
	"context"
	"log"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"postlinkBack/internal/models"
	"postlinkBack/utils"
)

const accessTokenTTL = 15 * time.Minute

type authPublisherStore interface {
	CreatePublisher(ctx context.Context, p models.Publisher) (models.Publisher, error)
	GetPublisherByEmail(ctx context.Context, email string) (models.Publisher, error)
	CreateSession(ctx context.Context, session models.Session) error
}

// AuthService handles publisher sign-up/sign-in with bcrypt hashes, JWT
// access tokens and DB-backed refresh sessions.
type AuthService struct {
	PublisherRepo authPublisherStore
	Tokens        *utils.Manager
	SigningKey    string
}

func (s *AuthService) SignUp(ctx context.Context, p models.Publisher) (models.Publisher, error) {
	if p.Email == "" || p.Password == "" {
		return models.Publisher{}, &models.ValidationError{Reason: "email and password are required"}
	}

	existing, err := s.PublisherRepo.GetPublisherByEmail(ctx, p.Email)
	if err != nil && err != models.ErrPublisherNotFound {
		return models.Publisher{}, err
	}
	if existing.Email != "" {
		return models.Publisher{}, models.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Publisher{}, err
	}
	p.Password = string(hashed)
	p.Role = models.RolePublisher
	p.Status = "active"
	p.AccountTier = models.TierSilver
	p.CreatedAt = time.Now()

	return s.PublisherRepo.CreatePublisher(ctx, p)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (models.Tokens, error) {
	publisher, err := s.PublisherRepo.GetPublisherByEmail(ctx, email)
	if err != nil {
		log.Printf("sign in: publisher not found: %s", email)
		return models.Tokens{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(publisher.Password), []byte(password)); err != nil {
		log.Printf("sign in: invalid password for %s", email)
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	accessToken, err := s.newAccessToken(publisher.ID, publisher.Role)
	if err != nil {
		return models.Tokens{}, err
	}
	refreshToken, err := s.Tokens.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, err
	}

	session := models.Session{
		UserID:       publisher.ID,
		Role:         publisher.Role,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(30 * 24 * time.Hour),
	}
	if err := s.PublisherRepo.CreateSession(ctx, session); err != nil {
		return models.Tokens{}, err
	}

	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) newAccessToken(publisherID int, role string) (string, error) {
	claims := &models.Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(accessTokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		UserID: publisherID,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.SigningKey))
}
