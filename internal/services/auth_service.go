package services

import (
	"fmt"
	"log"
	"time"

	"mentormatch/internal/models"
	"mentormatch/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "mentor-mentee-app"
	tokenAudience = "mentor-mentee-app"
)

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID string
	Email  string
	Name   string
	Role   models.UserRole
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService. Tokens are valid for one hour;
// there is no refresh mechanism, re-login is the only renewal path.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them to
// the database. user.Password carries the plaintext on the way in and the
// bcrypt hash on the way out.
func (s *AuthService) RegisterUser(user *models.User) error {
	if !user.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, user.Role)
	}

	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("%w: %s", ErrEmailTaken, user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword) // Store the hashed password

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user and returns a signed token if successful.
// Unknown email and wrong password produce the same error.
func (s *AuthService) LoginUser(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(user)
}

// IssueToken mints a signed, time-bounded token for the user carrying the
// RFC 7519 registered claims plus name, email and role.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(s.tokenDurat)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": tokenIssuer,
		"sub": user.ID,
		"aud": tokenAudience,
		"exp": expiresAt.Unix(),
		"nbf": issuedAt.Unix(),
		"iat": issuedAt.Unix(),
		"jti": fmt.Sprintf("%s_%d", user.ID, issuedAt.Unix()),

		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a token, returning the identity claims.
// Signature, issuer, audience, not-before and expiry are all checked. An
// expired but otherwise valid token fails with ErrTokenExpired, anything
// else with ErrTokenInvalid.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			log.Printf("Token validation failed: expired token")
			return nil, ErrTokenExpired
		}
		log.Printf("Token validation error: %v", err)
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if !claims.VerifyIssuer(tokenIssuer, true) {
		log.Printf("Token validation failed: wrong issuer %v", claims["iss"])
		return nil, ErrTokenInvalid
	}
	if !claims.VerifyAudience(tokenAudience, true) {
		log.Printf("Token validation failed: wrong audience %v", claims["aud"])
		return nil, ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, ErrTokenInvalid
	}

	return &Claims{
		UserID: sub,
		Email:  email,
		Name:   name,
		Role:   models.UserRole(role),
	}, nil
}
