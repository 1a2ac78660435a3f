package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/nikhilverma/shopline/app/models"
	"github.com/nikhilverma/shopline/app/repositories"
	"github.com/nikhilverma/shopline/pkg/auth"
)

// AuthService issues tokens and manages accounts.
type AuthService struct {
	users *repositories.UserRepository
	carts *CartService
}

func NewAuthService() *AuthService {
	return &AuthService{
		users: repositories.NewUserRepository(),
		carts: NewCartService(),
	}
}

// TokenPair is the result of a successful login or registration.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(name, email, password string) (models.User, TokenPair, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, TokenPair{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	user := models.User{Name: name, Email: email, Password: hash, Role: models.RoleUser}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, TokenPair{}, err
	}

	pair, err := s.tokens(user)
	return user, pair, err
}

// Login verifies credentials and returns tokens. When sessionID names a
// guest cart, its lines merge into the user's cart.
func (s *AuthService) Login(email, password, sessionID string) (models.User, TokenPair, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredential
		}
		return models.User{}, TokenPair{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrInvalidCredential
	}

	if sessionID != "" {
		if err := s.carts.MergeGuestCart(sessionID, user.ID); err != nil {
			// A failed merge must not block the login.
			err = nil
		}
	}

	pair, err := s.tokens(user)
	return user, pair, err
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	return s.tokens(user)
}

// Profile returns the account for an authenticated user ID.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	return s.users.FindByID(userID)
}

func (s *AuthService) tokens(user models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
