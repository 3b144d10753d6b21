package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ims/internal/config"
	"ims/internal/dto"
	"ims/internal/model"
	"ims/internal/repository"
	"ims/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	// Authenticate verifies credentials and advances sess to Authenticated.
	// On failure sess is left untouched.
	Authenticate(ctx context.Context, sess *session.Session, username, password string) error
	// Login authenticates, routes to a panel and issues an access token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
	cost int
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	_, err := s.repo.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, ErrDuplicateUsername
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info().Uint("user_id", user.UserID).Str("username", user.Username).Str("role", user.Role).Msg("user registered")
	if _, routable := session.PanelForRole(user.Role); !routable {
		log.Warn().Str("username", user.Username).Str("role", user.Role).Msg("registered role has no panel")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) Authenticate(ctx context.Context, sess *session.Session, username, password string) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	sess.Authenticate(user)
	return nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	sess := session.New()
	if err := s.Authenticate(ctx, sess, req.Username, req.Password); err != nil {
		log.Warn().Str("username", req.Username).Err(err).Msg("login failed")
		return nil, err
	}
	panel, err := sess.SelectPanel()
	if err != nil {
		log.Warn().Str("username", req.Username).Str("role", sess.User().Role).Msg("login without panel")
		return nil, err
	}

	user := sess.User()
	token, err := s.generateToken(user, panel, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	log.Info().Str("username", user.Username).Str("panel", panel.Name).Msg("login")

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		User:        toUserResponse(user),
		Panel:       ToPanelResponse(panel),
	}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) generateToken(user *model.User, panel session.Panel, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.UserID,
		"username": user.Username,
		"role":     user.Role,
		"panel":    panel.Name,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{ID: u.UserID, Username: u.Username, Role: u.Role}
}

// ToPanelResponse converts a panel for the wire.
func ToPanelResponse(p session.Panel) dto.PanelResponse {
	caps := make([]string, len(p.Capabilities))
	for i, c := range p.Capabilities {
		caps[i] = string(c)
	}
	return dto.PanelResponse{Name: p.Name, Title: p.Title, Capabilities: caps}
}
