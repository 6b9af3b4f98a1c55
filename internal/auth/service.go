package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"armory/internal/models"
	"armory/internal/repo"
)

// ErrInvalidCredentials — единый отказ логина. Неизвестный username и
// неверный пароль неразличимы снаружи, чтобы не давать перебирать имена.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore — контракт хранилища учётных записей, нужный сервису.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service — регистрация и вход по username/password.
type Service struct {
	users  UserStore
	tokens *TokenService
	cost   int
}

func NewService(users UserStore, tokens *TokenService, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, tokens: tokens, cost: bcryptCost}
}

// Register создаёт пользователя. Открытый пароль нигде не сохраняется
// и не логируется — в запись попадает только bcrypt-хэш.
// Занятый username — repo.ErrConflict.
func (s *Service) Register(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(ctx, &models.User{
		Username:     username,
		PasswordHash: string(hash),
	})
}

// Login сверяет пароль и выпускает токен на id пользователя.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.UserByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(u.ID)
}
