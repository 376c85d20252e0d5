package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskflow/internal/auth"
	"github.com/BuzzLyutic/taskflow/internal/model"
	"github.com/BuzzLyutic/taskflow/internal/repo"
)

// ErrInvalidCredentials намеренно один на "нет такого пользователя"
// и "пароль не подошел".
var ErrInvalidCredentials = errors.New("invalid credentials")

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Session - то, что уходит клиенту после логина: токен и момент его
// истечения, общий для сервера и клиентского кэша.
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      model.User `json:"user"`
}

type AuthService struct {
	users repo.UserRepository
	jwt   *auth.JWTManager
}

func NewAuthService(users repo.UserRepository, jwt *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if errs := validateRegister(in); len(errs) > 0 {
		return Session{}, &ValidationError{Fields: errs}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
	})
	if errors.Is(err, repo.ErrorConflict) {
		return Session{}, &ValidationError{Fields: []FieldError{
			{Field: "email", Message: "Email already registered"},
		}}
	}
	if err != nil {
		return Session{}, err
	}

	return s.newSession(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if errors.Is(err, repo.ErrorNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		return Session{}, ErrInvalidCredentials
	}

	return s.newSession(user)
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user, err
	}

	var errs []FieldError
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 50 {
			errs = append(errs, FieldError{"name", "Name must be between 2 and 50 characters"})
		} else {
			user.Name = name
		}
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !emailPattern.MatchString(email) {
			errs = append(errs, FieldError{"email", "Email is invalid"})
		} else {
			user.Email = email
		}
	}
	if len(errs) > 0 {
		return model.User{}, &ValidationError{Fields: errs}
	}

	updated, err := s.users.Update(ctx, user)
	if errors.Is(err, repo.ErrorConflict) {
		return updated, &ValidationError{Fields: []FieldError{
			{Field: "email", Message: "Email already registered"},
		}}
	}
	return updated, err
}

func (s *AuthService) newSession(user model.User) (Session, error) {
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func validateRegister(in RegisterInput) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(in.Name)
	if utf8.RuneCountInString(name) < 2 || utf8.RuneCountInString(name) > 50 {
		errs = append(errs, FieldError{"name", "Name must be between 2 and 50 characters"})
	}
	if !emailPattern.MatchString(normalizeEmail(in.Email)) {
		errs = append(errs, FieldError{"email", "Email is invalid"})
	}
	if len(in.Password) < 6 {
		errs = append(errs, FieldError{"password", "Password must be at least 6 characters"})
	}
	return errs
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
