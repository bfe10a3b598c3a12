package services

import (
	"errors"
	"fmt"
	"strings"

	"balalaika/internal/domain"
	"balalaika/internal/live"
	"balalaika/internal/repos"
	"balalaika/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users   *repos.UserRepo
	streams *live.Topics[string, domain.Session]
}

func NewAuthService(users *repos.UserRepo) *AuthService {
	return &AuthService{Users: users, streams: live.NewTopics[string, domain.Session]("auth")}
}

func (s *AuthService) Login(sid, email, password string) (domain.Session, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return domain.Anonymous{}, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.Anonymous{}, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return domain.Anonymous{}, err
	}
	sess := domain.Authenticated{Profile: *u}
	s.streams.Publish(sid, sess)
	return sess, nil
}

func (s *AuthService) Logout(sid string) error {
	if err := s.Users.UnbindSession(sid); err != nil {
		return err
	}
	s.streams.Publish(sid, domain.Anonymous{})
	return nil
}

// Current resolves sid to a session; any lookup failure is Anonymous.
func (s *AuthService) Current(sid string) domain.Session {
	if sid == "" {
		return domain.Anonymous{}
	}
	u, err := s.Users.SessionUser(sid)
	if err != nil || u == nil {
		return domain.Anonymous{}
	}
	return domain.Authenticated{Profile: *u}
}

// Watch streams the session bound to sid, starting with the current one.
func (s *AuthService) Watch(sid string) *live.Subscription[domain.Session] {
	return s.streams.Subscribe(sid, s.Current(sid))
}

// CreateUser adds a staff account.
func (s *AuthService) CreateUser(email, name, password string) (domain.User, error) {
	email, ok := validate.Email(email)
	if !ok {
		return domain.User{}, invalid("email")
	}
	if !validate.Password(password) {
		return domain.User{}, invalid("password needs 8+ chars with upper, lower, digit and symbol")
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}
	if name, ok = validate.Name(name); !ok {
		return domain.User{}, invalid("name")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(hash)}
	if err := s.Users.Create(u); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
