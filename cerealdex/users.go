package cerealdex

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CreateUser stores a new user with a bcrypt hash of password
func (s *Store) CreateUser(ctx context.Context, name, password string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, InvalidInputError("name", "user name cannot be empty")
	}
	if password == "" {
		return User{}, InvalidInputError("password", "password cannot be empty")
	}
	if _, err := s.user(ctx, name); err == nil {
		return User{}, InvalidInputError("name", "user already exists")
	} else if !IsKind(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return User{}, Wrap(ErrInvalidInput, "hash password", err)
	}
	if _, err := s.db.ExecContext(ctx, s.adapter.SQL().InsertUser, name, string(hash)); err != nil {
		return User{}, Wrap(ErrSQL, "insert user", err)
	}
	s.log.Info("user created", "user", name)
	return s.user(ctx, name)
}

func (s *Store) user(ctx context.Context, name string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, s.adapter.SQL().GetUserByName, name).Scan(&u.ID, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, &Error{Kind: ErrNotFound, Message: "user not found", Field: name}
	}
	if err != nil {
		return User{}, Wrap(ErrSQL, "get user", err)
	}
	return u, nil
}

// Authenticate checks name and password. Unknown users and wrong
// passwords both fail with ErrUnauthorized.
func (s *Store) Authenticate(ctx context.Context, name, password string) (User, error) {
	u, err := s.user(ctx, name)
	if IsKind(err, ErrNotFound) {
		return User{}, New(ErrUnauthorized, "invalid credentials")
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, New(ErrUnauthorized, "invalid credentials")
	}
	return u, nil
}

// SetPassword replaces the password of an existing user
func (s *Store) SetPassword(ctx context.Context, name, password string) error {
	if password == "" {
		return InvalidInputError("password", "password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return Wrap(ErrInvalidInput, "hash password", err)
	}
	res, err := s.db.ExecContext(ctx, s.adapter.SQL().UpdateUserHash, name, string(hash))
	if err != nil {
		return Wrap(ErrSQL, "update user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Wrap(ErrSQL, "update user", err)
	}
	if n == 0 {
		return &Error{Kind: ErrNotFound, Message: "user not found", Field: name}
	}
	return nil
}

// UserCount returns the number of registered users
func (s *Store) UserCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, s.adapter.SQL().CountUsers).Scan(&n); err != nil {
		return 0, Wrap(ErrSQL, "count users", err)
	}
	return n, nil
}
