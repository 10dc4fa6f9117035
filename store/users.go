package store

import (
	"context"
	"fmt"

	"github.com/dndoverworld/server/model"
)

// UserByUsername finds a user by unique username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.Users.first(ctx, "username = ?", username)
}

// UserByEmail finds a user by unique email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.Users.first(ctx, "email = ?", email)
}

// RoleByName finds a role by unique name.
func (s *Store) RoleByName(ctx context.Context, name string) (*model.Role, error) {
	return s.Roles.first(ctx, "name = ?", name)
}

// RegisterUser creates a user holding the named role with a hashed password.
// Duplicate usernames or emails fail with ErrUniqueViolation.
func (s *Store) RegisterUser(ctx context.Context, username, email, password, roleName string) (*model.User, error) {
	role, err := s.RoleByName(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("role %q: %w", roleName, err)
	}
	u := &model.User{
		Username: username,
		Email:    email,
		RoleID:   role.ID,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
