package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// User is one operator account within a company.
type User struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	RoleID    *string   `json:"roleId,omitempty"`
	RoleName  *string   `json:"roleName,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListUsers returns a company's users with their role names, newest first.
func (s *Store) ListUsers(ctx context.Context, companyID string) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT u.id, u.company_id, u.email, u.first_name, u.last_name,
		        u.role_id, r.name, u.active, u.created_at, u.updated_at
		 FROM users u
		 LEFT JOIN roles r ON u.role_id = r.id
		 WHERE u.company_id = $1
		 ORDER BY u.created_at DESC`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Email, &u.FirstName,
			&u.LastName, &u.RoleID, &u.RoleName, &u.Active,
			&u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser adds a user to the company.
func (s *Store) CreateUser(ctx context.Context, companyID string, u User) (*User, error) {
	if u.Email == "" {
		return nil, fmt.Errorf("user email is required")
	}
	u.ID = uuid.NewString()
	u.CompanyID = companyID

	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, company_id, email, first_name, last_name, role_id, active)
		 VALUES ($1, $2, $3, $4, $5, $6, true)
		 RETURNING active, created_at, updated_at`,
		u.ID, u.CompanyID, u.Email, u.FirstName, u.LastName, u.RoleID,
	).Scan(&u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// UpdateUser overwrites a user's mutable fields.
func (s *Store) UpdateUser(ctx context.Context, companyID, id string, u User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET email = $3, first_name = $4, last_name = $5, role_id = $6,
		     active = $7, updated_at = now()
		 WHERE company_id = $1 AND id = $2`,
		companyID, id, u.Email, u.FirstName, u.LastName, u.RoleID, u.Active)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user from the company.
func (s *Store) DeleteUser(ctx context.Context, companyID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM users WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetUserByEmail looks a user up by email within the company scope.
func (s *Store) GetUserByEmail(ctx context.Context, companyID, email string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx,
		`SELECT u.id, u.company_id, u.email, u.first_name, u.last_name,
		        u.role_id, r.name, u.active, u.created_at, u.updated_at
		 FROM users u
		 LEFT JOIN roles r ON u.role_id = r.id
		 WHERE u.company_id = $1 AND u.email = $2`,
		companyID, email,
	).Scan(&u.ID, &u.CompanyID, &u.Email, &u.FirstName, &u.LastName,
		&u.RoleID, &u.RoleName, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}
