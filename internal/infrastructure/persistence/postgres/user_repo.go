package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
)

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = "id, first_name, last_name, birthdate, email"

// Insert persists a new user and returns it with its assigned ID.
func (r *UserRepository) Insert(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, birthdate, email)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	row := r.conn.QueryRow(ctx, query, u.FirstName, u.LastName, u.Birthdate, u.Email)
	saved, err := scanUser(row)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return saved, nil
}

// FindByID returns the user with the given ID, or nil if none exists.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.conn.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return u, nil
}

// FindByEmail returns the user with the exact email, or nil if none exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.conn.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, nil
}

// FindAll returns every user ordered by ID.
func (r *UserRepository) FindAll(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	return r.queryUsers(ctx, query)
}

// Save updates an existing user keyed by its ID.
func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, birthdate = $3, email = $4
		WHERE id = $5
		RETURNING ` + userColumns

	saved, err := scanUser(r.conn.QueryRow(ctx, query, u.FirstName, u.LastName, u.Birthdate, u.Email, u.ID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return saved, nil
}

// Delete removes the user with the given ID. Unknown IDs are a no-op.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// SearchByEmail returns users whose email contains the fragment,
// case-insensitively.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string) ([]*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email ILIKE '%' || $1 || '%'
		ORDER BY id
	`
	return r.queryUsers(ctx, query, fragment)
}

// FindBornBefore returns users born strictly before the cutoff.
func (r *UserRepository) FindBornBefore(ctx context.Context, cutoff time.Time) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE birthdate < $1 ORDER BY id`
	return r.queryUsers(ctx, query, cutoff)
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*user.User, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Birthdate, &u.Email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
