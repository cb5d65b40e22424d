package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spkr/internal/models"
	"github.com/desertthunder/spkr/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository implements [models.Repository] for user [models.User] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: password is empty", shared.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Create inserts a new user and sets its ID
func (r *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	query := `
		INSERT INTO users (username, password, created_at, updated_at) VALUES (?, ?, ?, ?)
	`

	id, err := insert(r.db, query, user.Username, user.Password, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", shared.ErrDuplicateUser, user.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.ID = id
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(id int64) (*models.User, error) {
	query := `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	user, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %d", shared.ErrNotFound, id)
	}
	return user, err
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE username = ?
	`

	user, err := r.scan(r.db.QueryRow(query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, username)
	}
	return user, err
}

// List retrieves all users, optionally filtered by "username"
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE 1 = 1
	`

	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// scan reads one row into a [models.User]. Timestamps are nullable in the users table.
func (r *UserRepository) scan(row scanner) (*models.User, error) {
	var (
		user      models.User
		username  sql.NullString
		password  sql.NullString
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := row.Scan(&user.ID, &username, &password, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Username = username.String
	user.Password = password.String
	user.CreatedAt = createdAt.Time
	user.UpdatedAt = updatedAt.Time

	return &user, nil
}
