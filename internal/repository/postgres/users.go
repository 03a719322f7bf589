package postgres

import (
	"context"
	"database/sql"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, username, email, password_hash, name`

// Create inserts a user. Unique violations on email or username map to the repository sentinels.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, username, email, password_hash, name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q, u.ID, u.Username, u.Email, u.PasswordHash, u.Name)
	out, err := scanUser(row)
	if err != nil {
		if name, ok := violatedConstraint(err); ok {
			switch name {
			case "users_email_key":
				return nil, repository.ErrDuplicateEmail
			case "users_username_key":
				return nil, repository.ErrDuplicateUsername
			}
		}
		return nil, err
	}
	return out, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

// findBy is only ever called with a fixed column name.
func (r *UserPostgres) findBy(ctx context.Context, column, value string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, value))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name); err != nil {
		return nil, err
	}
	return &u, nil
}
