package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"travelapi/internal/repository"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// Store is a PostgreSQL implementation of repository.Store.
// It uses database/sql with parameterized queries and contains no business logic.
type Store struct {
	db       *sql.DB
	users    *UserPostgres
	todos    *TodoPostgres
	files    *FilePostgres
	messages *MessagePostgres
}

var _ repository.Store = (*Store)(nil)

// NewStore wires every repository onto db. Closing the store closes db.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		users:    NewUserPostgres(db),
		todos:    NewTodoPostgres(db),
		files:    NewFilePostgres(db),
		messages: NewMessagePostgres(db),
	}
}

func (s *Store) Users() repository.UserRepository       { return s.users }
func (s *Store) Todos() repository.TodoRepository       { return s.todos }
func (s *Store) Files() repository.FileRepository       { return s.files }
func (s *Store) Messages() repository.MessageRepository { return s.messages }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// validID reports whether id can match a UUID primary key at all.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// notFound maps sql.ErrNoRows and malformed UUID parameters to repository.ErrNotFound.
func notFound(err error) error {
	var pgErr *pgconn.PgError
	if errors.Is(err, sql.ErrNoRows) || errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
		return repository.ErrNotFound
	}
	return err
}

// violatedConstraint returns the name of the unique constraint err violated, if any.
func violatedConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// deleted turns a zero RowsAffected into repository.ErrNotFound.
func deleted(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
