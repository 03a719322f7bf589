package postgres

import (
	"context"
	"database/sql"

	"travelapi/internal/model"
	"travelapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
type FilePostgres struct {
	db *sql.DB
}

func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

const fileColumns = `id, user_id, filename, original_name, mime_type, size, path, uploaded_at`

func scanFile(s scanner) (*model.StoredFile, error) {
	var f model.StoredFile
	if err := s.Scan(&f.ID, &f.UserID, &f.Filename, &f.OriginalName, &f.MimeType, &f.Size, &f.Path, &f.UploadedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FilePostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.StoredFile, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE user_id = $1 ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.StoredFile, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *FilePostgres) Create(ctx context.Context, f *model.StoredFile) (*model.StoredFile, error) {
	const q = `
		INSERT INTO files (id, user_id, filename, original_name, mime_type, size, path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + fileColumns
	return scanFile(r.db.QueryRowContext(ctx, q,
		f.ID,
		f.UserID,
		f.Filename,
		f.OriginalName,
		f.MimeType,
		f.Size,
		f.Path,
		f.UploadedAt,
	))
}

func (r *FilePostgres) FindByID(ctx context.Context, ownerID, id string) (*model.StoredFile, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	const q = `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`
	f, err := scanFile(r.db.QueryRowContext(ctx, q, id, ownerID))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (r *FilePostgres) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	const q = `DELETE FROM files WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return notFound(err)
	}
	return deleted(res)
}
