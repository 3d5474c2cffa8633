// internal/store/records.go

// Package store implements the record-store collaborator over PostgreSQL.
package store

import (
	"context"
	"database/sql"

	apperrors "people-matcher/internal/common/errors"
	"people-matcher/internal/common/logger"
	"people-matcher/internal/models"
)

type RecordStore struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *RecordStore {
	return &RecordStore{db: db, logger: log}
}

const listUnlinkedQuery = `
	SELECT id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, '')
	FROM people
	WHERE scope_id = $1 AND external_ref IS NULL
	ORDER BY created_at, id`

// ListUnlinked returns every local record in the scope that lacks an
// external reference, in stable arrival order.
func (s *RecordStore) ListUnlinked(ctx context.Context, scopeID string) ([]models.LocalRecord, error) {
	rows, err := s.db.QueryContext(ctx, listUnlinkedQuery, scopeID)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError(err)
	}
	defer rows.Close()

	var records []models.LocalRecord
	for rows.Next() {
		var r models.LocalRecord
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email, &r.Phone); err != nil {
			return nil, apperrors.NewStoreQueryFailedError(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailedError(err)
	}
	return records, nil
}

// CountUnlinked returns the number of records awaiting linkage.
func (s *RecordStore) CountUnlinked(ctx context.Context, scopeID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM people WHERE scope_id = $1 AND external_ref IS NULL`,
		scopeID,
	).Scan(&n)
	if err != nil {
		return 0, apperrors.NewStoreQueryFailedError(err)
	}
	return n, nil
}

// PersistLink writes the approved external reference onto one local record.
func (s *RecordStore) PersistLink(ctx context.Context, localID, externalID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE people SET external_ref = $2, updated_at = NOW() WHERE id = $1`,
		localID, externalID,
	)
	if err != nil {
		return apperrors.NewLinkPersistFailedError(localID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewLinkPersistFailedError(localID, err)
	}
	if affected == 0 {
		return apperrors.NewRecordNotFoundError(localID)
	}

	s.logger.Debug("external reference persisted", map[string]interface{}{
		"localId":    localID,
		"externalId": externalID,
	})
	return nil
}
