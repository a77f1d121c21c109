package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mateo/quotient/internal/types"
)

// CreateUpload persists an upload record
func (db *DB) CreateUpload(ctx context.Context, up *types.Upload) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO uploads (id, project_id, file_name, source_type, mime_type, storage_path, size_in_mb)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		up.ID, up.ProjectID, up.FileName, up.SourceType, up.MimeType, up.StoragePath, up.SizeInMB,
	)
	if err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}
	return nil
}

// GetUpload retrieves an upload by id, or (nil, nil)
func (db *DB) GetUpload(ctx context.Context, uploadID uuid.UUID) (*types.Upload, error) {
	var up types.Upload
	err := db.pool.QueryRow(ctx,
		`SELECT id, project_id, file_name, source_type, mime_type, storage_path, size_in_mb, created_at
		 FROM uploads WHERE id = $1`,
		uploadID,
	).Scan(&up.ID, &up.ProjectID, &up.FileName, &up.SourceType, &up.MimeType,
		&up.StoragePath, &up.SizeInMB, &up.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return &up, nil
}

// SaveScanVerdict records the scan outcome on the upload row. Verdicts are
// written for infected files too; a blocked upload keeps its evidence.
func (db *DB) SaveScanVerdict(ctx context.Context, uploadID uuid.UUID, verdict *types.ScanVerdict) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE uploads SET scan_clean = $1, scan_threats = $2, scanned_at = $3 WHERE id = $4`,
		verdict.Clean, verdict.Threats, verdict.ScannedAt, uploadID,
	)
	if err != nil {
		return fmt.Errorf("failed to save scan verdict: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("upload not found: %s", uploadID)
	}
	return nil
}

// UpdateProjectDataSource updates the project's data source fields after a
// successful upload
func (db *DB) UpdateProjectDataSource(ctx context.Context, projectID uuid.UUID, sourceType string, sizeInMB float64) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE projects SET data_source_type = $1, data_size_mb = $2, updated_at = NOW() WHERE id = $3`,
		sourceType, sizeInMB, projectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project data source: %w", err)
	}
	return nil
}
