package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"vantage/internal/domain"
)

// SnapshotRepository. Snapshots are append-only rows; the latest per
// (company, competitor) pair is the diff baseline.

func (db *DB) LoadLatest(ctx context.Context, companyID, competitorID string) (domain.SnapshotRecord, bool, error) {
	var rec domain.SnapshotRecord
	err := db.Pool.QueryRow(ctx, `
		SELECT id, company_id, competitor_id, data, created_at
		FROM competitor_snapshots
		WHERE company_id = $1 AND competitor_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, companyID, competitorID).Scan(&rec.ID, &rec.CompanyID, &rec.CompetitorID, &rec.Data, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SnapshotRecord{}, false, nil
	}
	if err != nil {
		return domain.SnapshotRecord{}, false, err
	}
	return rec, true, nil
}

func (db *DB) Save(ctx context.Context, companyID, competitorID string, snapshot domain.Snapshot) (domain.SnapshotRecord, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return domain.SnapshotRecord{}, err
	}
	rec := domain.SnapshotRecord{CompanyID: companyID, CompetitorID: competitorID, Data: data}
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO competitor_snapshots (company_id, competitor_id, data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, companyID, competitorID, data).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return domain.SnapshotRecord{}, err
	}
	return rec, nil
}
