package postgres

import (
	"context"

	"vantage/internal/domain"
	"vantage/internal/ports"
)

// SignalRepository

func (db *DB) SaveSignal(ctx context.Context, signal *domain.Signal) error {
	details := domain.EncodeDetails(signal.Details, signal.RelatedNews)
	return db.Pool.QueryRow(ctx, `
		INSERT INTO competitor_signals
			(company_id, competitor_id, signal_type, category, severity, message, details, source_url, is_new)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
		RETURNING id, created_at
	`, signal.CompanyID, signal.CompetitorID, signal.SignalType, signal.Category,
		signal.Severity, signal.Message, details, signal.SourceURL, signal.IsNew,
	).Scan(&signal.ID, &signal.CreatedAt)
}

func (db *DB) ListSignals(ctx context.Context, companyID, category string) ([]domain.Signal, error) {
	query := `
		SELECT id, company_id, competitor_id, signal_type, category, severity,
		       message, COALESCE(details, ''), COALESCE(source_url, ''), is_new, created_at
		FROM competitor_signals
		WHERE company_id = $1`
	args := []any{companyID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []domain.Signal
	for rows.Next() {
		var sig domain.Signal
		var details string
		if err := rows.Scan(&sig.ID, &sig.CompanyID, &sig.CompetitorID, &sig.SignalType,
			&sig.Category, &sig.Severity, &sig.Message, &details, &sig.SourceURL,
			&sig.IsNew, &sig.CreatedAt); err != nil {
			return nil, err
		}
		sig.Details, sig.RelatedNews = domain.DecodeDetails(details)
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

func (db *DB) CountUnread(ctx context.Context, companyID string) ([]ports.CategoryCount, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT COALESCE(category, ''), COUNT(*)
		FROM competitor_signals
		WHERE company_id = $1 AND is_new
		GROUP BY category
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []ports.CategoryCount
	for rows.Next() {
		var cc ports.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

func (db *DB) MarkAllRead(ctx context.Context, companyID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE competitor_signals SET is_new = FALSE
		WHERE company_id = $1 AND is_new
	`, companyID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
