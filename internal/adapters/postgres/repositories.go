package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"vantage/internal/domain"
)

// CompanyRepository

func (db *DB) GetCompany(ctx context.Context, companyID string) (domain.Company, bool, error) {
	var c domain.Company
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(domain, ''), COALESCE(country, '')
		FROM companies
		WHERE id = $1
	`, companyID).Scan(&c.ID, &c.Name, &c.Domain, &c.Country)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Company{}, false, nil
	}
	if err != nil {
		return domain.Company{}, false, err
	}
	return c, true, nil
}

// ListCompetitors returns the competitors a company tracks, with each
// competitor's industry names aggregated from the bridge tables.
func (db *DB) ListCompetitors(ctx context.Context, companyID string) ([]domain.Competitor, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT c.id, c.name, COALESCE(c.domain, ''), COALESCE(c.country, ''),
		       COALESCE(c.headline, ''), COALESCE(c.employees, 0), COALESCE(c.funding, ''),
		       COALESCE(array_agg(i.name ORDER BY i.name) FILTER (WHERE i.name IS NOT NULL), '{}')
		FROM company_competitors cc
		JOIN companies c ON c.id = cc.competitor_id
		LEFT JOIN company_industries ci ON ci.company_id = c.id
		LEFT JOIN industries i ON i.id = ci.industry_id
		WHERE cc.company_id = $1
		GROUP BY c.id
		ORDER BY c.name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var competitors []domain.Competitor
	for rows.Next() {
		var comp domain.Competitor
		if err := rows.Scan(&comp.ID, &comp.Name, &comp.Domain, &comp.Country,
			&comp.Headline, &comp.Employees, &comp.Funding, &comp.Industries); err != nil {
			return nil, err
		}
		competitors = append(competitors, comp)
	}
	return competitors, rows.Err()
}
