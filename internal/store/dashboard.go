package store

import (
	"context"
	"fmt"
)

// DashboardStats summarizes a company's portfolio for the dashboard page.
type DashboardStats struct {
	TotalDebtors         int64            `json:"totalDebtors"`
	TotalOriginalBalance float64          `json:"totalOriginalBalance"`
	TotalCurrentBalance  float64          `json:"totalCurrentBalance"`
	TotalCollected       float64          `json:"totalCollected"`
	StatusCounts         map[string]int64 `json:"statusCounts"`
}

// DashboardStatsFor aggregates the company's debtors and payments.
func (s *Store) DashboardStatsFor(ctx context.Context, companyID string) (*DashboardStats, error) {
	stats := &DashboardStats{StatusCounts: map[string]int64{}}

	err := s.pool.QueryRow(ctx,
		`SELECT count(*),
		        coalesce(sum(original_balance), 0),
		        coalesce(sum(current_balance), 0)
		 FROM debtors WHERE company_id = $1`,
		companyID,
	).Scan(&stats.TotalDebtors, &stats.TotalOriginalBalance, &stats.TotalCurrentBalance)
	if err != nil {
		return nil, fmt.Errorf("debtor totals: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT status, count(*) FROM debtors
		 WHERE company_id = $1 GROUP BY status`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.StatusCounts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.pool.QueryRow(ctx,
		`SELECT coalesce(sum(amount), 0) FROM payments WHERE company_id = $1`,
		companyID,
	).Scan(&stats.TotalCollected)
	if err != nil {
		return nil, fmt.Errorf("payment totals: %w", err)
	}

	return stats, nil
}
