package entity

import "time"

// BudgetEntry is one (project, year, month) budget record. Amounts are
// whole currency units.
type BudgetEntry struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"project_id"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	OpexBudget  int64     `json:"opex_budget"`
	CapexBudget int64     `json:"capex_budget"`
	OpexUsed    int64     `json:"opex_used"`
	CapexUsed   int64     `json:"capex_used"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BudgetSummary is the cumulative-to-date aggregation of a project's
// budget entries. Remaining may go negative; the read model surfaces
// overruns without blocking them.
type BudgetSummary struct {
	ProjectID        int64          `json:"project_id"`
	ThroughYear      int            `json:"through_year"`
	ThroughMonth     int            `json:"through_month"`
	OpexBudgetTotal  int64          `json:"opex_budget_total"`
	CapexBudgetTotal int64          `json:"capex_budget_total"`
	OpexUsedTotal    int64          `json:"opex_used_total"`
	CapexUsedTotal   int64          `json:"capex_used_total"`
	OpexRemaining    int64          `json:"opex_remaining"`
	CapexRemaining   int64          `json:"capex_remaining"`
	Entries          []*BudgetEntry `json:"entries,omitempty"`
}
