package entity

import "time"

// ReportType identifies a KPI report kind
type ReportType string

const (
	ReportExternalMVP   ReportType = "external_mvp"
	ReportInternalMVP   ReportType = "internal_mvp"
	ReportSemiAnnual    ReportType = "semi_annual"
	ReportMVPCompletion ReportType = "mvp_completion"
)

var validReportTypes = map[ReportType]bool{
	ReportExternalMVP:   true,
	ReportInternalMVP:   true,
	ReportSemiAnnual:    true,
	ReportMVPCompletion: true,
}

// IsValid returns true if the report type is a known kind
func (t ReportType) IsValid() bool {
	return validReportTypes[t]
}

// String returns the string representation of the report type
func (t ReportType) String() string {
	return string(t)
}

// KPIReport is one report record per (project, report_type)
type KPIReport struct {
	ID                  int64      `json:"id"`
	ProjectID           int64      `json:"project_id"`
	ReportType          ReportType `json:"report_type"`
	VerificationContent string     `json:"verification_content"`
	// MetricsPayload is opaque structured data persisted verbatim
	MetricsPayload string     `json:"metrics_payload,omitempty"`
	NumericResult  *float64   `json:"numeric_result,omitempty"`
	PlannedDate    *time.Time `json:"planned_date,omitempty"`
	PlannedBudget  *int64     `json:"planned_budget,omitempty"`
	PeriodStart    *time.Time `json:"period_start,omitempty"`
	PeriodEnd      *time.Time `json:"period_end,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
