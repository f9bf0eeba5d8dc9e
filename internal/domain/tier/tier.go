// Package tier derives required KPI reporting from a project's requested
// amount. The mapping is a pure, total function over an ordered threshold
// table so it can be unit-tested without persistence.
package tier

import "github.com/garyjia/project-approval/internal/domain/entity"

// Tier is a requested-amount bucket
type Tier string

const (
	TierUnder100M  Tier = "under_100m"
	Tier100MTo500M Tier = "100m_to_500m"
	TierOver500M   Tier = "over_500m"
)

// Amount thresholds in whole currency units
const (
	Threshold100M = 100_000_000
	Threshold500M = 500_000_000
)

// band is one row of the ordered (threshold, tier, required-set) table.
// Bands are evaluated top-down; the first band whose upper bound exceeds
// the amount wins.
type band struct {
	upperBound int64 // exclusive; 0 means unbounded
	tier       Tier
	required   []entity.ReportType
}

var bands = []band{
	{
		upperBound: Threshold100M,
		tier:       TierUnder100M,
		required:   []entity.ReportType{entity.ReportExternalMVP},
	},
	{
		upperBound: Threshold500M,
		tier:       Tier100MTo500M,
		required:   []entity.ReportType{entity.ReportInternalMVP, entity.ReportExternalMVP},
	},
	{
		upperBound: 0,
		tier:       TierOver500M,
		required:   []entity.ReportType{entity.ReportInternalMVP, entity.ReportExternalMVP},
	},
}

// ForAmount returns the tier for a requested amount
func ForAmount(amount int64) Tier {
	for _, b := range bands {
		if b.upperBound == 0 || amount < b.upperBound {
			return b.tier
		}
	}
	return TierOver500M
}

// RequiredReportTypes returns the pre-approval report types mandated for
// the amount's tier
func RequiredReportTypes(amount int64) []entity.ReportType {
	for _, b := range bands {
		if b.upperBound == 0 || amount < b.upperBound {
			out := make([]entity.ReportType, len(b.required))
			copy(out, b.required)
			return out
		}
	}
	return nil
}

// SemiAnnualRequired returns true if the tier mandates recurring
// semi-annual reports after approval
func SemiAnnualRequired(amount int64) bool {
	return ForAmount(amount) == TierOver500M
}

// IsRequiredType returns true if the report type is in the amount's
// mandatory pre-approval set
func IsRequiredType(amount int64, rt entity.ReportType) bool {
	for _, t := range RequiredReportTypes(amount) {
		if t == rt {
			return true
		}
	}
	return false
}
