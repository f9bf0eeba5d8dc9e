package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/garyjia/project-approval/internal/domain/entity"
)

func TestForAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   Tier
	}{
		{name: "small amount", amount: 1_000_000, want: TierUnder100M},
		{name: "just under 100M", amount: 99_999_999, want: TierUnder100M},
		{name: "exactly 100M", amount: 100_000_000, want: Tier100MTo500M},
		{name: "just under 500M", amount: 499_999_999, want: Tier100MTo500M},
		{name: "exactly 500M", amount: 500_000_000, want: TierOver500M},
		{name: "well above 500M", amount: 2_000_000_000, want: TierOver500M},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForAmount(tt.amount))
		})
	}
}

func TestRequiredReportTypes(t *testing.T) {
	assert.Equal(t,
		[]entity.ReportType{entity.ReportExternalMVP},
		RequiredReportTypes(99_999_999))

	assert.Equal(t,
		[]entity.ReportType{entity.ReportInternalMVP, entity.ReportExternalMVP},
		RequiredReportTypes(100_000_000))

	assert.Equal(t,
		[]entity.ReportType{entity.ReportInternalMVP, entity.ReportExternalMVP},
		RequiredReportTypes(500_000_000))
}

func TestSemiAnnualRequired(t *testing.T) {
	assert.False(t, SemiAnnualRequired(499_999_999))
	assert.True(t, SemiAnnualRequired(500_000_000))
}

func TestIsRequiredType(t *testing.T) {
	assert.True(t, IsRequiredType(50_000_000, entity.ReportExternalMVP))
	assert.False(t, IsRequiredType(50_000_000, entity.ReportInternalMVP))
	assert.True(t, IsRequiredType(100_000_000, entity.ReportInternalMVP))
	// Semi-annual is a recurring post-approval obligation, never in the
	// pre-approval required set.
	assert.False(t, IsRequiredType(600_000_000, entity.ReportSemiAnnual))
}
