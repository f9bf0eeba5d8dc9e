package entity

// MissingSection flags a proposal section the analysis found absent or thin
type MissingSection struct {
	SectionNumber string   `json:"section_number"`
	IsMissing     bool     `json:"is_missing"`
	IsIncomplete  bool     `json:"is_incomplete"`
	Reason        string   `json:"reason,omitempty"`
	Checkpoints   []string `json:"checkpoints,omitempty"`
}

// CompletenessReport is the structured analysis payload returned by the
// document analysis service. It is persisted verbatim against the project
// and re-displayed unmodified; nothing here is interpreted.
type CompletenessReport struct {
	CompletenessScore int              `json:"completeness_score"`
	CategoryScores    map[string]int   `json:"category_scores,omitempty"`
	MissingSections   []MissingSection `json:"missing_sections,omitempty"`
	Strengths         []string         `json:"strengths,omitempty"`
	CriticalIssues    []string         `json:"critical_issues,omitempty"`
	Recommendations   []string         `json:"recommendations,omitempty"`
}
