package entity

// Lifecycle status tags for Project.Status
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusOnHold    = "on_hold"
)

// Project phase constants, meaningful once a project is approved
const (
	PhaseMVPDevelopment        = "mvp_development"
	PhaseBusinessLaunch        = "business_launch"
	PhaseBusinessStabilization = "business_stabilization"
)

// Notification templates
const (
	TemplateProjectSubmitted = "PROJECT_SUBMITTED"
	TemplateReviewerVoted    = "REVIEWER_VOTED"
	TemplateProjectApproved  = "PROJECT_APPROVED"
	TemplateProjectRejected  = "PROJECT_REJECTED"
	TemplateProjectResubmit  = "PROJECT_RESUBMITTED"
)
