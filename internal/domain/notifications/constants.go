package notifications

const (
	TypeActionItemAssigned  = "action_item_assigned"
	TypeAssessmentSubmitted = "assessment_submitted"
	TypeAssessmentCompleted = "assessment_completed"
	TypePasswordReset       = "password_reset"
)
