package audit

const (
	ActionLogin               = "auth.login"
	ActionLogout              = "auth.logout"
	ActionPasswordReset       = "auth.password_reset"
	ActionAssessmentSubmitted = "assessment.submitted"
	ActionAssessmentDeleted   = "assessment.deleted"
	ActionActionItemUpdated   = "assessment.action_item_updated"
	ActionTeamCreated         = "team.created"
	ActionTeamUpdated         = "team.updated"
	ActionTeamDeleted         = "team.deleted"
	ActionUserCreated         = "user.created"
	ActionUserUpdated         = "user.updated"
	ActionUserDeleted         = "user.deleted"
)

const (
	EntityAssessment = "assessment"
	EntityTeam       = "team"
	EntityUser       = "user"
	EntitySession    = "session"
)
