package auth

const (
	PermRopaView        = "ropa.view"
	PermRopaEdit        = "ropa.edit"
	PermAssessmentsView = "assessments.view"
	PermAssessmentsEdit = "assessments.edit"
	PermAssessmentsSend = "assessments.submit"
	PermDashboardView   = "dashboard.view"
	PermArticlesView    = "articles.view"
	PermArticlesEdit    = "articles.edit"
	PermTeamsManage     = "teams.manage"
	PermUsersManage     = "users.manage"
	PermAuditRead       = "audit.read"
	PermSystemAdmin     = "admin.system"
)

var AllPermissions = []string{
	PermRopaView,
	PermRopaEdit,
	PermAssessmentsView,
	PermAssessmentsEdit,
	PermAssessmentsSend,
	PermDashboardView,
	PermArticlesView,
	PermArticlesEdit,
	PermTeamsManage,
	PermUsersManage,
	PermAuditRead,
	PermSystemAdmin,
}

// DefaultTeamPermissions seeds the built-in teams of a fresh tenant. Tenants
// can edit or delete these teams afterwards like any other.
var DefaultTeamPermissions = map[string][]string{
	"Administrators": AllPermissions,
	"Privacy Officers": {
		PermRopaView,
		PermRopaEdit,
		PermAssessmentsView,
		PermAssessmentsEdit,
		PermAssessmentsSend,
		PermDashboardView,
		PermArticlesView,
		PermArticlesEdit,
		PermAuditRead,
	},
	"Assessors": {
		PermRopaView,
		PermAssessmentsView,
		PermAssessmentsEdit,
		PermDashboardView,
		PermArticlesView,
	},
	"Viewers": {
		PermRopaView,
		PermAssessmentsView,
		PermDashboardView,
		PermArticlesView,
	},
}
