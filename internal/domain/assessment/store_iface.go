package assessment

import "context"

type StoreAPI interface {
	CreateAssessment(ctx context.Context, record *Assessment) error
	ListAssessments(ctx context.Context, tenantID string, filter Filter, limit, offset int) ([]Assessment, int, error)
	GetAssessment(ctx context.Context, tenantID, id string) (*Assessment, error)
	DeleteAssessment(ctx context.Context, tenantID, id string) error
	ListActionItems(ctx context.Context, tenantID, assessmentID string) ([]ActionItem, error)
	UpdateActionItemStatus(ctx context.Context, tenantID, itemID, status string) error
}
