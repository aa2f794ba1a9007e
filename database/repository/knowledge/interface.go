// File: database/repository/knowledge/interface.go
package knowledgeRepo

import (
	"context"

	"frontdesk/models"
)

// KnowledgeRepository is the searchable service/FAQ store. Search results
// are ordered with service hits first, then FAQ hits, capped at limit
// entries per kind. Records are written only through the ingestion
// surface; the dialog engine only reads.
type KnowledgeRepository interface {
	Search(ctx context.Context, query string, limit int) ([]models.KnowledgeHit, error)
	UpsertService(ctx context.Context, rec models.ServiceRecord) error
	UpsertFAQ(ctx context.Context, rec models.FaqRecord) error
	ListServices(ctx context.Context) ([]models.ServiceRecord, error)
	ListFAQs(ctx context.Context) ([]models.FaqRecord, error)
}
