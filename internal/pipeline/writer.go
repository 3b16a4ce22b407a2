package pipeline

import (
	"context"

	"communitygraph/pkg/models"
)

// RowSource loads every input row before the build starts.
type RowSource interface {
	ReadRows(ctx context.Context) ([]models.Row, error)
}

// DocumentWriter persists a serialized graph document.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, data []byte) error
	Close() error
}

// Committer is implemented by sources that consume their input. Commit runs
// only after the document was written.
type Committer interface {
	Commit(ctx context.Context) error
}
