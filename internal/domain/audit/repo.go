package audit

import "context"

// Repository persists audit entries.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
}
