package storage

import (
	"context"
	"time"

	"github.com/stackctl/stackctl/internal/model"
)

// Repository is the interface for operation-history persistence.
type Repository interface {
	CreateOperation(ctx context.Context, op model.Operation) error
	GetOperation(ctx context.Context, id string) (*model.Operation, error)
	ListOperations(ctx context.Context) ([]model.Operation, error)
	DeleteOperationsBefore(ctx context.Context, t time.Time) (deleted int, err error)
}
