package repository

import (
	"context"

	"roomlink/internal/domain/entity"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Report, int64, error)
	Update(ctx context.Context, report *entity.Report) error
}
