package repository

import (
	"context"

	"gorm.io/gorm"
)

// DBProvider hands out database handles; *frame.Service satisfies it.
type DBProvider interface {
	DB(ctx context.Context, readOnly bool) *gorm.DB
}

type abstractRepository struct {
	service DBProvider
}

func (ar *abstractRepository) readDB(ctx context.Context) *gorm.DB {
	return ar.service.DB(ctx, true)
}

func (ar *abstractRepository) writeDB(ctx context.Context) *gorm.DB {
	return ar.service.DB(ctx, false)
}
