package repository

//go:generate mockgen -source=confirmation.go -destination=mock_confirmation.go -package=repository

import (
	"context"

	"github.com/antinvestor/mpesa-api/service/models"
	"gorm.io/gorm/clause"
)

type ConfirmationRepository interface {
	GetByTransID(ctx context.Context, transID string) (*models.Confirmation, error)
	Save(ctx context.Context, confirmation *models.Confirmation) error
}

type confirmationRepository struct {
	abstractRepository
}

func NewConfirmationRepository(service DBProvider) ConfirmationRepository {
	return &confirmationRepository{abstractRepository{service: service}}
}

// GetByTransID returns the latest attempt recorded for an M-Pesa transaction.
func (repo *confirmationRepository) GetByTransID(ctx context.Context, transID string) (*models.Confirmation, error) {
	confirmation := models.Confirmation{}
	err := repo.readDB(ctx).Order("created_at DESC").First(&confirmation, "trans_id = ?", transID).Error
	if err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (repo *confirmationRepository) Save(ctx context.Context, confirmation *models.Confirmation) error {
	if confirmation.GetID() == "" {
		confirmation.GenID(ctx)
	}
	return repo.writeDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(confirmation).Error
}
