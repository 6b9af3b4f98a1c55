package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"armory/internal/models"
)

type GadgetStore struct{ db *gorm.DB }

func NewGadgetStore(db *gorm.DB) *GadgetStore { return &GadgetStore{db: db} }

// List возвращает гаджеты в порядке создания, опционально
// отфильтрованные по точному совпадению статуса.
func (s *GadgetStore) List(ctx context.Context, status *models.GadgetStatus) ([]models.Gadget, error) {
	var out []models.Gadget
	q := s.db.WithContext(ctx).Order("created_at ASC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GadgetStore) Get(ctx context.Context, id string) (*models.Gadget, error) {
	var g models.Gadget
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GadgetStore) Create(ctx context.Context, g *models.Gadget) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	return s.db.WithContext(ctx).Create(g).Error
}

// Save перезаписывает запись целиком. Запись должна существовать —
// вызывающий код берёт её через Get (оттуда же приходит ErrNotFound).
func (s *GadgetStore) Save(ctx context.Context, g *models.Gadget) error {
	return s.db.WithContext(ctx).Save(g).Error
}
