package gadgets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gorm.io/datatypes"

	"armory/internal/models"
)

var ErrInvalidTransition = errors.New("illegal status transition")

// Store — контракт хранилища, нужный менеджеру жизненного цикла.
type Store interface {
	List(ctx context.Context, status *models.GadgetStatus) ([]models.Gadget, error)
	Get(ctx context.Context, id string) (*models.Gadget, error)
	Create(ctx context.Context, g *models.Gadget) error
	Save(ctx context.Context, g *models.Gadget) error
}

// Rand — источник косметической случайности (кодовые имена, вероятность
// успеха миссии, код подтверждения). Подменяется в тестах.
// *rand.Rand подходит как есть.
type Rand interface {
	Intn(n int) int
}

// codenames — фиксированный набор кодовых имён для новых гаджетов.
var codenames = []string{
	"The Nightingale",
	"The Kraken",
	"The Phoenix",
	"The Viper",
	"The Specter",
}

// View — гаджет в ответе List: запись плюс нигде не хранимая
// вероятность успеха миссии, свежая на каждое чтение.
type View struct {
	models.Gadget
	MissionSuccessProbability string `json:"missionSuccessProbability"`
}

// Service применяет машину статусов и навешивает косметику.
type Service struct {
	store Store
	rng   Rand
	now   func() time.Time
}

func NewService(store Store, rng Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{store: store, rng: rng, now: time.Now}
}

func (s *Service) List(ctx context.Context, status *models.GadgetStatus) ([]View, error) {
	gs, err := s.store.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(gs))
	for _, g := range gs {
		out = append(out, View{
			Gadget:                    g,
			MissionSuccessProbability: fmt.Sprintf("%d%%", s.rng.Intn(101)),
		})
	}
	return out, nil
}

// Create заводит гаджет: статус всегда Available, кодовое имя выбирается
// сервером — что бы клиент ни прислал.
func (s *Service) Create(ctx context.Context, name string, specs datatypes.JSON) (*models.Gadget, error) {
	g := &models.Gadget{
		Name:     name,
		Status:   models.GadgetStatusAvailable,
		Codename: codenames[s.rng.Intn(len(codenames))],
		Specs:    specs,
	}
	if err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateInput — частичная перезапись; nil-поля не трогаются.
type UpdateInput struct {
	Name   *string
	Status *models.GadgetStatus
	Specs  datatypes.JSON
}

// Update перезаписывает поля гаджета. Смена статуса проходит через
// таблицу переходов: недопустимый переход — ErrInvalidTransition.
// Отсутствующий id — repo.ErrNotFound из Get.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Gadget, error) {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		if !g.Status.CanTransitionTo(*in.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, *in.Status)
		}
		g.Status = *in.Status
	}
	if in.Name != nil {
		g.Name = *in.Name
	}
	if in.Specs != nil {
		g.Specs = in.Specs
	}
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Decommission переводит гаджет в Decommissioned и ставит отметку
// времени. Повторный вызов идемпотентен — отметка обновляется.
func (s *Service) Decommission(ctx context.Context, id string) (*models.Gadget, error) {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.Status.CanTransitionTo(models.GadgetStatusDecommissioned) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, models.GadgetStatusDecommissioned)
	}
	now := s.now().UTC()
	g.Status = models.GadgetStatusDecommissioned
	g.DecommissionedAt = &now
	if err := s.store.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// SelfDestruct переводит гаджет в Destroyed и возвращает шестизначный
// код подтверждения. Код нигде не сохраняется и ничего не гейтит.
func (s *Service) SelfDestruct(ctx context.Context, id string) (*models.Gadget, string, error) {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	g.Status = models.GadgetStatusDestroyed
	if err := s.store.Save(ctx, g); err != nil {
		return nil, "", err
	}
	code := fmt.Sprintf("%06d", s.rng.Intn(1000000))
	return g, code, nil
}
