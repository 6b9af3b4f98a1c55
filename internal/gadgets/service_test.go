package gadgets

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armory/internal/models"
	"armory/internal/repo"
)

// fakeStore — хранилище в памяти с поведением repo.GadgetStore:
// порядок создания, копии записей, ErrNotFound.
type fakeStore struct {
	gadgets map[string]models.Gadget
	order   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{gadgets: map[string]models.Gadget{}}
}

func (f *fakeStore) List(_ context.Context, status *models.GadgetStatus) ([]models.Gadget, error) {
	var out []models.Gadget
	for _, id := range f.order {
		g := f.gadgets[id]
		if status != nil && g.Status != *status {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*models.Gadget, error) {
	g, ok := f.gadgets[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := g
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, g *models.Gadget) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	f.gadgets[g.ID] = *g
	f.order = append(f.order, g.ID)
	return nil
}

func (f *fakeStore) Save(_ context.Context, g *models.Gadget) error {
	f.gadgets[g.ID] = *g
	return nil
}

// fixedRand всегда возвращает v mod n.
type fixedRand struct{ v int }

func (f fixedRand) Intn(n int) int { return f.v % n }

func TestCreate_AssignsCodenameAndStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, fixedRand{v: 2})

	g, err := svc.Create(context.Background(), "Exploding Pen", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, models.GadgetStatusAvailable, g.Status)
	assert.Equal(t, "The Phoenix", g.Codename)
	assert.Contains(t, codenames, g.Codename)
	assert.Nil(t, g.DecommissionedAt)
}

func TestList_DecoratesWithoutPersisting(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, fixedRand{v: 42})

	_, err := svc.Create(context.Background(), "Watch", nil)
	require.NoError(t, err)

	views, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "42%", views[0].MissionSuccessProbability)

	// в записи вероятность не сохраняется
	stored := store.gadgets[views[0].ID]
	assert.Equal(t, models.GadgetStatusAvailable, stored.Status)
}

func TestList_FilterByStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, fixedRand{})
	ctx := context.Background()

	a, err := svc.Create(ctx, "Watch", nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "Pen", nil)
	require.NoError(t, err)

	_, err = svc.Decommission(ctx, b.ID)
	require.NoError(t, err)

	avail := models.GadgetStatusAvailable
	views, err := svc.List(ctx, &avail)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, a.ID, views[0].ID)

	dec := models.GadgetStatusDecommissioned
	views, err = svc.List(ctx, &dec)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, b.ID, views[0].ID)
}

func TestUpdate_TransitionValidation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, fixedRand{})
	ctx := context.Background()

	g, err := svc.Create(ctx, "Watch", nil)
	require.NoError(t, err)

	deployed := models.GadgetStatusDeployed
	got, err := svc.Update(ctx, g.ID, UpdateInput{Status: &deployed})
	require.NoError(t, err)
	assert.Equal(t, models.GadgetStatusDeployed, got.Status)

	// уничтоженный гаджет не возвращается в строй
	_, _, err = svc.SelfDestruct(ctx, g.ID)
	require.NoError(t, err)

	avail := models.GadgetStatusAvailable
	_, err = svc.Update(ctx, g.ID, UpdateInput{Status: &avail})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore(), fixedRand{})
	name := "Ghost"
	_, err := svc.Update(context.Background(), uuid.NewString(), UpdateInput{Name: &name})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDecommission_SetsTimestampAndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, fixedRand{})
	ctx := context.Background()

	g, err := svc.Create(ctx, "Watch", nil)
	require.NoError(t, err)

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	got, err := svc.Decommission(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GadgetStatusDecommissioned, got.Status)
	require.NotNil(t, got.DecommissionedAt)
	assert.Equal(t, t0, *got.DecommissionedAt)

	// повторный вызов — тот же статус, отметка обновилась
	t1 := t0.Add(time.Hour)
	svc.now = func() time.Time { return t1 }

	got, err = svc.Decommission(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GadgetStatusDecommissioned, got.Status)
	require.NotNil(t, got.DecommissionedAt)
	assert.Equal(t, t1, *got.DecommissionedAt)
}

func TestDecommission_RejectedForDestroyed(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, fixedRand{})
	ctx := context.Background()

	g, err := svc.Create(ctx, "Watch", nil)
	require.NoError(t, err)
	_, _, err = svc.SelfDestruct(ctx, g.ID)
	require.NoError(t, err)

	_, err = svc.Decommission(ctx, g.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSelfDestruct_CodeFormatAndStatus(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := NewService(store, fixedRand{v: 7})
	ctx := context.Background()

	g, err := svc.Create(ctx, "Watch", nil)
	require.NoError(t, err)

	got, code, err := svc.SelfDestruct(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GadgetStatusDestroyed, got.Status)
	assert.Equal(t, "000007", code)
	assert.Regexp(t, `^\d{6}$`, code)

	// работает и повторно, и из Decommissioned
	_, code, err = svc.SelfDestruct(ctx, g.ID)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)

	g2, err := svc.Create(ctx, "Pen", nil)
	require.NoError(t, err)
	_, err = svc.Decommission(ctx, g2.ID)
	require.NoError(t, err)
	got2, _, err := svc.SelfDestruct(ctx, g2.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GadgetStatusDestroyed, got2.Status)
	// отметка decommissionedAt при уничтожении не трогается
	assert.NotNil(t, got2.DecommissionedAt)
}

func TestSelfDestruct_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore(), fixedRand{})
	_, _, err := svc.SelfDestruct(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
