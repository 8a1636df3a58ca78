package orderstate_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstate "github.com/grupoandino/bodega-core/internal/application/orderstate"
	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	domstate "github.com/grupoandino/bodega-core/internal/domain/orderstate"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
	"github.com/grupoandino/bodega-core/pkg/logger"
)

type memOrderRepo struct {
	mu     sync.Mutex
	states map[string]*entity.OrderAllocationState
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{states: make(map[string]*entity.OrderAllocationState)}
}

func (r *memOrderRepo) Get(orderID string) (*entity.OrderAllocationState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[orderID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memOrderRepo) GetForUpdate(orderID string) (*entity.OrderAllocationState, error) {
	return r.Get(orderID)
}

func (r *memOrderRepo) Create(s *entity.OrderAllocationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[s.OrderID]; ok {
		return fmt.Errorf("orden %s ya tiene estado: %w", s.OrderID, domain.ErrInvalidInput)
	}
	cp := *s
	r.states[s.OrderID] = &cp
	return nil
}

func (r *memOrderRepo) Upsert(s *entity.OrderAllocationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.states[s.OrderID] = &cp
	return nil
}

type memTxRunner struct{ repo *memOrderRepo }

func (r *memTxRunner) RunOrder(_ context.Context, fn func(repository.OrderStateRepository) error) error {
	return fn(r.repo)
}

func newUseCase() (*appstate.UseCase, *memOrderRepo) {
	repo := newMemOrderRepo()
	uc := appstate.NewUseCase(&memTxRunner{repo: repo}, repo, logger.Nop())
	return uc, repo
}

func TestInit_CreaEstadoInicial(t *testing.T) {
	uc, _ := newUseCase()

	s, err := uc.Init(context.Background(), "ord-1", "created")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCategoryProcessing, s.Category)
	assert.Equal(t, "created", s.Code)
	assert.False(t, s.IsFinal)
	assert.True(t, s.AllocationEligible())
}

func TestInit_RechazaOrdenExistente(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Init(context.Background(), "ord-1", "created")
	require.NoError(t, err)

	_, err = uc.Init(context.Background(), "ord-1", "created")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestInit_ConcurrenteSoloUnoGana: dos inits simultáneos de la misma orden no
// pueden ganar ambos; el perdedor recibe el mismo error que el camino secuencial.
func TestInit_ConcurrenteSoloUnoGana(t *testing.T) {
	uc, repo := newUseCase()

	const intentos = 8
	errs := make(chan error, intentos)
	var wg sync.WaitGroup
	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Init(context.Background(), "ord-1", "created")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	exitos := 0
	for err := range errs {
		if err == nil {
			exitos++
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		}
	}
	assert.Equal(t, 1, exitos)

	s, err := repo.Get("ord-1")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "created", s.Code)
}

func TestTransition_AvanzaCategorias(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Init(context.Background(), "ord-1", "created")
	require.NoError(t, err)

	s, err := uc.Transition(context.Background(), "ord-1", domstate.Target{
		Category: entity.OrderCategoryShipment, Code: "dispatched",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCategoryShipment, s.Category)
	assert.False(t, s.AllocationEligible())
}

func TestTransition_RechazaRetroceso(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Init(context.Background(), "ord-1", "created")
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), "ord-1", domstate.Target{
		Category: entity.OrderCategoryPayment, Code: "paid",
	})
	require.NoError(t, err)

	_, err = uc.Transition(context.Background(), "ord-1", domstate.Target{
		Category: entity.OrderCategoryShipment, Code: "dispatched",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_EstadoFinalNoAdmiteSalidas(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Init(context.Background(), "ord-1", "created")
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), "ord-1", domstate.Target{
		Category: entity.OrderCategoryCompletion, Code: "done", IsFinal: true,
	})
	require.NoError(t, err)

	_, err = uc.Transition(context.Background(), "ord-1", domstate.Target{
		Category: entity.OrderCategoryCompletion, Code: "reopened",
	})
	assert.ErrorIs(t, err, domain.ErrTerminalState)
}

func TestTransition_OrdenInexistente(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Transition(context.Background(), "nope", domstate.Target{
		Category: entity.OrderCategoryShipment, Code: "dispatched",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGet_OrdenSinEstado(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
