package orderstate

import (
	"context"
	"fmt"
	"time"

	"github.com/grupoandino/bodega-core/internal/domain"
	"github.com/grupoandino/bodega-core/internal/domain/entity"
	domstate "github.com/grupoandino/bodega-core/internal/domain/orderstate"
	"github.com/grupoandino/bodega-core/internal/domain/repository"
	"github.com/grupoandino/bodega-core/pkg/logger"
)

// TxRunner ejecuta la transición de estado bajo transacción con la fila bloqueada.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(orderRepo repository.OrderStateRepository) error) error
}

// UseCase aplica transiciones de estado de asignación por orden. La tabla de
// transición (qué código sigue a cuál) la aporta cada tipo de orden; aquí solo
// se hacen cumplir las reglas de la máquina: estado final sin salidas y
// secuencia de categorías sin retroceso.
type UseCase struct {
	txRunner  TxRunner
	stateRepo repository.OrderStateRepository
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, stateRepo repository.OrderStateRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, stateRepo: stateRepo, log: log}
}

// Get devuelve el estado actual de la orden.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*entity.OrderAllocationState, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.stateRepo.Get(orderID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
	}
	return s, nil
}

// Init crea el estado inicial de una orden en processing.
func (uc *UseCase) Init(ctx context.Context, orderID, code string) (*entity.OrderAllocationState, error) {
	if orderID == "" || code == "" {
		return nil, domain.ErrInvalidInput
	}
	state := &entity.OrderAllocationState{
		OrderID:   orderID,
		Category:  entity.OrderCategoryProcessing,
		Code:      code,
		IsFinal:   false,
		UpdatedAt: time.Now(),
	}
	// Insert directo: el constraint de unicidad decide la carrera entre dos
	// inits concurrentes, no un chequeo leer-luego-escribir.
	err := uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderStateRepository) error {
		return orderRepo.Create(state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Transition aplica la transición propuesta bajo lock de fila, validando las
// reglas de la máquina contra el estado realmente persistido.
func (uc *UseCase) Transition(ctx context.Context, orderID string, target domstate.Target) (*entity.OrderAllocationState, error) {
	if orderID == "" || target.Category == "" || target.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	var next *entity.OrderAllocationState
	err := uc.txRunner.RunOrder(ctx, func(orderRepo repository.OrderStateRepository) error {
		current, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return fmt.Errorf("orden %s: %w", orderID, domain.ErrNotFound)
		}
		next, err = domstate.Apply(current, target)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now()
		return orderRepo.Upsert(next)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", orderID).
		Str("category", next.Category).
		Str("code", next.Code).
		Bool("is_final", next.IsFinal).
		Msg("transición de estado aplicada")
	return next, nil
}
