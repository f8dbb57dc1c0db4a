package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"github.com/damon-houk/ledger-form/internal/domain/entity"
	"github.com/damon-houk/ledger-form/internal/domain/service"
	"github.com/damon-houk/ledger-form/internal/infrastructure/logger"
)

// ViewModel runs the form's actions against a LedgerClient.
//
// Actions that reach the ledger are serialized: a second Submit, DeleteRow or
// Refresh waits until the previous action and its follow-up list call have
// finished, so the list always reflects the last action dispatched. Field
// edits and BeginEdit never wait for the ledger.
type ViewModel struct {
	client service.LedgerClient
	logger logger.Logger

	// actions serializes remote round trips
	actions sync.Mutex

	mu    sync.RWMutex
	state State
}

// New creates a view-model in create mode with an empty list
func New(client service.LedgerClient, log logger.Logger) *ViewModel {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ViewModel{
		client: client,
		logger: log,
		state:  State{Transactions: []entity.Transaction{}},
	}
}

// State returns a copy of the current state
func (vm *ViewModel) State() State {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.state.Clone()
}

// View renders the current state
func (vm *ViewModel) View() View {
	return Render(vm.State())
}

// Mount loads the list the first time it is called and does nothing afterwards.
// The form counts as mounted even when that first load fails; call Refresh to
// retry it.
func (vm *ViewModel) Mount(ctx context.Context) error {
	return vm.dispatch(ctx, Mount{})
}

// UpdateField applies one form control change to the draft
func (vm *ViewModel) UpdateField(input Input) error {
	_, err := vm.apply(FieldChanged{Input: input})
	return err
}

// BeginEdit switches to edit mode for t and copies its values into the draft
func (vm *ViewModel) BeginEdit(t entity.Transaction) error {
	_, err := vm.apply(BeginEdit{Transaction: t})
	return err
}

// Submit creates or updates a record from the draft and refreshes the list.
// When the ledger rejects the write the draft and edit mode are kept.
func (vm *ViewModel) Submit(ctx context.Context) error {
	return vm.dispatch(ctx, Submit{})
}

// DeleteRow deletes a record and refreshes the list
func (vm *ViewModel) DeleteRow(ctx context.Context, id entity.ID) error {
	return vm.dispatch(ctx, DeleteRow{ID: id})
}

// Refresh replaces the list with a fresh snapshot
func (vm *ViewModel) Refresh(ctx context.Context) error {
	return vm.dispatch(ctx, Refresh{})
}

func (vm *ViewModel) apply(ev Event) (Effect, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	next, eff, err := Update(vm.state, ev)
	if err != nil {
		return noEffect, err
	}
	vm.state = next

	vm.logger.Debug("View-model transition", map[string]interface{}{
		"event":  fmt.Sprintf("%T", ev),
		"mode":   next.Mode().String(),
		"effect": eff.Kind.String(),
	})
	return eff, nil
}

// dispatch applies ev and then runs effects until the state settles
func (vm *ViewModel) dispatch(ctx context.Context, ev Event) error {
	vm.actions.Lock()
	defer vm.actions.Unlock()

	eff, err := vm.apply(ev)
	if err != nil {
		return err
	}

	var after EffectKind
	for eff.Kind != EffectNone {
		result, err := vm.run(ctx, eff)
		if err != nil {
			if eff.Kind == EffectList && after != EffectNone {
				err = fmt.Errorf("refresh after %s: %w", after, err)
			}
			vm.logger.Warn("Ledger action failed", map[string]interface{}{
				"effect": eff.Kind.String(),
				"id":     eff.ID.String(),
				"error":  err.Error(),
			})
			return err
		}

		after = eff.Kind
		if eff, err = vm.apply(result); err != nil {
			return err
		}
	}

	return nil
}

// run issues the remote call an effect describes and returns its result event
func (vm *ViewModel) run(ctx context.Context, eff Effect) (Event, error) {
	switch eff.Kind {
	case EffectList:
		txs, err := vm.client.List(ctx)
		if err != nil {
			return nil, err
		}
		return Listed{Transactions: txs}, nil

	case EffectCreate:
		tx, err := vm.client.Create(ctx, eff.Draft)
		if err != nil {
			return nil, err
		}
		return Saved{Transaction: *tx}, nil

	case EffectUpdate:
		tx, err := vm.client.Update(ctx, eff.ID, eff.Draft)
		if err != nil {
			return nil, err
		}
		return Saved{Transaction: *tx}, nil

	case EffectDelete:
		if err := vm.client.Delete(ctx, eff.ID); err != nil {
			return nil, err
		}
		return Deleted{ID: eff.ID}, nil

	default:
		return nil, fmt.Errorf("unsupported effect %s", eff.Kind)
	}
}
