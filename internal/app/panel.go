package app

import (
	"context"

	"github.com/felixgeelhaar/feedfort/internal/api"
	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// PanelSpec describes one admin CRUD panel. Users, sectors and employees
// share the same list/form/save/delete flow and differ only in these hooks.
type PanelSpec[T any, In any] struct {
	Overlay Overlay

	// Key names the in-flight lock ("save-user", ...)
	Key string

	// Saved is the success notification
	Saved string

	// DeletePrompt builds the confirmation question for an item
	DeletePrompt func(item T) string

	// Slot points at the panel's state
	Slot func(s *State) *PanelState[T]

	ID func(item T) int

	List func(ctx context.Context) ([]T, error)

	// Prepare runs before Show lists the items, e.g. to fetch dropdowns
	Prepare func(ctx context.Context) (func(*State), error)

	Validate func(in In, editing bool) error

	// Normalize adjusts the input after validation, e.g. derived fields
	Normalize func(in In) (In, error)

	Create func(ctx context.Context, in In) error
	Update func(ctx context.Context, id int, in In) error
	Delete func(ctx context.Context, id int) error
}

// Panel runs a PanelSpec against the controller
type Panel[T any, In any] struct {
	app  *App
	spec PanelSpec[T, In]
}

// NewPanel binds spec to a
func NewPanel[T any, In any](a *App, spec PanelSpec[T, In]) *Panel[T, In] {
	return &Panel[T, In]{app: a, spec: spec}
}

// Show opens the panel, fetches the list and resets the form to "create"
func (p *Panel[T, In]) Show(ctx context.Context) error {
	if err := p.app.openOverlay(p.spec.Overlay); err != nil {
		return err
	}
	p.app.store.Update(func(s *State) {
		p.spec.Slot(s).Editing = nil
	})
	return p.reload(ctx)
}

func (p *Panel[T, In]) reload(ctx context.Context) error {
	done := p.app.beginLoading()
	defer done()

	var extra func(*State)
	if p.spec.Prepare != nil {
		apply, err := p.spec.Prepare(ctx)
		if err != nil {
			return p.app.fail(err, "")
		}
		extra = apply
	}

	items, err := p.spec.List(ctx)
	if err != nil {
		return p.app.fail(err, "")
	}

	p.app.store.Update(func(s *State) {
		slot := p.spec.Slot(s)
		slot.Items = items
		slot.Editing = nil
		if extra != nil {
			extra(s)
		}
	})
	return nil
}

// Edit pre-fills the form with item; a nil item resets it to "create"
func (p *Panel[T, In]) Edit(item *T) {
	p.app.store.Update(func(s *State) {
		if item == nil {
			p.spec.Slot(s).Editing = nil
			return
		}
		copied := *item
		p.spec.Slot(s).Editing = &copied
	})
}

// Save validates in, then creates (id 0) or updates (id > 0) and reloads the
// list. Failures show the server's reason when it gave one.
func (p *Panel[T, In]) Save(ctx context.Context, id int, in In) error {
	editing := id > 0
	if err := p.spec.Validate(in, editing); err != nil {
		return p.app.fail(err, "")
	}

	if p.spec.Normalize != nil {
		normalized, err := p.spec.Normalize(in)
		if err != nil {
			return p.app.fail(errors.Wrap(errors.ErrCodeValidation, err.Error(), err), "")
		}
		in = normalized
	}

	release, ok := p.app.acquire(p.spec.Key)
	if !ok {
		return busyError
	}
	defer release()

	err := func() error {
		done := p.app.beginLoading()
		defer done()
		if editing {
			return p.spec.Update(ctx, id, in)
		}
		return p.spec.Create(ctx, in)
	}()
	if err != nil {
		return p.app.fail(err, MsgSaveFailed)
	}

	p.app.Notify(NotifySuccess, p.spec.Saved)
	return p.reload(ctx)
}

// RequestDelete asks for confirmation before deleting item
func (p *Panel[T, In]) RequestDelete(item T) {
	id := p.spec.ID(item)
	p.app.ask(p.spec.DeletePrompt(item), func(ctx context.Context) error {
		return p.delete(ctx, id)
	})
}

func (p *Panel[T, In]) delete(ctx context.Context, id int) error {
	err := func() error {
		done := p.app.beginLoading()
		defer done()
		return p.spec.Delete(ctx, id)
	}()
	if err != nil {
		_ = p.app.fail(err, "")
		// reload unless the server was unreachable or the session ended
		if !api.IsUnauthorized(err) && !api.IsTransport(err) {
			_ = p.reload(ctx)
		}
		return err
	}
	return p.reload(ctx)
}
