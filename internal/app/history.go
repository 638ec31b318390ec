package app

import (
	"context"

	"github.com/felixgeelhaar/feedfort/internal/api"
	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// employeeFilterAll lists every active employee
var employeeFilterAll = api.EmployeeFilter{}

// SetHistoryFilter changes the type filter and reloads. An empty type shows
// everything.
func (a *App) SetHistoryFilter(ctx context.Context, tipo domain.FeedbackType) error {
	a.store.Update(func(s *State) { s.HistoryFilter = tipo })
	return a.LoadHistory(ctx)
}

// LoadHistory fetches feedback with the current filter
func (a *App) LoadHistory(ctx context.Context) error {
	filter := domain.HistoryFilter{Tipo: a.store.Snapshot().HistoryFilter}

	done := a.beginLoading()
	defer done()

	feedback, err := a.client.ListFeedback(ctx, filter)
	if err != nil {
		return a.fail(err, "")
	}
	a.store.Update(func(s *State) { s.History = feedback })
	return nil
}

// RequestDeleteFeedback asks for confirmation before deleting f. Only the
// author or an admin may delete a record.
func (a *App) RequestDeleteFeedback(f domain.Feedback) error {
	if !f.DeletableBy(a.store.Snapshot().Session.User) {
		a.Notify(NotifyError, MsgAccessDenied)
		return errors.NewAccessDeniedError()
	}
	id := f.ID
	a.ask("Tem certeza que deseja excluir este feedback?", func(ctx context.Context) error {
		return a.deleteFeedback(ctx, id)
	})
	return nil
}

func (a *App) deleteFeedback(ctx context.Context, id int) error {
	release, ok := a.acquire("delete-feedback")
	if !ok {
		return busyError
	}
	defer release()

	err := func() error {
		done := a.beginLoading()
		defer done()
		return a.client.DeleteFeedback(ctx, id)
	}()
	if err != nil {
		_ = a.fail(err, "")
		if !api.IsUnauthorized(err) && !api.IsTransport(err) {
			_ = a.LoadHistory(ctx)
		}
		return err
	}

	a.logger.Info("feedback deleted", "id", id)
	a.Notify(NotifySuccess, MsgFeedbackDeleted)
	return a.LoadHistory(ctx)
}

func (a *App) loadEvolution(ctx context.Context) error {
	done := a.beginLoading()
	defer done()

	evo, err := a.client.DailyEvolution(ctx)
	if err != nil {
		return a.fail(err, "")
	}
	a.store.Update(func(s *State) { s.Evolution = evo })
	return nil
}
