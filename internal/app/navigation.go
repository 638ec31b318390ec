package app

import (
	"context"

	"github.com/felixgeelhaar/feedfort/internal/api"
)

// Show activates screen, deactivating every other one, then runs its entry
// action. Screens other than login need a session; admin-only screens need
// an admin.
func (a *App) Show(ctx context.Context, screen Screen) {
	snap := a.store.Snapshot()

	if screen != LoginScreen && !snap.LoggedIn() {
		screen = LoginScreen
	}
	if screen.AdminOnly() && !snap.IsAdmin() {
		a.Notify(NotifyError, MsgAccessDenied)
		return
	}

	a.store.Update(func(s *State) {
		s.Screen = screen
		s.Overlay = OverlayNone
		s.Confirm = nil
	})
	a.logger.Debug("screen", "screen", screen.String())

	switch screen {
	case DashboardScreen:
		a.refreshBanner()
	case SectorScreen:
		_ = a.loadSectors(ctx)
	case EmployeeScreen:
		_ = a.loadEmployees(ctx)
	case HistoryScreen:
		_ = a.LoadHistory(ctx)
	case DailyEvolutionChartScreen:
		_ = a.loadEvolution(ctx)
	}
}

// Back returns to the previous step of the wizard, or to the dashboard
func (a *App) Back(ctx context.Context) {
	snap := a.store.Snapshot()
	switch snap.Screen {
	case EmployeeScreen:
		if snap.Draft.IsProbationFlow() {
			a.Show(ctx, ExperienceSubtypeScreen)
			return
		}
		a.Show(ctx, SectorScreen)
	case FeedbackFormScreen:
		a.Show(ctx, EmployeeScreen)
	case LoginScreen:
	default:
		a.Show(ctx, DashboardScreen)
	}
}

// CloseOverlay hides the admin panel
func (a *App) CloseOverlay() {
	a.store.Update(func(s *State) {
		s.Overlay = OverlayNone
		s.Confirm = nil
	})
}

// openOverlay shows an admin panel over the dashboard
func (a *App) openOverlay(o Overlay) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	a.store.Update(func(s *State) {
		if s.Screen != DashboardScreen {
			s.Screen = DashboardScreen
		}
		s.Overlay = o
		s.Confirm = nil
	})
	return nil
}

func (a *App) refreshBanner() {
	a.store.Update(func(s *State) {
		s.Banner = banner(s.Session)
		s.ShowAdmin = s.Session.IsAdmin()
	})
}

func (a *App) loadSectors(ctx context.Context) error {
	done := a.beginLoading()
	defer done()

	sectors, err := a.client.ListSectors(ctx)
	if err != nil {
		return a.fail(err, "")
	}
	a.store.Update(func(s *State) { s.Sectors = sectors })
	return nil
}

// loadEmployees lists the chosen sector's employees, or everyone in
// probation for the experiência flow
func (a *App) loadEmployees(ctx context.Context) error {
	draft := a.store.Snapshot().Draft

	var filter api.EmployeeFilter
	switch {
	case draft.IsProbationFlow():
		filter.OnProbation = true
	case draft.Sector != nil:
		filter.SectorID = draft.Sector.ID
	default:
		return nil
	}

	done := a.beginLoading()
	defer done()

	employees, err := a.client.ListEmployees(ctx, filter)
	if err != nil {
		return a.fail(err, "")
	}
	a.store.Update(func(s *State) { s.Employees = employees })
	return nil
}
