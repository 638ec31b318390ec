package app

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/validate"
)

// Users is the user management panel
func (a *App) Users() *Panel[domain.User, domain.UserInput] {
	return a.users
}

// Sectors is the sector management panel
func (a *App) Sectors() *Panel[domain.Sector, domain.SectorInput] {
	return a.sectors
}

// Employees is the employee management panel
func (a *App) Employees() *Panel[domain.Employee, domain.EmployeeInput] {
	return a.employees
}

func userPanelSpec(c Client) PanelSpec[domain.User, domain.UserInput] {
	return PanelSpec[domain.User, domain.UserInput]{
		Overlay: OverlayUsers,
		Key:     "save-user",
		Saved:   "Usuário salvo com sucesso!",
		DeletePrompt: func(domain.User) string {
			return "Tem certeza que deseja excluir este usuário?"
		},
		Slot:     func(s *State) *PanelState[domain.User] { return &s.Users },
		ID:       func(u domain.User) int { return u.ID },
		List:     c.ListUsers,
		Validate: validate.User,
		Create: func(ctx context.Context, in domain.UserInput) error {
			_, err := c.CreateUser(ctx, in)
			return err
		},
		Update: func(ctx context.Context, id int, in domain.UserInput) error {
			_, err := c.UpdateUser(ctx, id, in)
			return err
		},
		Delete: c.DeleteUser,
	}
}

func sectorPanelSpec(c Client) PanelSpec[domain.Sector, domain.SectorInput] {
	return PanelSpec[domain.Sector, domain.SectorInput]{
		Overlay: OverlaySectors,
		Key:     "save-sector",
		Saved:   "Setor salvo com sucesso!",
		DeletePrompt: func(domain.Sector) string {
			return "Tem certeza que deseja excluir este setor? A exclusão removerá funcionários e feedbacks associados."
		},
		Slot: func(s *State) *PanelState[domain.Sector] { return &s.SectorAdmin },
		ID:   func(s domain.Sector) int { return s.ID },
		List: c.ListSectors,
		Validate: func(in domain.SectorInput, _ bool) error {
			return validate.Sector(in)
		},
		Create: func(ctx context.Context, in domain.SectorInput) error {
			_, err := c.CreateSector(ctx, in)
			return err
		},
		Update: func(ctx context.Context, id int, in domain.SectorInput) error {
			_, err := c.UpdateSector(ctx, id, in)
			return err
		},
		Delete: c.DeleteSector,
	}
}

func employeePanelSpec(c Client) PanelSpec[domain.Employee, domain.EmployeeInput] {
	return PanelSpec[domain.Employee, domain.EmployeeInput]{
		Overlay: OverlayEmployees,
		Key:     "save-employee",
		Saved:   "Funcionário salvo com sucesso!",
		DeletePrompt: func(domain.Employee) string {
			return "Tem certeza que deseja excluir este funcionário?"
		},
		Slot: func(s *State) *PanelState[domain.Employee] { return &s.EmployeeAdmin },
		ID:   func(e domain.Employee) int { return e.ID },
		List: func(ctx context.Context) ([]domain.Employee, error) {
			return c.ListEmployees(ctx, employeeFilterAll)
		},
		Prepare: func(ctx context.Context) (func(*State), error) {
			sectors, err := c.ListSectors(ctx)
			if err != nil {
				return nil, err
			}
			return func(s *State) { s.EmployeeFKs = sectors }, nil
		},
		Validate: func(in domain.EmployeeInput, _ bool) error {
			return validate.Employee(in)
		},
		Normalize: domain.EmployeeInput.WithProbationEnd,
		Create: func(ctx context.Context, in domain.EmployeeInput) error {
			_, err := c.CreateEmployee(ctx, in)
			return err
		},
		Update: func(ctx context.Context, id int, in domain.EmployeeInput) error {
			_, err := c.UpdateEmployee(ctx, id, in)
			return err
		},
		Delete: c.DeleteEmployee,
	}
}

// SectorName resolves a sector id against the employee panel's dropdown
func (s State) SectorName(id int) string {
	for _, sector := range s.EmployeeFKs {
		if sector.ID == id {
			return sector.Nome
		}
	}
	return "N/A"
}

// ShowAttributes opens the attribute panel with its sector selector
func (a *App) ShowAttributes(ctx context.Context) error {
	if err := a.openOverlay(OverlayAttributes); err != nil {
		return err
	}

	done := a.beginLoading()
	defer done()

	sectors, err := a.client.ListSectors(ctx)
	if err != nil {
		return a.fail(err, "")
	}
	a.store.Update(func(s *State) {
		s.AttributeAdmin = AttributePanelState{Sectors: sectors}
	})
	return nil
}

// SelectAttributeSector lists the attributes of sectorID; zero clears the
// panel
func (a *App) SelectAttributeSector(ctx context.Context, sectorID int) error {
	if sectorID <= 0 {
		a.store.Update(func(s *State) {
			s.AttributeAdmin.SectorID = 0
			s.AttributeAdmin.Items = nil
		})
		return nil
	}

	done := a.beginLoading()
	defer done()

	list, err := a.client.ListAttributes(ctx, sectorID)
	if err != nil {
		return a.fail(err, "")
	}
	a.store.Update(func(s *State) {
		s.AttributeAdmin.SectorID = sectorID
		s.AttributeAdmin.Items = list.Atributos
	})
	return nil
}

// AddAttribute adds name to the selected sector. Names already present are
// rejected before any request.
func (a *App) AddAttribute(ctx context.Context, name string) error {
	panel := a.store.Snapshot().AttributeAdmin
	if panel.SectorID == 0 {
		return a.fail(validate.Field("setor_id", 0), "")
	}
	if err := validate.Attribute(name, panel.Items); err != nil {
		return a.fail(err, "")
	}

	release, ok := a.acquire("save-attribute")
	if !ok {
		return busyError
	}
	defer release()

	err := func() error {
		done := a.beginLoading()
		defer done()
		return a.client.AddAttribute(ctx, panel.SectorID, name)
	}()
	if err != nil {
		return a.fail(err, MsgSaveFailed)
	}
	return a.SelectAttributeSector(ctx, panel.SectorID)
}

// RequestRemoveAttribute asks before removing name from the selected sector
func (a *App) RequestRemoveAttribute(name string) {
	sectorID := a.store.Snapshot().AttributeAdmin.SectorID
	a.ask(fmt.Sprintf("Tem certeza que deseja excluir o atributo '%s'?", name), func(ctx context.Context) error {
		err := func() error {
			done := a.beginLoading()
			defer done()
			return a.client.RemoveAttribute(ctx, sectorID, name)
		}()
		if err != nil {
			return a.fail(err, "")
		}
		return a.SelectAttributeSector(ctx, sectorID)
	})
}

// ShowStats opens the statistics panel
func (a *App) ShowStats(ctx context.Context) error {
	if err := a.openOverlay(OverlayStats); err != nil {
		return err
	}

	done := a.beginLoading()
	defer done()

	stats, err := a.client.Stats(ctx)
	if err != nil {
		return a.fail(err, "")
	}
	a.store.Update(func(s *State) { s.Stats = stats })
	return nil
}

// Sync triggers the spreadsheet sync and shows the backend's message, and
// the spreadsheet link when there is one
func (a *App) Sync(ctx context.Context) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}

	release, ok := a.acquire("sync")
	if !ok {
		return busyError
	}
	defer release()

	done := a.beginLoading()
	defer done()

	result, err := a.client.SyncSheets(ctx, 0)
	if err != nil {
		return a.fail(err, "")
	}

	a.Notify(NotifySuccess, result.Message)
	a.store.Update(func(s *State) {
		s.SyncResult = result
		if result.SpreadsheetURL != "" {
			s.Screen = DashboardScreen
			s.Overlay = OverlaySync
		}
	})
	return nil
}
