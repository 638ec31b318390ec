// Package app is the state container and controller of the feedback client.
// App holds the operations the UI triggers; Store holds the state they
// produce. Network calls are expected to run off the UI goroutine, and their
// results land in the Store through Update.
package app

import (
	"context"
	"time"

	"github.com/felixgeelhaar/feedfort/internal/api"
	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/log"
	"github.com/felixgeelhaar/feedfort/internal/session"
)

// Client is the subset of the API client the controller uses
type Client interface {
	SetToken(token string)
	OnUnauthorized(fn func())

	Login(ctx context.Context, username, password string) (*domain.LoginResponse, error)

	ListSectors(ctx context.Context) ([]domain.Sector, error)
	CreateSector(ctx context.Context, in domain.SectorInput) (*domain.Sector, error)
	UpdateSector(ctx context.Context, id int, in domain.SectorInput) (*domain.Sector, error)
	DeleteSector(ctx context.Context, id int) error

	ListAttributes(ctx context.Context, sectorID int) (*domain.AttributeList, error)
	AddAttribute(ctx context.Context, sectorID int, name string) error
	RemoveAttribute(ctx context.Context, sectorID int, name string) error

	ListEmployees(ctx context.Context, filter api.EmployeeFilter) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id int, in domain.EmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id int) error

	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int, in domain.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int) error

	ListFeedback(ctx context.Context, filter domain.HistoryFilter) ([]domain.Feedback, error)
	SubmitFeedback(ctx context.Context, payload domain.FeedbackPayload) (*domain.Feedback, error)
	DeleteFeedback(ctx context.Context, id int) error
	Stats(ctx context.Context) (*domain.Stats, error)
	DailyEvolution(ctx context.Context) (*domain.DailyEvolution, error)
	SyncSheets(ctx context.Context, feedbackID int) (*domain.SyncResult, error)
}

// User-facing messages
const (
	MsgLoginOK         = "Login realizado com sucesso!"
	MsgLoginFailed     = "Erro no login"
	MsgConnection      = "Erro de conexão"
	MsgLogoutOK        = "Logout realizado com sucesso!"
	MsgSessionExpired  = "Sessão expirada. Faça login novamente."
	MsgAccessDenied    = "Acesso negado"
	MsgFeedbackSaved   = "Feedback salvo com sucesso!"
	MsgFeedbackDeleted = "Feedback excluído com sucesso!"
	MsgSaveFailed      = "Erro ao salvar"
	MsgBusy            = "Operação em andamento, aguarde"
	MsgDraftIncomplete = "Selecione o tipo, o setor e o funcionário antes de continuar"
)

// maxNotifications bounds the toast queue
const maxNotifications = 5

// App is the controller behind every screen
type App struct {
	store    *Store
	client   Client
	sessions *session.Store
	logger   *log.Logger
	now      func() time.Time

	users     *Panel[domain.User, domain.UserInput]
	sectors   *Panel[domain.Sector, domain.SectorInput]
	employees *Panel[domain.Employee, domain.EmployeeInput]
}

// Option configures an App
type Option func(*App)

// WithLogger sets the controller logger
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithClock overrides the clock used for notifications and countdowns
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// New wires a controller to its store, API client and session store. The
// client's 401 hook is bound to session expiry.
func New(store *Store, client Client, sessions *session.Store, opts ...Option) *App {
	a := &App{
		store:    store,
		client:   client,
		sessions: sessions,
		logger:   log.DefaultLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.users = NewPanel(a, userPanelSpec(client))
	a.sectors = NewPanel(a, sectorPanelSpec(client))
	a.employees = NewPanel(a, employeePanelSpec(client))
	client.OnUnauthorized(a.expire)
	return a
}

// Store returns the state container
func (a *App) Store() *Store {
	return a.store
}

// Now returns the controller clock
func (a *App) Now() time.Time {
	return a.now()
}

// Notify queues a notification
func (a *App) Notify(kind NotificationKind, message string) {
	a.store.Update(func(s *State) {
		s.NextNotificationID++
		s.Notifications = append(s.Notifications, Notification{
			ID:      s.NextNotificationID,
			Kind:    kind,
			Message: message,
			At:      a.now(),
		})
		if len(s.Notifications) > maxNotifications {
			s.Notifications = s.Notifications[len(s.Notifications)-maxNotifications:]
		}
	})
}

// Dismiss removes a notification by id
func (a *App) Dismiss(id int) {
	a.store.Update(func(s *State) {
		kept := make([]Notification, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		s.Notifications = kept
	})
}

// beginLoading bumps the loading counter; the returned func undoes it and
// must be deferred
func (a *App) beginLoading() func() {
	a.store.Update(func(s *State) { s.Loading++ })
	return func() {
		a.store.Update(func(s *State) {
			if s.Loading > 0 {
				s.Loading--
			}
		})
	}
}

// acquire takes the in-flight lock for key. A second caller gets false and
// an info notification.
func (a *App) acquire(key string) (func(), bool) {
	acquired := false
	a.store.Update(func(s *State) {
		if s.InFlight[key] {
			return
		}
		if s.InFlight == nil {
			s.InFlight = map[string]bool{}
		}
		s.InFlight[key] = true
		acquired = true
	})
	if !acquired {
		a.Notify(NotifyInfo, MsgBusy)
		return func() {}, false
	}
	return func() {
		a.store.Update(func(s *State) { delete(s.InFlight, key) })
	}, true
}

// busyError is returned when an action is already running
var busyError = errors.New(errors.ErrCodeInFlight, MsgBusy)

// requireAdmin notifies and fails for non-admin sessions
func (a *App) requireAdmin() error {
	if a.store.Snapshot().IsAdmin() {
		return nil
	}
	a.Notify(NotifyError, MsgAccessDenied)
	return errors.NewAccessDeniedError()
}

// fail reports err to the user. 401s were already handled by expire.
// fallback replaces the generic request message when the server gave no
// reason.
func (a *App) fail(err error, fallback string) error {
	if err == nil {
		return nil
	}
	switch {
	case api.IsUnauthorized(err):
	case api.IsTransport(err):
		a.Notify(NotifyError, MsgConnection)
	default:
		if reason, ok := api.ServerReason(err); ok {
			a.Notify(NotifyError, reason)
			break
		}
		var fe *errors.FeedfortError
		if errors.As(err, &fe) && fe.Code.Category() == "VALID" {
			a.Notify(NotifyError, fe.Message)
			break
		}
		if fallback == "" {
			fallback = api.FallbackMessage
		}
		a.Notify(NotifyError, fallback)
	}
	a.logger.WithError(err).Debug("action failed")
	return err
}
