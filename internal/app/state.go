package app

import (
	"context"
	"time"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/session"
)

// Screen is a full-window view. Exactly one is active at a time.
type Screen int

// Screens
const (
	LoginScreen Screen = iota
	DashboardScreen
	SectorScreen
	EmployeeScreen
	FeedbackFormScreen
	ExperienceSubtypeScreen
	HistoryScreen
	DailyEvolutionChartScreen
)

var screenNames = map[Screen]string{
	LoginScreen:               "loginScreen",
	DashboardScreen:           "dashboardScreen",
	SectorScreen:              "sectorScreen",
	EmployeeScreen:            "employeeScreen",
	FeedbackFormScreen:        "feedbackFormScreen",
	ExperienceSubtypeScreen:   "experienceSubtypeScreen",
	HistoryScreen:             "historyScreen",
	DailyEvolutionChartScreen: "dailyEvolutionChartScreen",
}

// Screens lists every screen
var Screens = []Screen{
	LoginScreen,
	DashboardScreen,
	SectorScreen,
	EmployeeScreen,
	FeedbackFormScreen,
	ExperienceSubtypeScreen,
	HistoryScreen,
	DailyEvolutionChartScreen,
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}

// AdminOnly reports whether only admins may open the screen
func (s Screen) AdminOnly() bool {
	return s == DailyEvolutionChartScreen
}

// Overlay is an admin panel drawn over the dashboard
type Overlay string

// Overlays
const (
	OverlayNone       Overlay = ""
	OverlayUsers      Overlay = "users"
	OverlaySectors    Overlay = "sectors"
	OverlayEmployees  Overlay = "employees"
	OverlayAttributes Overlay = "attributes"
	OverlayStats      Overlay = "stats"
	OverlaySync       Overlay = "sync"
)

// NotificationKind picks the toast colour
type NotificationKind int

// Notification kinds
const (
	NotifyInfo NotificationKind = iota
	NotifySuccess
	NotifyError
)

func (k NotificationKind) String() string {
	switch k {
	case NotifySuccess:
		return "success"
	case NotifyError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a transient message for the user
type Notification struct {
	ID      int
	Kind    NotificationKind
	Message string
	At      time.Time
}

// Draft is the feedback being built by the wizard
type Draft struct {
	Flow     domain.Flow
	Type     domain.FeedbackType
	Sector   *domain.Ref
	Employee *domain.Ref

	// EmployeeInfo is the full record of the chosen employee, kept for the
	// probation countdown on the final form
	EmployeeInfo *domain.Employee
}

// IsProbationFlow reports whether the draft came through experiência
func (d Draft) IsProbationFlow() bool {
	return d.Flow == domain.FlowProbation
}

// PanelState is the list and form of one admin CRUD panel
type PanelState[T any] struct {
	Items []T

	// Editing is the record pre-filled into the form; nil means create
	Editing *T
}

// AttributePanelState is the attribute management panel
type AttributePanelState struct {
	Sectors   []domain.Sector
	SectorID  int
	Items     []string
	Selecting bool
}

// Confirm is a pending yes/no question. The action runs only on yes.
type Confirm struct {
	Prompt string
	action func(ctx context.Context) error
}

// State is everything the UI renders
type State struct {
	Screen  Screen
	Overlay Overlay
	Session session.Session

	// Banner is the "username (user_type)" line shown on the dashboard
	Banner    string
	ShowAdmin bool

	Draft      Draft
	Sectors    []domain.Sector
	Employees  []domain.Employee
	Attributes []string
	Ratings    Ratings

	History       []domain.Feedback
	HistoryFilter domain.FeedbackType
	Stats         *domain.Stats
	Evolution     *domain.DailyEvolution
	SyncResult    *domain.SyncResult

	Users          PanelState[domain.User]
	SectorAdmin    PanelState[domain.Sector]
	EmployeeAdmin  PanelState[domain.Employee]
	EmployeeFKs    []domain.Sector
	AttributeAdmin AttributePanelState

	Confirm       *Confirm
	Notifications []Notification
	// NextNotificationID is the last id handed out; ids never repeat
	NextNotificationID int
	Loading            int
	InFlight           map[string]bool
}

// IsLoading reports whether any network call is running
func (s State) IsLoading() bool {
	return s.Loading > 0
}

// LoggedIn reports whether a session is active
func (s State) LoggedIn() bool {
	return s.Session.Valid()
}

// IsAdmin reports whether the session user is an admin
func (s State) IsAdmin() bool {
	return s.Session.IsAdmin()
}

// clone copies the parts of State that are mutated in place
func (s State) clone() State {
	out := s
	out.Ratings = s.Ratings.clone()
	if s.InFlight != nil {
		out.InFlight = make(map[string]bool, len(s.InFlight))
		for k, v := range s.InFlight {
			out.InFlight[k] = v
		}
	}
	out.Notifications = append([]Notification(nil), s.Notifications...)
	return out
}
