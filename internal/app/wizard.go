package app

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/validate"
)

// SelectFlow starts a new draft. Experiência branches to the subtype screen;
// every other flow goes to the sector list.
func (a *App) SelectFlow(ctx context.Context, flow domain.Flow) error {
	if err := flow.Validate(); err != nil {
		return a.fail(errors.Wrap(errors.ErrCodeDraftIncomplete, MsgDraftIncomplete, err), "")
	}

	a.store.Update(func(s *State) {
		s.Draft = Draft{Flow: flow}
		if t, ok := flow.FeedbackType(); ok {
			s.Draft.Type = t
		}
		s.Ratings = Ratings{}
		s.Attributes = nil
	})

	if flow == domain.FlowProbation {
		a.Show(ctx, ExperienceSubtypeScreen)
		return nil
	}
	a.Show(ctx, SectorScreen)
	return nil
}

// SelectSubtype picks diario_experiencia or final_experiencia. The sector is
// cleared and the employee list is filtered to people in probation.
func (a *App) SelectSubtype(ctx context.Context, subtype domain.FeedbackType) error {
	if !subtype.IsProbation() {
		return a.fail(errors.New(errors.ErrCodeDraftIncomplete, fmt.Sprintf("Subtipo inválido: %s", subtype)), "")
	}

	a.store.Update(func(s *State) {
		s.Draft.Flow = domain.FlowProbation
		s.Draft.Type = subtype
		s.Draft.Sector = nil
		s.Draft.Employee = nil
		s.Draft.EmployeeInfo = nil
	})
	a.Show(ctx, EmployeeScreen)
	return nil
}

// SelectSector records the sector and lists its employees
func (a *App) SelectSector(ctx context.Context, sector domain.Sector) {
	ref := sector.Ref()
	a.store.Update(func(s *State) {
		s.Draft.Sector = &ref
		s.Draft.Employee = nil
		s.Draft.EmployeeInfo = nil
	})
	a.Show(ctx, EmployeeScreen)
}

// SelectEmployee records the employee and opens the form. In the
// experiência flow the employee's own sector becomes the draft sector, since
// attributes are per sector.
func (a *App) SelectEmployee(ctx context.Context, employee domain.Employee) error {
	ref := employee.Ref()
	info := employee
	a.store.Update(func(s *State) {
		if s.Draft.Employee == nil || s.Draft.Employee.ID != ref.ID {
			s.Ratings = Ratings{}
			s.Attributes = nil
		}
		s.Draft.Employee = &ref
		s.Draft.EmployeeInfo = &info
		if s.Draft.IsProbationFlow() || s.Draft.Sector == nil {
			s.Draft.Sector = &domain.Ref{ID: employee.SetorID, Name: employee.SetorNome}
		}
	})
	return a.ShowForm(ctx)
}

// ShowForm opens the form matching the draft type. Rating forms fetch the
// sector's attributes and start every one unrated.
func (a *App) ShowForm(ctx context.Context) error {
	draft := a.store.Snapshot().Draft
	if draft.Type == "" || draft.Sector == nil || draft.Employee == nil {
		return a.fail(errors.New(errors.ErrCodeDraftIncomplete, MsgDraftIncomplete), "")
	}

	a.Show(ctx, FeedbackFormScreen)

	if !draft.Type.IsRating() {
		return nil
	}

	done := a.beginLoading()
	defer done()

	list, err := a.client.ListAttributes(ctx, draft.Sector.ID)
	if err != nil {
		return a.fail(err, "")
	}

	a.store.Update(func(s *State) {
		if sameAttributes(s.Attributes, list.Atributos) && len(s.Ratings.order) > 0 {
			return
		}
		s.Attributes = list.Atributos
		s.Ratings = NewRatings(list.Atributos)
	})
	return nil
}

func sameAttributes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SetRating fills stars 1..value of attribute
func (a *App) SetRating(attribute string, value int) {
	a.store.Update(func(s *State) {
		s.Ratings.Set(attribute, value)
	})
}

// ProbationCountdown returns the read-only end date and days remaining shown
// on the final experiência form
func (a *App) ProbationCountdown() (end domain.Date, days int, ok bool) {
	info := a.store.Snapshot().Draft.EmployeeInfo
	if info == nil {
		return domain.Date{}, 0, false
	}
	days, ok = info.ProbationDaysLeft(a.now())
	if !ok {
		return domain.Date{}, 0, false
	}
	return info.ProbationEnd(), days, true
}

// SubmitRatings sends a diario or diario_experiencia form. Ratings are read
// from the star state; any attribute left at zero stops the submission.
func (a *App) SubmitRatings(ctx context.Context) error {
	snap := a.store.Snapshot()
	if !snap.Draft.Type.IsRating() {
		return a.fail(errors.New(errors.ErrCodeDraftIncomplete, MsgDraftIncomplete), "")
	}
	return a.submit(ctx, snap.Draft, func(p *domain.FeedbackPayload) {
		p.Avaliacoes = snap.Ratings.Map()
	})
}

// SubmitOccurrence sends a positiva or negativa form. The description is
// sent exactly as typed.
func (a *App) SubmitOccurrence(ctx context.Context, description string) error {
	draft := a.store.Snapshot().Draft
	if !draft.Type.IsOccurrence() {
		return a.fail(errors.New(errors.ErrCodeDraftIncomplete, MsgDraftIncomplete), "")
	}
	return a.submit(ctx, draft, func(p *domain.FeedbackPayload) {
		p.Descricao = description
	})
}

// SubmitFinal sends the end-of-probation form. recommend must be an explicit
// choice.
func (a *App) SubmitFinal(ctx context.Context, details string, recommend *bool) error {
	draft := a.store.Snapshot().Draft
	if draft.Type != domain.FeedbackFinalProbation {
		return a.fail(errors.New(errors.ErrCodeDraftIncomplete, MsgDraftIncomplete), "")
	}
	return a.submit(ctx, draft, func(p *domain.FeedbackPayload) {
		p.Detalhes = details
		p.RecomendaEfetivacao = recommend
	})
}

func (a *App) submit(ctx context.Context, draft Draft, fill func(*domain.FeedbackPayload)) error {
	if draft.Employee == nil {
		return a.fail(errors.New(errors.ErrCodeDraftIncomplete, MsgDraftIncomplete), "")
	}

	payload := domain.FeedbackPayload{
		Tipo:          draft.Type,
		FuncionarioID: draft.Employee.ID,
	}
	fill(&payload)

	if err := validate.Feedback(payload); err != nil {
		return a.fail(err, "")
	}

	release, ok := a.acquire("submit-feedback")
	if !ok {
		return busyError
	}
	defer release()

	done := a.beginLoading()
	defer done()

	if _, err := a.client.SubmitFeedback(ctx, payload); err != nil {
		return a.fail(err, "")
	}

	a.logger.Info("feedback submitted", "tipo", string(payload.Tipo), "funcionario_id", payload.FuncionarioID)
	a.Notify(NotifySuccess, MsgFeedbackSaved)
	a.store.Update(func(s *State) {
		s.Draft = Draft{}
		s.Ratings = Ratings{}
		s.Attributes = nil
	})
	a.Show(ctx, DashboardScreen)
	return nil
}
