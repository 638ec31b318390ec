package app

import "context"

// ask parks a yes/no question in the state; the UI answers through
// ResolveConfirm
func (a *App) ask(prompt string, action func(ctx context.Context) error) {
	a.store.Update(func(s *State) {
		s.Confirm = &Confirm{Prompt: prompt, action: action}
	})
}

// ResolveConfirm answers the pending question. The action runs only when
// yes is true; either way the question is cleared.
func (a *App) ResolveConfirm(ctx context.Context, yes bool) error {
	var pending *Confirm
	a.store.Update(func(s *State) {
		pending = s.Confirm
		s.Confirm = nil
	})
	if pending == nil || !yes {
		return nil
	}
	return pending.action(ctx)
}
