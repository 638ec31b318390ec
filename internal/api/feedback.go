package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

func historyValues(f domain.HistoryFilter) url.Values {
	q := url.Values{}
	if f.Tipo != "" {
		q.Set("tipo", string(f.Tipo))
	}
	if f.SetorID > 0 {
		q.Set("setor_id", strconv.Itoa(f.SetorID))
	}
	if f.FuncionarioID > 0 {
		q.Set("funcionario_id", strconv.Itoa(f.FuncionarioID))
	}
	if !f.From.IsZero() {
		q.Set("data_inicio", f.From.String())
	}
	if !f.To.IsZero() {
		// data_fim is compared against a timestamp, so include the whole day
		q.Set("data_fim", f.To.String()+"T23:59:59.999999")
	}
	return q
}

// ListFeedback returns feedback newest first. Regular users only see their
// own records.
func (c *Client) ListFeedback(ctx context.Context, filter domain.HistoryFilter) ([]domain.Feedback, error) {
	var feedback []domain.Feedback
	err := c.do(ctx, request{method: http.MethodGet, path: "/feedback", query: historyValues(filter)}, &feedback)
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

// SubmitFeedback posts a feedback record
func (c *Client) SubmitFeedback(ctx context.Context, payload domain.FeedbackPayload) (*domain.Feedback, error) {
	var created domain.Feedback
	if err := c.do(ctx, request{method: http.MethodPost, path: "/feedback", body: payload}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteFeedback removes a feedback record. The backend allows it for the
// author and for admins.
func (c *Client) DeleteFeedback(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/feedback", id)}, nil)
}

// Stats returns feedback counts, with a per-sector breakdown for admins
func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := c.do(ctx, request{method: http.MethodGet, path: "/feedback/stats"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DailyEvolution returns the daily average rating series
func (c *Client) DailyEvolution(ctx context.Context) (*domain.DailyEvolution, error) {
	var evo domain.DailyEvolution
	if err := c.do(ctx, request{method: http.MethodGet, path: "/feedback/stats/daily_evolution"}, &evo); err != nil {
		return nil, err
	}
	return &evo, nil
}
