package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
)

func TestHistory_Text(t *testing.T) {
	c := newCLI(t)
	c.login("maria")

	out, err := c.run("history", "--tipo", "negativa", "--setor", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "RESUMO")
	assert.NotContains(t, out, "AUTOR")
	assert.Contains(t, out, "09/02/2024 14:30:00")
	assert.Contains(t, out, "Atrasou a entrega")
	assert.NotContains(t, out, "<i>")
	assert.Contains(t, c.api.Calls(), "GET /feedback?setor_id=1&tipo=negativa")
}

func TestHistory_AdminSeesAuthor(t *testing.T) {
	c := newCLI(t)
	c.login("admin")

	out, err := c.run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "AUTOR")
}

func TestHistory_JSON(t *testing.T) {
	c := newCLI(t)
	c.login("maria")

	out, err := c.run("history", "-o", "json")
	require.NoError(t, err)

	var feedbacks []domain.Feedback
	require.NoError(t, json.Unmarshal([]byte(out), &feedbacks))
	require.Len(t, feedbacks, 1)
	assert.Equal(t, domain.FeedbackNegative, feedbacks[0].Tipo)
}

func TestHistory_RequiresSession(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("history")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotLoggedIn))
	assert.Empty(t, c.api.Calls())
}

func TestHistory_ExpiredSessionIsForgotten(t *testing.T) {
	c := newCLI(t)
	c.login("maria")
	c.api.expire()

	_, err := c.run("history")
	require.Error(t, err)

	_, err = c.run("whoami")
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotLoggedIn))
}

func TestHistoryFlags_Filter(t *testing.T) {
	tests := []struct {
		name    string
		flags   historyFlags
		want    domain.HistoryFilter
		wantErr bool
	}{
		{
			name:  "empty",
			flags: historyFlags{},
			want:  domain.HistoryFilter{},
		},
		{
			name:  "type and ids",
			flags: historyFlags{tipo: "diario", setor: 2, funcionario: 5},
			want:  domain.HistoryFilter{Tipo: domain.FeedbackDaily, SetorID: 2, FuncionarioID: 5},
		},
		{
			name:    "unknown type",
			flags:   historyFlags{tipo: "elogio"},
			wantErr: true,
		},
		{
			name:    "bad date",
			flags:   historyFlags{from: "10/02/2024"},
			wantErr: true,
		},
		{
			name:    "range backwards",
			flags:   historyFlags{from: "2024-02-10", to: "2024-02-01"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.filter()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryFlags_FilterDates(t *testing.T) {
	got, err := (&historyFlags{from: "2024-02-01", to: "2024-02-10"}).filter()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", got.From.String())
	assert.Equal(t, "2024-02-10", got.To.String())
}

func TestSummary(t *testing.T) {
	rated := domain.Feedback{Avaliacoes: map[string]float64{"Pontualidade": 4, "Qualidade": 5}}
	assert.Equal(t, "média 4.5 em 2 atributos", summary(rated))

	detail := domain.Feedback{Detalhes: "<p>Boa\nadaptação</p>"}
	assert.Equal(t, "Boa adaptação", summary(detail))
}

func TestHistoryTable_Empty(t *testing.T) {
	assert.Equal(t, "Nenhum feedback encontrado", historyTable(nil, true))
	assert.Equal(t, "Nenhum feedback encontrado", historyTable(nil, false))
}

func TestHistoryDelete_Force(t *testing.T) {
	c := newCLI(t)
	c.login("admin")

	out, err := c.run("history", "delete", "7", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback 7 excluído")
	assert.Contains(t, c.api.Calls(), "DELETE /feedback/7")
}

func TestHistoryDelete_OthersFeedbackRejected(t *testing.T) {
	c := newCLI(t)
	c.login("maria")

	_, err := c.run("history", "delete", "7", "-f")
	assert.EqualError(t, err, "Acesso negado")
	assert.Contains(t, c.api.Calls(), "DELETE /feedback/7")
}

func TestHistoryDelete_NeedsConfirmation(t *testing.T) {
	c := newCLI(t)
	c.login("admin")

	_, err := c.run("history", "delete", "7")
	assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	assert.NotContains(t, c.api.Calls(), "DELETE /feedback/7")

	shouldPrompt = func() bool { return true }
	confirmDelete = func(id int) (bool, error) {
		assert.Equal(t, 7, id)
		c.prompts++
		return false, nil
	}
	out, err := c.run("history", "delete", "7")
	require.NoError(t, err)
	assert.Equal(t, 1, c.prompts)
	assert.Contains(t, out, "Exclusão cancelada")
	assert.NotContains(t, c.api.Calls(), "DELETE /feedback/7")

	confirmDelete = func(int) (bool, error) { return true, nil }
	_, err = c.run("history", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, c.api.Calls(), "DELETE /feedback/7")
}

func TestHistoryDelete_BadID(t *testing.T) {
	c := newCLI(t)
	c.login("admin")

	for _, id := range []string{"abc", "0", "-3"} {
		_, err := c.run("history", "delete", id, "--force")
		assert.True(t, errors.HasCode(err, errors.ErrCodeValidation), id)
	}
}
