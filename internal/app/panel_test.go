package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

func TestUserPanelShowListsUsers(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	require.NoError(t, h.app.Users().Show(ctxT(t)))

	snap := h.snap()
	assert.Equal(t, OverlayUsers, snap.Overlay)
	assert.Len(t, snap.Users.Items, 1)
	assert.Nil(t, snap.Users.Editing)
	assert.Equal(t, []string{"GET /usuarios"}, h.backend.Calls())
}

func TestPanelEditPrefillsForm(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	require.NoError(t, h.app.Users().Show(ctxT(t)))

	user := h.snap().Users.Items[0]
	h.app.Users().Edit(&user)
	require.NotNil(t, h.snap().Users.Editing)
	assert.Equal(t, "admin", h.snap().Users.Editing.Username)

	h.app.Users().Edit(nil)
	assert.Nil(t, h.snap().Users.Editing)
}

func TestUserUpdateWithoutPasswordOmitsIt(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	ctx := ctxT(t)

	in := domain.UserInput{Username: "admin", Email: "root@example.com", UserType: domain.UserTypeAdmin}
	require.NoError(t, h.app.Users().Save(ctx, 1, in))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(h.backend.Body("PUT /usuarios/1"), &sent))
	assert.NotContains(t, sent, "password")
	assert.Equal(t, "root@example.com", sent["email"])
	assert.Equal(t, []string{"PUT /usuarios/1", "GET /usuarios"}, h.backend.Calls())
	assert.Equal(t, "Usuário salvo com sucesso!", h.lastNotification().Message)
}

func TestUserCreateRequiresPassword(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	in := domain.UserInput{Username: "maria", Email: "maria@example.com", UserType: domain.UserTypeRegular}
	require.Error(t, h.app.Users().Save(ctxT(t), 0, in))
	assert.Equal(t, "Informe a senha", h.lastNotification().Message)
	assert.Empty(t, h.backend.Calls())
}

func TestSaveFailureShowsServerReason(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	h.backend.Fail("POST /setores", http.StatusBadRequest, `{"message": "Setor já existe"}`)

	err := h.app.Sectors().Save(ctxT(t), 0, domain.SectorInput{Nome: "Produção"})
	require.Error(t, err)
	assert.Equal(t, "Setor já existe", h.lastNotification().Message)
	assert.Equal(t, []string{"POST /setores"}, h.backend.Calls())
	assert.Empty(t, h.snap().InFlight)
}

func TestSaveFailureWithoutReasonUsesGenericMessage(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	h.backend.Fail("PUT /setores/1", http.StatusInternalServerError, "")

	require.Error(t, h.app.Sectors().Save(ctxT(t), 1, domain.SectorInput{Nome: "Produção"}))
	assert.Equal(t, MsgSaveFailed, h.lastNotification().Message)
}

func TestEmployeeCreateDefaultsProbationEnd(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	ctx := ctxT(t)

	in := domain.EmployeeInput{
		Nome:          "Carla",
		SetorID:       1,
		EmExperiencia: true,
		DataAdmissao:  "2024-01-01",
	}
	require.NoError(t, h.app.Employees().Save(ctx, 0, in))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(h.backend.Body("POST /funcionarios"), &sent))
	assert.Equal(t, "2024-01-01", sent["data_admissao"])
	assert.Equal(t, "2024-02-15", sent["data_fim_experiencia"])

	assert.Equal(t, []string{"POST /funcionarios", "GET /setores", "GET /funcionarios"}, h.backend.Calls())
	assert.Equal(t, "Produção", h.snap().SectorName(1))
	assert.Equal(t, "N/A", h.snap().SectorName(42))
}

func TestEmployeeExplicitEndDateIsKept(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	in := domain.EmployeeInput{
		Nome:               "Carla",
		SetorID:            1,
		EmExperiencia:      true,
		DataAdmissao:       "2024-01-01",
		DataFimExperiencia: "2024-03-31",
	}
	require.NoError(t, h.app.Employees().Save(ctxT(t), 0, in))

	var sent map[string]any
	require.NoError(t, json.Unmarshal(h.backend.Body("POST /funcionarios"), &sent))
	assert.Equal(t, "2024-03-31", sent["data_fim_experiencia"])
}

func TestEmployeeRequiresSector(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	require.Error(t, h.app.Employees().Save(ctxT(t), 0, domain.EmployeeInput{Nome: "Carla"}))
	assert.Equal(t, "Selecione um setor", h.lastNotification().Message)
	assert.Empty(t, h.backend.Calls())
}

func TestDeleteConfirmed(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	ctx := ctxT(t)
	require.NoError(t, h.app.Users().Show(ctx))
	h.backend.Reset()

	h.app.Users().RequestDelete(h.snap().Users.Items[0])
	require.NotNil(t, h.snap().Confirm)
	assert.Equal(t, "Tem certeza que deseja excluir este usuário?", h.snap().Confirm.Prompt)
	assert.Empty(t, h.backend.Calls(), "asking must not delete")

	require.NoError(t, h.app.ResolveConfirm(ctx, true))

	assert.Equal(t, []string{"DELETE /usuarios/1", "GET /usuarios"}, h.backend.Calls())
	assert.Nil(t, h.snap().Confirm)
}

func TestDeleteRejectedStillReloads(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	ctx := ctxT(t)
	require.NoError(t, h.app.Users().Show(ctx))
	h.backend.Reset()
	h.backend.Fail("DELETE /usuarios/1", http.StatusBadRequest, `{"message": "Não é possível excluir o próprio usuário"}`)

	h.app.Users().RequestDelete(h.snap().Users.Items[0])
	require.Error(t, h.app.ResolveConfirm(ctx, true))

	assert.Equal(t, []string{"DELETE /usuarios/1", "GET /usuarios"}, h.backend.Calls())
	assert.Equal(t, "Não é possível excluir o próprio usuário", h.lastNotification().Message)
	assert.Zero(t, h.snap().Loading)
}

func TestDeleteUnreachableSkipsReload(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	ctx := ctxT(t)
	require.NoError(t, h.app.Users().Show(ctx))
	h.backend.Reset()
	h.server.Close()

	h.app.Users().RequestDelete(h.snap().Users.Items[0])
	require.Error(t, h.app.ResolveConfirm(ctx, true))
	assert.Equal(t, MsgConnection, h.lastNotification().Message)

	errs := 0
	for _, n := range h.snap().Notifications {
		if n.Kind == NotifyError {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestDeleteDeclined(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)
	ctx := ctxT(t)
	require.NoError(t, h.app.Sectors().Show(ctx))
	h.backend.Reset()

	h.app.Sectors().RequestDelete(h.snap().SectorAdmin.Items[0])
	assert.Contains(t, h.snap().Confirm.Prompt, "removerá funcionários e feedbacks")

	require.NoError(t, h.app.ResolveConfirm(ctx, false))

	assert.Empty(t, h.backend.Calls())
	assert.Nil(t, h.snap().Confirm)
	assert.Equal(t, OverlaySectors, h.snap().Overlay)
}

func TestResolveConfirmWithoutQuestion(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin(t)

	require.NoError(t, h.app.ResolveConfirm(ctxT(t), true))
	assert.Empty(t, h.backend.Calls())
}
