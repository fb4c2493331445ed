package legacy

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `{
  "obras": [
    {
      "id": "obra-1",
      "nome": "Reforma Cozinha",
      "tipo": "reforma",
      "area": 25,
      "localizacao": {"estado": "SP", "cidade": "Campinas"},
      "orcamento": 50000,
      "dataInicio": "2025-03-01",
      "criadaEm": "2025-02-20T14:30:00.000Z"
    }
  ],
  "despesas": [
    {
      "id": "desp-1",
      "obraId": "obra-1",
      "data": "2025-03-10",
      "categoria": "mao_obra",
      "descricao": "Semana 1",
      "valor": 1200,
      "formaPagamento": "pix",
      "professionalId": "prof-1",
      "criadoEm": "2025-03-10T18:00:00.000Z"
    },
    {
      "id": "desp-2",
      "obraId": "obra-1",
      "data": "2025-03-12",
      "categoria": "mao_obra",
      "descricao": "Semana 2",
      "valor": 1200,
      "profissionalId": "prof-1"
    }
  ],
  "profissionais": [
    {
      "id": "prof-1",
      "obraId": "obra-1",
      "nome": "João",
      "funcao": "pedreiro",
      "contrato": {"valorTotalPrevisto": 9600}
    }
  ],
  "alertasOrcamento": [
    {
      "id": "ba-1",
      "obraId": "obra-1",
      "ativo": true,
      "percentuais": [50, 80, 100],
      "disparados": [50]
    }
  ],
  "alertasPrazo": [
    {
      "id": "da-1",
      "obraId": "obra-1",
      "titulo": "Entrega dos armários",
      "data": "2025-04-15",
      "avisoAntecipado": 3,
      "disparado": false,
      "criadoEm": "2025-03-01T10:00:00.000Z"
    }
  ],
  "alertasPagamento": [
    {
      "id": "pa-1",
      "obraId": "obra-1",
      "titulo": "Pagamento semanal",
      "categoria": "profissional",
      "valor": 1200,
      "profissionalId": "prof-1",
      "dataInicial": "2025-03-07",
      "recorrencia": "semanal",
      "proximaData": "2025-03-14",
      "disparado": false,
      "criadoEm": "2025-03-01T10:00:00.000Z"
    }
  ],
  "notificacoes": [
    {
      "id": "not-1",
      "obraId": "obra-1",
      "tipo": "orcamento",
      "titulo": "Alerta de Orçamento - 50%",
      "mensagem": "Atenção! Os gastos atingiram 50% do orçamento.",
      "lida": true,
      "criadaEm": "2025-03-11T09:00:00.000Z"
    }
  ]
}`

func TestDecode(t *testing.T) {
	ex, err := Decode(strings.NewReader(sampleExport))
	require.NoError(t, err)

	assert.Len(t, ex.Projects, 1)
	assert.Len(t, ex.Expenses, 2)
	assert.Len(t, ex.Professionals, 1)
	assert.Len(t, ex.BudgetAlerts, 1)
	assert.Len(t, ex.DeadlineAlerts, 1)
	assert.Len(t, ex.PaymentAlerts, 1)
	assert.Len(t, ex.Notifications, 1)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	ex, err := Decode(strings.NewReader(sampleExport))
	require.NoError(t, err)

	stats, err := ex.Import(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Projects:       1,
		Expenses:       2,
		Professionals:  1,
		BudgetAlerts:   1,
		DeadlineAlerts: 1,
		PaymentAlerts:  1,
		Notifications:  1,
	}, stats)

	p, err := store.GetProject(ctx, "obra-1")
	require.NoError(t, err)
	assert.Equal(t, "Reforma Cozinha", p.Name)
	assert.Equal(t, 50000.0, p.BudgetBRL)
	assert.Equal(t, "SP", p.State)
	require.NotNil(t, p.StartDate)

	// Both spellings of the professional link collapse into one field.
	expenses, err := store.ListPaymentsByProfessional(ctx, "obra-1", "prof-1")
	require.NoError(t, err)
	assert.Len(t, expenses, 2)

	pros, err := store.ListProfessionals(ctx, "obra-1")
	require.NoError(t, err)
	require.Len(t, pros, 1)
	assert.Equal(t, 9600.0, pros[0].ExpectedTotalBRL)

	alert, err := store.GetBudgetAlert(ctx, "obra-1")
	require.NoError(t, err)
	assert.True(t, alert.Active)
	assert.Equal(t, []float64{50}, alert.Fired)

	payments, err := store.ListPaymentAlerts(ctx, "obra-1")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, model.RecurrenceWeekly, payments[0].Recurrence)
	assert.Equal(t, model.PaymentProfessional, payments[0].Category)

	notifications, err := store.ListNotifications(ctx, "obra-1")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].Read)
	assert.Equal(t, model.KindBudget, notifications[0].Kind)
}

func TestImportUnknownRecurrence(t *testing.T) {
	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	ex, err := Decode(strings.NewReader(`{
	  "alertasPagamento": [
	    {
	      "id": "pa-1",
	      "obraId": "obra-1",
	      "titulo": "x",
	      "categoria": "profissional",
	      "dataInicial": "2025-03-07",
	      "recorrencia": "quinzenal",
	      "proximaData": "2025-03-14",
	      "criadoEm": "2025-03-01T10:00:00.000Z"
	    }
	  ]
	}`))
	require.NoError(t, err)

	_, err = ex.Import(context.Background(), store)
	assert.ErrorContains(t, err, "unknown recurrence")
}
