// Package legacy decodes data exports from the original Obreasy web client,
// which kept every collection as a JSON array in browser local storage under
// Portuguese keys and field names.
package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/storage"
)

// Export mirrors a local-storage dump of the web client: one JSON object
// whose keys are the storage keys the client used.
type Export struct {
	Projects       []legacyProject       `json:"obras"`
	Expenses       []legacyExpense       `json:"despesas"`
	Professionals  []legacyProfessional  `json:"profissionais"`
	BudgetAlerts   []legacyBudgetAlert   `json:"alertasOrcamento"`
	DeadlineAlerts []legacyDeadlineAlert `json:"alertasPrazo"`
	PaymentAlerts  []legacyPaymentAlert  `json:"alertasPagamento"`
	Notifications  []legacyNotification  `json:"notificacoes"`
}

// Stats counts the records loaded by an import.
type Stats struct {
	Projects       int
	Expenses       int
	Professionals  int
	BudgetAlerts   int
	DeadlineAlerts int
	PaymentAlerts  int
	Notifications  int
}

// Decode parses a local-storage export. Malformed JSON is an explicit error,
// not an empty collection.
func Decode(r io.Reader) (*Export, error) {
	var ex Export
	dec := json.NewDecoder(r)
	if err := dec.Decode(&ex); err != nil {
		return nil, fmt.Errorf("decode legacy export: %w", err)
	}
	return &ex, nil
}

// Import loads the export into the store, normalizing legacy field variants
// along the way. The historical professionalId/profissionalId split collapses
// into the canonical professional_id field.
func (ex *Export) Import(ctx context.Context, store storage.Store) (Stats, error) {
	var stats Stats

	for i := range ex.Projects {
		p, err := ex.Projects[i].toModel()
		if err != nil {
			return stats, err
		}
		if err := store.CreateProject(ctx, p); err != nil {
			return stats, fmt.Errorf("import project %q: %w", p.ID, err)
		}
		stats.Projects++
	}

	for i := range ex.Professionals {
		p := ex.Professionals[i].toModel()
		if err := store.AddProfessional(ctx, p); err != nil {
			return stats, fmt.Errorf("import professional %q: %w", p.ID, err)
		}
		stats.Professionals++
	}

	for i := range ex.Expenses {
		e, err := ex.Expenses[i].toModel()
		if err != nil {
			return stats, err
		}
		if err := store.AddExpense(ctx, e); err != nil {
			return stats, fmt.Errorf("import expense %q: %w", e.ID, err)
		}
		stats.Expenses++
	}

	for i := range ex.BudgetAlerts {
		a := ex.BudgetAlerts[i].toModel()
		if err := store.UpsertBudgetAlert(ctx, a); err != nil {
			return stats, fmt.Errorf("import budget alert %q: %w", a.ID, err)
		}
		stats.BudgetAlerts++
	}

	for i := range ex.DeadlineAlerts {
		a, err := ex.DeadlineAlerts[i].toModel()
		if err != nil {
			return stats, err
		}
		if err := store.CreateDeadlineAlert(ctx, a); err != nil {
			return stats, fmt.Errorf("import deadline alert %q: %w", a.ID, err)
		}
		stats.DeadlineAlerts++
	}

	for i := range ex.PaymentAlerts {
		a, err := ex.PaymentAlerts[i].toModel()
		if err != nil {
			return stats, err
		}
		if err := store.CreatePaymentAlert(ctx, a); err != nil {
			return stats, fmt.Errorf("import payment alert %q: %w", a.ID, err)
		}
		stats.PaymentAlerts++
	}

	for i := range ex.Notifications {
		n, err := ex.Notifications[i].toModel()
		if err != nil {
			return stats, err
		}
		if err := store.AppendNotification(ctx, n); err != nil {
			return stats, fmt.Errorf("import notification %q: %w", n.ID, err)
		}
		stats.Notifications++
	}

	return stats, nil
}

type legacyProject struct {
	ID       string  `json:"id"`
	Name     string  `json:"nome"`
	Kind     string  `json:"tipo"`
	AreaM2   float64 `json:"area"`
	Location struct {
		State string `json:"estado"`
		City  string `json:"cidade"`
	} `json:"localizacao"`
	Budget    *float64 `json:"orcamento"`
	StartDate string   `json:"dataInicio,omitempty"`
	EndDate   string   `json:"dataTermino,omitempty"`
	CreatedAt string   `json:"criadaEm"`
}

func (p *legacyProject) toModel() (*model.Project, error) {
	created, err := parseLegacyTime(p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %q created-at: %w", p.ID, err)
	}

	out := &model.Project{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      p.Kind,
		AreaM2:    p.AreaM2,
		State:     p.Location.State,
		City:      p.Location.City,
		CreatedAt: created,
	}
	if p.Budget != nil {
		out.BudgetBRL = *p.Budget
	}
	if p.StartDate != "" {
		d, err := parseLegacyTime(p.StartDate)
		if err != nil {
			return nil, fmt.Errorf("project %q start date: %w", p.ID, err)
		}
		out.StartDate = &d
	}
	if p.EndDate != "" {
		d, err := parseLegacyTime(p.EndDate)
		if err != nil {
			return nil, fmt.Errorf("project %q end date: %w", p.ID, err)
		}
		out.EndDate = &d
	}
	return out, nil
}

type legacyExpense struct {
	ID              string  `json:"id"`
	ProjectID       string  `json:"obraId"`
	Date            string  `json:"data"`
	Kind            string  `json:"tipo"`
	Category        string  `json:"categoria"`
	CategoryAlt     string  `json:"category"`
	Description     string  `json:"descricao"`
	Amount          float64 `json:"valor"`
	PaymentMethod   string  `json:"formaPagamento"`
	Supplier        string  `json:"fornecedor,omitempty"`
	Notes           string  `json:"observacoes,omitempty"`
	ProfessionalID  string  `json:"professionalId,omitempty"`
	ProfessionalID2 string  `json:"profissionalId,omitempty"`
	CreatedAt       string  `json:"criadoEm,omitempty"`
}

// professionalID resolves the two historical spellings of the professional
// link field.
func (e *legacyExpense) professionalID() string {
	if e.ProfessionalID != "" {
		return e.ProfessionalID
	}
	return e.ProfessionalID2
}

func (e *legacyExpense) toModel() (*model.Expense, error) {
	date, err := parseLegacyTime(e.Date)
	if err != nil {
		return nil, fmt.Errorf("expense %q date: %w", e.ID, err)
	}

	category := e.CategoryAlt
	if category == "" {
		category = e.Category
	}

	out := &model.Expense{
		ID:             e.ID,
		ProjectID:      e.ProjectID,
		Date:           model.Midnight(date),
		Category:       category,
		Description:    e.Description,
		AmountBRL:      e.Amount,
		PaymentMethod:  e.PaymentMethod,
		Supplier:       e.Supplier,
		Notes:          e.Notes,
		ProfessionalID: e.professionalID(),
	}
	if e.CreatedAt != "" {
		created, err := parseLegacyTime(e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("expense %q created-at: %w", e.ID, err)
		}
		out.CreatedAt = created
	}
	return out, nil
}

type legacyProfessional struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"obraId"`
	Name          string  `json:"nome"`
	Role          string  `json:"funcao"`
	ExpectedTotal float64 `json:"valorPrevisto,omitempty"`
	Contract      *struct {
		ExpectedTotal    float64 `json:"valorPrevisto,omitempty"`
		ExpectedTotalAlt float64 `json:"valorTotalPrevisto,omitempty"`
	} `json:"contrato,omitempty"`
}

func (p *legacyProfessional) toModel() *model.Professional {
	expected := p.ExpectedTotal
	if p.Contract != nil {
		if p.Contract.ExpectedTotalAlt > 0 {
			expected = p.Contract.ExpectedTotalAlt
		} else if p.Contract.ExpectedTotal > 0 {
			expected = p.Contract.ExpectedTotal
		}
	}
	return &model.Professional{
		ID:               p.ID,
		ProjectID:        p.ProjectID,
		Name:             p.Name,
		Role:             p.Role,
		ExpectedTotalBRL: expected,
	}
}

type legacyBudgetAlert struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"obraId"`
	Active     bool      `json:"ativo"`
	Thresholds []float64 `json:"percentuais"`
	Fired      []float64 `json:"disparados"`
}

func (a *legacyBudgetAlert) toModel() *model.BudgetAlert {
	return &model.BudgetAlert{
		ID:         a.ID,
		ProjectID:  a.ProjectID,
		Active:     a.Active,
		Thresholds: a.Thresholds,
		Fired:      a.Fired,
	}
}

type legacyDeadlineAlert struct {
	ID        string `json:"id"`
	ProjectID string `json:"obraId"`
	Title     string `json:"titulo"`
	DueDate   string `json:"data"`
	LeadDays  int    `json:"avisoAntecipado"`
	Fired     bool   `json:"disparado"`
	CreatedAt string `json:"criadoEm"`
}

func (a *legacyDeadlineAlert) toModel() (*model.DeadlineAlert, error) {
	due, err := parseLegacyTime(a.DueDate)
	if err != nil {
		return nil, fmt.Errorf("deadline alert %q due date: %w", a.ID, err)
	}
	created, err := parseLegacyTime(a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("deadline alert %q created-at: %w", a.ID, err)
	}
	return &model.DeadlineAlert{
		ID:        a.ID,
		ProjectID: a.ProjectID,
		Title:     a.Title,
		DueDate:   model.Midnight(due),
		LeadDays:  a.LeadDays,
		Fired:     a.Fired,
		CreatedAt: created,
	}, nil
}

type legacyPaymentAlert struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"obraId"`
	Title          string  `json:"titulo"`
	Category       string  `json:"categoria"`
	Amount         float64 `json:"valor,omitempty"`
	ProfessionalID string  `json:"profissionalId,omitempty"`
	StartDate      string  `json:"dataInicial"`
	Recurrence     string  `json:"recorrencia"`
	Weekday        int     `json:"diaSemana,omitempty"`
	LeadDays       int     `json:"lembreteAntecipado,omitempty"`
	NextDate       string  `json:"proximaData"`
	Fired          bool    `json:"disparado"`
	CreatedAt      string  `json:"criadoEm"`
}

func (a *legacyPaymentAlert) toModel() (*model.PaymentAlert, error) {
	start, err := parseLegacyTime(a.StartDate)
	if err != nil {
		return nil, fmt.Errorf("payment alert %q start date: %w", a.ID, err)
	}
	next, err := parseLegacyTime(a.NextDate)
	if err != nil {
		return nil, fmt.Errorf("payment alert %q next date: %w", a.ID, err)
	}
	created, err := parseLegacyTime(a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("payment alert %q created-at: %w", a.ID, err)
	}

	category, ok := paymentCategories[a.Category]
	if !ok {
		return nil, fmt.Errorf("payment alert %q: unknown category %q", a.ID, a.Category)
	}
	recurrence, ok := recurrences[a.Recurrence]
	if !ok {
		return nil, fmt.Errorf("payment alert %q: unknown recurrence %q", a.ID, a.Recurrence)
	}

	return &model.PaymentAlert{
		ID:             a.ID,
		ProjectID:      a.ProjectID,
		Title:          a.Title,
		Category:       category,
		AmountBRL:      a.Amount,
		ProfessionalID: a.ProfessionalID,
		StartDate:      model.Midnight(start),
		Recurrence:     recurrence,
		Weekday:        a.Weekday,
		LeadDays:       a.LeadDays,
		NextDate:       model.Midnight(next),
		Fired:          a.Fired,
		CreatedAt:      created,
	}, nil
}

type legacyNotification struct {
	ID            string `json:"id"`
	ProjectID     string `json:"obraId"`
	Kind          string `json:"tipo"`
	Title         string `json:"titulo"`
	Message       string `json:"mensagem"`
	Read          bool   `json:"lida"`
	CreatedAt     string `json:"criadaEm"`
	SourceAlertID string `json:"alertaId,omitempty"`
}

func (n *legacyNotification) toModel() (*model.Notification, error) {
	created, err := parseLegacyTime(n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("notification %q created-at: %w", n.ID, err)
	}
	kind, ok := notificationKinds[n.Kind]
	if !ok {
		return nil, fmt.Errorf("notification %q: unknown kind %q", n.ID, n.Kind)
	}
	return &model.Notification{
		ID:            n.ID,
		ProjectID:     n.ProjectID,
		Kind:          kind,
		Title:         n.Title,
		Message:       n.Message,
		Read:          n.Read,
		CreatedAt:     created,
		SourceAlertID: n.SourceAlertID,
	}, nil
}

var paymentCategories = map[string]model.PaymentCategory{
	"profissional": model.PaymentProfessional,
	"material":     model.PaymentMaterial,
	"outros":       model.PaymentOther,
}

var recurrences = map[string]model.Recurrence{
	"unico":   model.RecurrenceOnce,
	"semanal": model.RecurrenceWeekly,
	"mensal":  model.RecurrenceMonthly,
}

var notificationKinds = map[string]model.NotificationKind{
	"orcamento": model.KindBudget,
	"prazo":     model.KindDeadline,
	"pagamento": model.KindPayment,
}

// parseLegacyTime accepts both formats the web client produced: RFC 3339
// timestamps from Date.toISOString and bare YYYY-MM-DD calendar dates.
func parseLegacyTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
