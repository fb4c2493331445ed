package model

import "time"

// Project represents a construction or renovation effort being tracked.
type Project struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Kind      string     `json:"kind" db:"kind"`
	AreaM2    float64    `json:"area_m2" db:"area_m2"`
	State     string     `json:"state" db:"state"`
	City      string     `json:"city" db:"city"`
	BudgetBRL float64    `json:"budget_brl" db:"budget_brl"`
	StartDate *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// Expense is a monetary outflow recorded against a project. Labor payments
// are expenses with CategoryLabor and a non-empty ProfessionalID.
type Expense struct {
	ID             string    `json:"id" db:"id"`
	ProjectID      string    `json:"project_id" db:"project_id"`
	Date           time.Time `json:"date" db:"date"`
	Category       string    `json:"category" db:"category"`
	Description    string    `json:"description" db:"description"`
	AmountBRL      float64   `json:"amount_brl" db:"amount_brl"`
	PaymentMethod  string    `json:"payment_method,omitempty" db:"payment_method"`
	Supplier       string    `json:"supplier,omitempty" db:"supplier"`
	Notes          string    `json:"notes,omitempty" db:"notes"`
	ProfessionalID string    `json:"professional_id,omitempty" db:"professional_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CategoryLabor marks an expense as a payment to a hired professional.
const CategoryLabor = "mao_obra"

// Professional is a hired worker attached to a project, with an optional
// expected total payment from their contract.
type Professional struct {
	ID               string    `json:"id" db:"id"`
	ProjectID        string    `json:"project_id" db:"project_id"`
	Name             string    `json:"name" db:"name"`
	Role             string    `json:"role" db:"role"`
	ExpectedTotalBRL float64   `json:"expected_total_brl,omitempty" db:"expected_total_brl"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// BudgetAlert fires a notification each time project spending crosses one of
// its configured budget percentage thresholds. At most one alert exists per
// project. Fired thresholds are remembered so a threshold never fires twice
// within the same arming cycle; deactivating the alert clears them.
type BudgetAlert struct {
	ID         string    `json:"id" db:"id"`
	ProjectID  string    `json:"project_id" db:"project_id"`
	Active     bool      `json:"active" db:"active"`
	Thresholds []float64 `json:"thresholds"`
	Fired      []float64 `json:"fired"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// HasFired reports whether the given threshold already produced a
// notification in the current arming cycle.
func (a *BudgetAlert) HasFired(threshold float64) bool {
	for _, f := range a.Fired {
		if f == threshold {
			return true
		}
	}
	return false
}

// DeadlineAlert is a one-shot reminder for a calendar deadline. It becomes
// eligible LeadDays before DueDate and never re-fires once fired.
type DeadlineAlert struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	Title     string    `json:"title" db:"title"`
	DueDate   time.Time `json:"due_date" db:"due_date"`
	LeadDays  int       `json:"lead_days" db:"lead_days"`
	Fired     bool      `json:"fired" db:"fired"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Recurrence defines how a payment reminder repeats.
type Recurrence string

const (
	RecurrenceOnce    Recurrence = "once"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// PaymentCategory classifies what a payment reminder is for.
type PaymentCategory string

const (
	PaymentProfessional PaymentCategory = "professional"
	PaymentMaterial     PaymentCategory = "material"
	PaymentOther        PaymentCategory = "other"
)

// PaymentAlert is a reminder for an upcoming payment. One-off alerts fire
// once; weekly and monthly alerts advance NextDate after firing and become
// eligible again for the following occurrence. Weekday is informational only
// and never used to compute NextDate.
type PaymentAlert struct {
	ID             string          `json:"id" db:"id"`
	ProjectID      string          `json:"project_id" db:"project_id"`
	Title          string          `json:"title" db:"title"`
	Category       PaymentCategory `json:"category" db:"category"`
	AmountBRL      float64         `json:"amount_brl,omitempty" db:"amount_brl"`
	ProfessionalID string          `json:"professional_id,omitempty" db:"professional_id"`
	StartDate      time.Time       `json:"start_date" db:"start_date"`
	Recurrence     Recurrence      `json:"recurrence" db:"recurrence"`
	Weekday        int             `json:"weekday,omitempty" db:"weekday"`
	LeadDays       int             `json:"lead_days,omitempty" db:"lead_days"`
	NextDate       time.Time       `json:"next_date" db:"next_date"`
	Fired          bool            `json:"fired" db:"fired"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// NotificationKind identifies which alert kind produced a notification.
type NotificationKind string

const (
	KindBudget   NotificationKind = "budget"
	KindDeadline NotificationKind = "deadline"
	KindPayment  NotificationKind = "payment"
)

// Notification is an append-only record created when an alert fires. Only
// the Read flag ever changes, and only from false to true.
type Notification struct {
	ID            string           `json:"id" db:"id"`
	ProjectID     string           `json:"project_id" db:"project_id"`
	Kind          NotificationKind `json:"kind" db:"kind"`
	Title         string           `json:"title" db:"title"`
	Message       string           `json:"message" db:"message"`
	Read          bool             `json:"read" db:"read"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	SourceAlertID string           `json:"source_alert_id,omitempty" db:"source_alert_id"`
}

// Metrics holds the financial summary of a project.
type Metrics struct {
	BudgetBRL  float64 `json:"budget_brl"`
	TotalSpent float64 `json:"total_spent"`
	Balance    float64 `json:"balance"`
	CostPerM2  float64 `json:"cost_per_m2"`
	AreaM2     float64 `json:"area_m2"`
}

// ComputeMetrics derives the financial summary for a project from its
// aggregated spend.
func ComputeMetrics(p *Project, totalSpent float64) Metrics {
	m := Metrics{
		BudgetBRL:  p.BudgetBRL,
		TotalSpent: totalSpent,
		Balance:    p.BudgetBRL - totalSpent,
		AreaM2:     p.AreaM2,
	}
	if p.AreaM2 > 0 {
		m.CostPerM2 = totalSpent / p.AreaM2
	}
	return m
}
