package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/obreasy/obreasy/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite implements the Store interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The _pragma form applies to every pooled connection, so busy_timeout
	// holds beyond the first one. WAL mode for concurrent reads.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateProject(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, kind, area_m2, state, city, budget_brl, start_date, end_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Kind, p.AreaM2, p.State, p.City, p.BudgetBRL,
		p.StartDate, p.EndDate, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *SQLite) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, area_m2, state, city, budget_brl, start_date, end_date, created_at
		 FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Kind, &p.AreaM2, &p.State, &p.City, &p.BudgetBRL,
		&p.StartDate, &p.EndDate, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *SQLite) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, area_m2, state, city, budget_brl, start_date, end_date, created_at
		 FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.AreaM2, &p.State, &p.City,
			&p.BudgetBRL, &p.StartDate, &p.EndDate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *SQLite) DeleteProjectCascade(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	dependents := []string{
		"DELETE FROM expenses WHERE project_id = ?",
		"DELETE FROM professionals WHERE project_id = ?",
		"DELETE FROM budget_alerts WHERE project_id = ?",
		"DELETE FROM deadline_alerts WHERE project_id = ?",
		"DELETE FROM payment_alerts WHERE project_id = ?",
		"DELETE FROM notifications WHERE project_id = ?",
	}
	for _, q := range dependents {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLite) AddExpense(ctx context.Context, e *model.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.Date.IsZero() {
		e.Date = model.Midnight(e.CreatedAt)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, project_id, date, category, description, amount_brl, payment_method, supplier, notes, professional_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ProjectID, e.Date, e.Category, e.Description, e.AmountBRL,
		e.PaymentMethod, e.Supplier, e.Notes, e.ProfessionalID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *SQLite) ListExpenses(ctx context.Context, projectID string) ([]model.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, project_id, date, category, description, amount_brl, payment_method, supplier, notes, professional_id, created_at
		 FROM expenses WHERE project_id = ? ORDER BY date DESC`, projectID)
}

func (s *SQLite) SumExpenses(ctx context.Context, projectID string) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount_brl), 0) FROM expenses WHERE project_id = ?",
		projectID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

func (s *SQLite) ListPaymentsByProfessional(ctx context.Context, projectID, professionalID string) ([]model.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, project_id, date, category, description, amount_brl, payment_method, supplier, notes, professional_id, created_at
		 FROM expenses WHERE project_id = ? AND professional_id = ? AND category = ? ORDER BY date DESC`,
		projectID, professionalID, model.CategoryLabor)
}

func (s *SQLite) queryExpenses(ctx context.Context, query string, args ...any) ([]model.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Date, &e.Category, &e.Description,
			&e.AmountBRL, &e.PaymentMethod, &e.Supplier, &e.Notes, &e.ProfessionalID,
			&e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *SQLite) AddProfessional(ctx context.Context, p *model.Professional) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO professionals (id, project_id, name, role, expected_total_brl, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.ProjectID, p.Name, p.Role, p.ExpectedTotalBRL, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert professional: %w", err)
	}
	return nil
}

func (s *SQLite) ListProfessionals(ctx context.Context, projectID string) ([]model.Professional, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, role, expected_total_brl, created_at
		 FROM professionals WHERE project_id = ? ORDER BY name`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	defer rows.Close()

	var pros []model.Professional
	for rows.Next() {
		var p model.Professional
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Role,
			&p.ExpectedTotalBRL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan professional row: %w", err)
		}
		pros = append(pros, p)
	}
	return pros, rows.Err()
}

func (s *SQLite) UpsertBudgetAlert(ctx context.Context, a *model.BudgetAlert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	// Deactivating re-arms the alert for the next activation.
	if !a.Active {
		a.Fired = nil
	}

	thresholds, err := json.Marshal(a.Thresholds)
	if err != nil {
		return fmt.Errorf("encode thresholds: %w", err)
	}
	fired, err := json.Marshal(a.Fired)
	if err != nil {
		return fmt.Errorf("encode fired thresholds: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budget_alerts (id, project_id, active, thresholds, fired, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET
		   active = excluded.active,
		   thresholds = excluded.thresholds,
		   fired = excluded.fired,
		   updated_at = excluded.updated_at`,
		a.ID, a.ProjectID, a.Active, string(thresholds), string(fired),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert budget alert: %w", err)
	}
	return nil
}

func (s *SQLite) GetBudgetAlert(ctx context.Context, projectID string) (*model.BudgetAlert, error) {
	var a model.BudgetAlert
	var thresholds, fired string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, active, thresholds, fired, created_at, updated_at
		 FROM budget_alerts WHERE project_id = ?`, projectID,
	).Scan(&a.ID, &a.ProjectID, &a.Active, &thresholds, &fired, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget alert for project %q: %w", projectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get budget alert: %w", err)
	}

	if err := json.Unmarshal([]byte(thresholds), &a.Thresholds); err != nil {
		return nil, fmt.Errorf("decode thresholds: %w", err)
	}
	if err := json.Unmarshal([]byte(fired), &a.Fired); err != nil {
		return nil, fmt.Errorf("decode fired thresholds: %w", err)
	}
	return &a, nil
}

func (s *SQLite) CreateDeadlineAlert(ctx context.Context, a *model.DeadlineAlert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deadline_alerts (id, project_id, title, due_date, lead_days, fired, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.Title, a.DueDate, a.LeadDays, a.Fired, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deadline alert: %w", err)
	}
	return nil
}

func (s *SQLite) ListDeadlineAlerts(ctx context.Context, projectID string) ([]model.DeadlineAlert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, title, due_date, lead_days, fired, created_at
		 FROM deadline_alerts WHERE project_id = ? ORDER BY due_date`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list deadline alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.DeadlineAlert
	for rows.Next() {
		var a model.DeadlineAlert
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Title, &a.DueDate,
			&a.LeadDays, &a.Fired, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deadline alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *SQLite) UpdateDeadlineAlert(ctx context.Context, a *model.DeadlineAlert) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE deadline_alerts SET title = ?, due_date = ?, lead_days = ?, fired = ? WHERE id = ?`,
		a.Title, a.DueDate, a.LeadDays, a.Fired, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update deadline alert: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("deadline alert %q: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLite) DeleteDeadlineAlert(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM deadline_alerts WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete deadline alert: %w", err)
	}
	return nil
}

func (s *SQLite) CreatePaymentAlert(ctx context.Context, a *model.PaymentAlert) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.NextDate.IsZero() {
		a.NextDate = a.StartDate
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_alerts (id, project_id, title, category, amount_brl, professional_id, start_date, recurrence, weekday, lead_days, next_date, fired, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.Title, a.Category, a.AmountBRL, a.ProfessionalID,
		a.StartDate, a.Recurrence, a.Weekday, a.LeadDays, a.NextDate, a.Fired, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment alert: %w", err)
	}
	return nil
}

func (s *SQLite) ListPaymentAlerts(ctx context.Context, projectID string) ([]model.PaymentAlert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, title, category, amount_brl, professional_id, start_date, recurrence, weekday, lead_days, next_date, fired, created_at
		 FROM payment_alerts WHERE project_id = ? ORDER BY next_date`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list payment alerts: %w", err)
	}
	defer rows.Close()

	var alerts []model.PaymentAlert
	for rows.Next() {
		var a model.PaymentAlert
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Title, &a.Category, &a.AmountBRL,
			&a.ProfessionalID, &a.StartDate, &a.Recurrence, &a.Weekday, &a.LeadDays,
			&a.NextDate, &a.Fired, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *SQLite) UpdatePaymentAlert(ctx context.Context, a *model.PaymentAlert) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payment_alerts SET title = ?, amount_brl = ?, lead_days = ?, next_date = ?, fired = ? WHERE id = ?`,
		a.Title, a.AmountBRL, a.LeadDays, a.NextDate, a.Fired, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment alert: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("payment alert %q: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLite) DeletePaymentAlert(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM payment_alerts WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete payment alert: %w", err)
	}
	return nil
}

func (s *SQLite) AppendNotification(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, project_id, kind, title, message, read, created_at, source_alert_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.ProjectID, n.Kind, n.Title, n.Message, n.Read, n.CreatedAt, n.SourceAlertID,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *SQLite) GetNotification(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, kind, title, message, read, created_at, source_alert_id
		 FROM notifications WHERE id = ?`, id,
	).Scan(&n.ID, &n.ProjectID, &n.Kind, &n.Title, &n.Message, &n.Read, &n.CreatedAt, &n.SourceAlertID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notification %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

func (s *SQLite) ListNotifications(ctx context.Context, projectID string) ([]model.Notification, error) {
	return s.queryNotifications(ctx,
		`SELECT id, project_id, kind, title, message, read, created_at, source_alert_id
		 FROM notifications WHERE project_id = ? ORDER BY created_at DESC`, projectID)
}

func (s *SQLite) ListUnreadNotifications(ctx context.Context, projectID string) ([]model.Notification, error) {
	return s.queryNotifications(ctx,
		`SELECT id, project_id, kind, title, message, read, created_at, source_alert_id
		 FROM notifications WHERE project_id = ? AND read = 0 ORDER BY created_at DESC`, projectID)
}

func (s *SQLite) queryNotifications(ctx context.Context, query string, args ...any) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Kind, &n.Title, &n.Message,
			&n.Read, &n.CreatedAt, &n.SourceAlertID); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *SQLite) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ? AND read = 0", id)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}
	return rows > 0, nil
}

func (s *SQLite) MarkAllNotificationsRead(ctx context.Context, projectID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE project_id = ? AND read = 0", projectID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}
	return rows, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
