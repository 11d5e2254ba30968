// internal/adapters/db/patient_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
)

// Number of purchase history rows serialized per patient.
const purchaseHistoryLimit = 5

// patientRepository implements ports.PatientRepository
type patientRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *Database, logger *slog.Logger) ports.PatientRepository {
	return &patientRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "patients")),
	}
}

var patientColumns = []string{
	"id", "name", "email", "phone", "status", "address", "notes", "created_at",
}

// Save inserts a new patient
func (r *patientRepository) Save(ctx context.Context, patient *domain.Patient) error {
	query := `
		INSERT INTO patients (
			name, email, phone, status, address, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		patient.Name, patient.Email, patient.Phone, patient.Status,
		patient.Address, patient.Notes, patient.CreatedAt,
	).Scan(&patient.ID)

	if err != nil {
		return fmt.Errorf("failed to save patient: %w", err)
	}

	r.logger.DebugContext(ctx, "patient saved",
		slog.String("email", patient.Email),
		slog.Int64("id", patient.ID))

	return nil
}

// FindAll retrieves one page of patients with their recent purchase history
// attached.
func (r *patientRepository) FindAll(ctx context.Context, params ports.PatientListParams) ([]domain.Patient, int64, error) {
	builder := squirrel.
		Select(patientColumns...).
		Column("COUNT(*) OVER() AS total_count").
		From("patients").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}
	if params.Status != "" {
		if st, ok := domain.ParsePatientStatus(params.Status); ok {
			builder = builder.Where(squirrel.Eq{"status": st.Display()})
		} else {
			builder = builder.Where(squirrel.Eq{"status": params.Status})
		}
	}

	builder = builder.
		OrderBy("name ASC").
		Limit(uint64(params.PageSize)).
		Offset(uint64((params.Page - 1) * params.PageSize))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients := []domain.Patient{}
	var total int64
	for rows.Next() {
		p, err := scanPatient(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.attachPurchaseHistory(ctx, patients); err != nil {
		return nil, 0, err
	}

	return patients, total, nil
}

// ListAll retrieves every patient with purchase history, ordered by name.
func (r *patientRepository) ListAll(ctx context.Context) ([]domain.Patient, error) {
	query, args, err := squirrel.
		Select(patientColumns...).
		From("patients").
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	patients := []domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows, nil)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if err := r.attachPurchaseHistory(ctx, patients); err != nil {
		return nil, err
	}

	return patients, nil
}

// EmailExists reports whether a patient with the email is already registered.
func (r *patientRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM patients WHERE LOWER(email) = LOWER($1))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// scanPatient scans one patient row. total is scanned too when the query
// carried the COUNT(*) OVER() column.
func scanPatient(rows interface {
	Scan(dest ...any) error
}, total *int64) (domain.Patient, error) {
	var p domain.Patient
	var address, notes sql.NullString

	dest := []any{
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Status,
		&address, &notes, &p.CreatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}

	if err := rows.Scan(dest...); err != nil {
		return p, fmt.Errorf("failed to scan patient: %w", err)
	}
	p.Address = address.String
	p.Notes = notes.String
	p.PurchaseHistory = []domain.PurchaseRef{}
	return p, nil
}

// attachPurchaseHistory loads purchase counts and the recent purchase rows
// for the page in one query per concern.
func (r *patientRepository) attachPurchaseHistory(ctx context.Context, patients []domain.Patient) error {
	if len(patients) == 0 {
		return nil
	}

	ids := make([]int64, len(patients))
	index := make(map[int64]*domain.Patient, len(patients))
	for i := range patients {
		ids[i] = patients[i].ID
		index[patients[i].ID] = &patients[i]
	}

	countQuery := `
		SELECT patient_id, COUNT(*)
		FROM patient_purchases
		WHERE patient_id = ANY($1)
		GROUP BY patient_id`

	rows, err := r.db.Query(ctx, countQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to count purchases: %w", err)
	}
	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan purchase count: %w", err)
		}
		if p, ok := index[id]; ok {
			p.TotalPurchases = count
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	historyQuery := `
		SELECT patient_id, product, quantity, price, purchased_at
		FROM patient_purchases
		WHERE patient_id = ANY($1)
		ORDER BY purchased_at DESC`

	rows, err = r.db.Query(ctx, historyQuery, ids)
	if err != nil {
		return fmt.Errorf("failed to query purchase history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var ref domain.PurchaseRef
		if err := rows.Scan(&id, &ref.Product, &ref.Quantity, &ref.Price, &ref.Date); err != nil {
			return fmt.Errorf("failed to scan purchase: %w", err)
		}
		p, ok := index[id]
		if !ok || len(p.PurchaseHistory) >= purchaseHistoryLimit {
			continue
		}
		p.PurchaseHistory = append(p.PurchaseHistory, ref)
	}
	return rows.Err()
}
