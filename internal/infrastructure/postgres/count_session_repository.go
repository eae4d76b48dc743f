package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

var _ repository.CountSessionRepository = (*CountSessionRepo)(nil)

// CountSessionRepo implementación de CountSessionRepository sobre PostgreSQL.
// Las sesiones viven en count_sessions y sus líneas en count_lines.
type CountSessionRepo struct {
	q Querier
}

// NewCountSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountSessionRepository(q Querier) *CountSessionRepo {
	return &CountSessionRepo{q: q}
}

const sessionColumns = `id, company_id, location_id, status, synced,
	created_by, created_at, concluded_at, applied_at, applied_by`

// Create persiste la sesión con sus líneas. Si la sesión ya existe
// (reenvío desde la cola offline) devuelve ErrDuplicate.
func (r *CountSessionRepo) Create(session *entity.CountSession) error {
	query := `
		INSERT INTO count_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	locationID := (*string)(nil)
	if session.LocationID != "" {
		locationID = &session.LocationID
	}
	appliedBy := (*string)(nil)
	if session.AppliedBy != "" {
		appliedBy = &session.AppliedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.CompanyID, locationID, session.Status, session.Synced,
		session.CreatedBy, session.CreatedAt, session.ConcludedAt, session.AppliedAt, appliedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create count session: %w", err)
	}
	return r.insertLines(session)
}

// GetByID devuelve la sesión con sus líneas, o nil si no existe.
func (r *CountSessionRepo) GetByID(id string) (*entity.CountSession, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate devuelve la sesión con sus líneas bloqueando la fila de
// cabecera (SELECT FOR UPDATE). Dentro de la transacción de aplicación
// serializa dos Apply concurrentes sobre la misma sesión.
func (r *CountSessionRepo) GetByIDForUpdate(id string) (*entity.CountSession, error) {
	return r.getByID(id, true)
}

func (r *CountSessionRepo) getByID(id string, forUpdate bool) (*entity.CountSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM count_sessions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	row := r.q.QueryRow(context.Background(), query, id)
	s, err := scanSessionRow(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count session: %w", err)
	}
	if err := r.loadLines(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Update persiste cabecera y líneas. Las líneas se reemplazan por completo:
// la captura corrige líneas en memoria y el estado en BD debe reflejarlas.
func (r *CountSessionRepo) Update(session *entity.CountSession) error {
	if err := r.UpdateStatus(session); err != nil {
		return err
	}
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM count_lines WHERE session_id = $1`, session.ID)
	if err != nil {
		return fmt.Errorf("replace count lines: %w", err)
	}
	return r.insertLines(session)
}

// UpdateStatus cambia solo la cabecera (estado, sellos de conclusión y
// aplicación, bandera de sincronización). No toca las líneas, por lo que es
// seguro dentro de la transacción de aplicación.
func (r *CountSessionRepo) UpdateStatus(session *entity.CountSession) error {
	query := `
		UPDATE count_sessions
		SET status = $2, synced = $3, concluded_at = $4, applied_at = $5, applied_by = $6
		WHERE id = $1`
	appliedBy := (*string)(nil)
	if session.AppliedBy != "" {
		appliedBy = &session.AppliedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.Status, session.Synced,
		session.ConcludedAt, session.AppliedAt, appliedBy,
	)
	if err != nil {
		return fmt.Errorf("update count session: %w", err)
	}
	return nil
}

// ListByCompany lista sesiones por empresa, opcionalmente filtradas por estado,
// de la más reciente a la más antigua. No carga las líneas.
func (r *CountSessionRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.CountSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM count_sessions WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list count sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CountSession
	for rows.Next() {
		s, err := scanSessionRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan count session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *CountSessionRepo) insertLines(session *entity.CountSession) error {
	query := `
		INSERT INTO count_lines (id, session_id, product_id, location_id,
			expected, counted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range session.Lines {
		line := &session.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		_, err := r.q.Exec(context.Background(), query,
			line.ID, session.ID, line.ProductID, line.LocationID,
			line.Expected, line.Counted, line.CreatedAt, line.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert count line: %w", err)
		}
	}
	return nil
}

func (r *CountSessionRepo) loadLines(session *entity.CountSession) error {
	query := `
		SELECT id, session_id, product_id, location_id, expected, counted, created_at, updated_at
		FROM count_lines WHERE session_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, session.ID)
	if err != nil {
		return fmt.Errorf("load count lines: %w", err)
	}
	defer rows.Close()
	session.Lines = make([]entity.CountLine, 0)
	for rows.Next() {
		var l entity.CountLine
		if err := rows.Scan(&l.ID, &l.SessionID, &l.ProductID, &l.LocationID,
			&l.Expected, &l.Counted, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return fmt.Errorf("scan count line: %w", err)
		}
		session.Lines = append(session.Lines, l)
	}
	return rows.Err()
}

func scanSessionRow(scan func(dest ...any) error) (*entity.CountSession, error) {
	var s entity.CountSession
	var locationID, appliedBy *string
	err := scan(&s.ID, &s.CompanyID, &locationID, &s.Status, &s.Synced,
		&s.CreatedBy, &s.CreatedAt, &s.ConcludedAt, &s.AppliedAt, &appliedBy)
	if err != nil {
		return nil, err
	}
	if locationID != nil {
		s.LocationID = *locationID
	}
	if appliedBy != nil {
		s.AppliedBy = *appliedBy
	}
	return &s, nil
}
