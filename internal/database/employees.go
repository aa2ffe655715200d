package database

import (
	"context"

	"github.com/google/uuid"
)

func (q *Queries) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, email, hashed_password, full_name, role, is_active, created_at, updated_at
		FROM employees
		WHERE is_active
		ORDER BY full_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Email, &e.HashedPassword, &e.FullName, &e.Role,
			&e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (q *Queries) GetEmployee(ctx context.Context, id uuid.UUID) (Employee, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, email, hashed_password, full_name, role, is_active, created_at, updated_at
		FROM employees
		WHERE id = $1`,
		id,
	)
	var e Employee
	err := row.Scan(&e.ID, &e.Email, &e.HashedPassword, &e.FullName, &e.Role,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (q *Queries) GetEmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, email, hashed_password, full_name, role, is_active, created_at, updated_at
		FROM employees
		WHERE email = $1 AND is_active`,
		email,
	)
	var e Employee
	err := row.Scan(&e.ID, &e.Email, &e.HashedPassword, &e.FullName, &e.Role,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type CreateEmployeeParams struct {
	Email          string
	HashedPassword string
	FullName       string
	Role           string
}

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO employees (email, hashed_password, full_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, hashed_password, full_name, role, is_active, created_at, updated_at`,
		arg.Email, arg.HashedPassword, arg.FullName, arg.Role,
	)
	var e Employee
	err := row.Scan(&e.ID, &e.Email, &e.HashedPassword, &e.FullName, &e.Role,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type UpdateEmployeeParams struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Role     string
}

func (q *Queries) UpdateEmployee(ctx context.Context, arg UpdateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE employees
		SET email = $2, full_name = $3, role = $4, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING id, email, hashed_password, full_name, role, is_active, created_at, updated_at`,
		arg.ID, arg.Email, arg.FullName, arg.Role,
	)
	var e Employee
	err := row.Scan(&e.ID, &e.Email, &e.HashedPassword, &e.FullName, &e.Role,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// SoftDeleteEmployee deactivates an employee and returns the id, or
// pgx.ErrNoRows when no active employee matches.
func (q *Queries) SoftDeleteEmployee(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE employees
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active
		RETURNING id`,
		id,
	)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
