package repositories

import (
	"database/sql"

	intdb "github.com/knexpress/dev-kn-system-sub001/internal/db"
	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
)

// EmployeeRepo reads the admin-owned employees table. This subsystem never
// writes to it; employee CRUD lives elsewhere.
type EmployeeRepo struct {
	DB *sql.DB
}

// DefaultParty returns the fallback responsible employee used when a
// booking carries no reviewer: the lowest-id active billing staffer, else
// the lowest-id active employee of any role.
func (r EmployeeRepo) DefaultParty() (int64, error) {
	if r.DB == nil || !intdb.HasTable(r.DB, "employees") {
		return 0, domain.NotFoundError{Resource: "default responsible party"}
	}

	var id int64
	err := r.DB.QueryRow(`
		SELECT id FROM employees
		WHERE status='active' AND department='billing'
		ORDER BY id LIMIT 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, domain.InternalError{Err: err}
	}

	err = r.DB.QueryRow(`
		SELECT id FROM employees
		WHERE status='active'
		ORDER BY id LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, domain.NotFoundError{Resource: "default responsible party"}
	}
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return id, nil
}
