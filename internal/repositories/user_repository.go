package repositories

import (
	"database/sql"
	"fmt"

	intdb "github.com/knexpress/dev-kn-system-sub001/internal/db"
	"github.com/knexpress/dev-kn-system-sub001/internal/domain"
)

// User mirrors the back-office account row used by auth.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	PasswordHash string `json:"-"`
}

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) EnsureTable() error {
	if r.DB == nil {
		return fmt.Errorf("db not available")
	}
	if intdb.HasTable(r.DB, "users") {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	username VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(50) NOT NULL DEFAULT 'staff',
	status VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_username (username),
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.DB.Exec(ddl)
	return err
}

func (r UserRepo) GetByLogin(login string) (User, error) {
	var u User
	err := r.DB.QueryRow(`
		SELECT id, name, username, email, password_hash, role, status
		FROM users
		WHERE email=? OR username=?
		LIMIT 1`, login, login,
	).Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		return User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

func (r UserRepo) Create(u User) (int64, error) {
	res, err := r.DB.Exec(`
		INSERT INTO users (name, username, email, password_hash, role, status)
		VALUES (?,?,?,?,?,?)`,
		u.Name, u.Username, u.Email, u.PasswordHash, u.Role, u.Status,
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email or username already registered", Err: err}
		}
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}
