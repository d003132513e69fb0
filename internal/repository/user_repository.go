package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/web-auth-service/internal/model"
)

const userColumns = "id,username,email,password_hash,created_at,updated_at"

// UserRepo owns the users table and password hashing. Callers never see
// plaintext passwords after Create returns, and hashes never leave this
// layer except inside model.User for in-process verification.
type UserRepo struct {
	DB   *sql.DB
	Cost int // bcrypt cost factor
}

func NewUserRepo(db *sql.DB, cost int) *UserRepo { return &UserRepo{DB: db, Cost: cost} }

// Create hashes the password and inserts the user, returning the stored
// row with server-assigned id and timestamps. A unique-key violation on
// username or email surfaces as ErrDuplicateCredential.
func (r *UserRepo) Create(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.Cost)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, email, string(hash))
	if err != nil {
		if isDuplicateEntry(err) {
			return model.User{}, ErrDuplicateCredential
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// VerifyPassword compares the stored bcrypt hash with a candidate. It
// never returns an error: an absent or malformed hash simply fails the
// comparison.
func (r *UserRepo) VerifyPassword(u model.User, candidate string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// isDuplicateEntry reports whether err is MySQL error 1062 (duplicate
// entry for a unique key).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
