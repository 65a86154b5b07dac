package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when an account does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Filter narrows account listings. Zero values mean no filtering.
type Filter struct {
	Role    Role
	Status  Status
	Search  string
	Page    int
	PerPage int
}

// Querier abstracts account persistence for the service layer.
type Querier interface {
	List(ctx context.Context, f Filter) ([]Account, int, error)
	Get(ctx context.Context, id uuid.UUID) (Account, error)
	Insert(ctx context.Context, a Account) (Account, error)
	Update(ctx context.Context, a Account) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store implements Querier on top of pgx.
type Store struct {
	Pool *pgxpool.Pool
}

const accountColumns = "id, email, name, phone, role, status, profile, created_at, updated_at"

func scanAccount(row pgx.Row) (Account, error) {
	var (
		a          Account
		profileRaw []byte
	)
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.Phone, &a.Role, &a.Status, &profileRaw, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Account{}, err
	}
	if len(profileRaw) > 0 {
		if err := json.Unmarshal(profileRaw, &a.Profile); err != nil {
			return Account{}, fmt.Errorf("decode profile: %w", err)
		}
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// List returns a page of accounts matching the filter plus the total count.
func (s Store) List(ctx context.Context, f Filter) ([]Account, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Role != "" {
		args = append(args, f.Role)
		where = append(where, "role = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := strconv.Itoa(len(args))
		where = append(where, "(lower(name) LIKE $"+n+" OR lower(email) LIKE $"+n+")")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM accounts WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = 20
	}
	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(
		"SELECT %s FROM accounts WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		accountColumns, cond, len(args)-1, len(args),
	)
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]Account, 0, perPage)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, total, nil
}

// Get fetches one account by id.
func (s Store) Get(ctx context.Context, id uuid.UUID) (Account, error) {
	a, err := scanAccount(s.Pool.QueryRow(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// Insert persists a new account.
func (s Store) Insert(ctx context.Context, a Account) (Account, error) {
	profileRaw, err := encodeProfile(a.Role, a.Profile)
	if err != nil {
		return Account{}, fmt.Errorf("encode profile: %w", err)
	}
	saved, err := scanAccount(s.Pool.QueryRow(ctx, `
		INSERT INTO accounts (id, email, name, phone, role, status, profile)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		a.ID, a.Email, a.Name, a.Phone, a.Role, a.Status, profileRaw))
	if isUniqueViolation(err) {
		return Account{}, ErrDuplicateEmail
	}
	if err != nil {
		return Account{}, fmt.Errorf("insert account: %w", err)
	}
	return saved, nil
}

// Update persists changes to an existing account. Role is immutable.
func (s Store) Update(ctx context.Context, a Account) (Account, error) {
	profileRaw, err := encodeProfile(a.Role, a.Profile)
	if err != nil {
		return Account{}, fmt.Errorf("encode profile: %w", err)
	}
	saved, err := scanAccount(s.Pool.QueryRow(ctx, `
		UPDATE accounts
		SET email = $2, name = $3, phone = $4, status = $5, profile = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns,
		a.ID, a.Email, a.Name, a.Phone, a.Status, profileRaw))
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Account{}, ErrDuplicateEmail
	}
	if err != nil {
		return Account{}, fmt.Errorf("update account: %w", err)
	}
	return saved, nil
}

// Delete removes an account permanently.
func (s Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.Pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
