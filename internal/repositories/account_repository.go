package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"spendtrack/internal/models"
)

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// failure (duplicate email or mobile).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const accountColumns = `
	id, name, email, mobile, password_hash, role, manager_id, is_verified,
	can_add, can_edit, can_delete, can_view_team, can_manage_users, can_export, can_access_reports,
	expense_categories, income_categories, created_at`

type AccountRepository interface {
	Create(a *models.Account) error
	GetByID(id int) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	GetByIdentifier(identifier string) (*models.Account, error)
	IdentityTaken(email, mobile string) (bool, error)
	List(limit, offset int) ([]*models.Account, error)
	ListByManager(managerID int) ([]*models.Account, error)
	UpdatePassword(id int, passwordHash string) error
	UpdateRole(id int, role *string, managerID *int, detachManager bool, perms *models.Permissions) error
	UpdateCategories(id int, kind string, categories []string) error
	Delete(id int) error
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

func scanAccount(row interface{ Scan(...interface{}) error }) (*models.Account, error) {
	a := &models.Account{}
	var managerID sql.NullInt64
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Mobile, &a.PasswordHash, &a.Role, &managerID, &a.IsVerified,
		&a.Permissions.CanAdd, &a.Permissions.CanEdit, &a.Permissions.CanDelete,
		&a.Permissions.CanViewTeam, &a.Permissions.CanManageUsers,
		&a.Permissions.CanExport, &a.Permissions.CanAccessReports,
		pq.Array(&a.ExpenseCategories), pq.Array(&a.IncomeCategories), &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if managerID.Valid {
		id := int(managerID.Int64)
		a.ManagerID = &id
	}
	return a, nil
}

func (r *accountRepository) Create(a *models.Account) error {
	if len(a.ExpenseCategories) == 0 {
		a.ExpenseCategories = append([]string(nil), models.DefaultExpenseCategories...)
	}
	if len(a.IncomeCategories) == 0 {
		a.IncomeCategories = append([]string(nil), models.DefaultIncomeCategories...)
	}
	const q = `
		INSERT INTO accounts (
			name, email, mobile, password_hash, role, manager_id, is_verified,
			can_add, can_edit, can_delete, can_view_team, can_manage_users, can_export, can_access_reports,
			expense_categories, income_categories
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING id, created_at
	`
	var managerID interface{}
	if a.ManagerID != nil {
		managerID = *a.ManagerID
	}
	return r.DB.QueryRow(q,
		a.Name, a.Email, a.Mobile, a.PasswordHash, a.Role, managerID, a.IsVerified,
		a.Permissions.CanAdd, a.Permissions.CanEdit, a.Permissions.CanDelete,
		a.Permissions.CanViewTeam, a.Permissions.CanManageUsers,
		a.Permissions.CanExport, a.Permissions.CanAccessReports,
		pq.Array(a.ExpenseCategories), pq.Array(a.IncomeCategories),
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *accountRepository) getOne(where string, arg interface{}) (*models.Account, error) {
	q := `SELECT` + accountColumns + ` FROM accounts WHERE ` + where
	a, err := scanAccount(r.DB.QueryRow(q, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	return a, nil
}

func (r *accountRepository) GetByID(id int) (*models.Account, error) {
	return r.getOne(`id = $1`, id)
}

func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	return r.getOne(`email = $1`, email)
}

// GetByIdentifier matches the supplied value against email and mobile;
// the caller does not know which one it was given.
func (r *accountRepository) GetByIdentifier(identifier string) (*models.Account, error) {
	return r.getOne(`email = $1 OR mobile = $1`, identifier)
}

func (r *accountRepository) IdentityTaken(email, mobile string) (bool, error) {
	const q = `
		SELECT COUNT(*) FROM accounts
		WHERE (email = $1 OR mobile = $2) AND is_verified = TRUE
	`
	var c int
	if err := r.DB.QueryRow(q, email, mobile).Scan(&c); err != nil {
		return false, fmt.Errorf("identity taken check: %w", err)
	}
	return c > 0, nil
}

func (r *accountRepository) list(q string, args ...interface{}) ([]*models.Account, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *accountRepository) List(limit, offset int) ([]*models.Account, error) {
	return r.list(`SELECT`+accountColumns+` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *accountRepository) ListByManager(managerID int) ([]*models.Account, error) {
	return r.list(`SELECT`+accountColumns+` FROM accounts WHERE manager_id = $1 ORDER BY id`, managerID)
}

func (r *accountRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE accounts SET password_hash=$1 WHERE id=$2`, passwordHash, id)
	return err
}

// UpdateRole is a partial update: nil fields stay untouched. A manager
// link is dropped only when detachManager is set, so "absent" and
// "explicit null" in the request body remain distinguishable.
func (r *accountRepository) UpdateRole(id int, role *string, managerID *int, detachManager bool, perms *models.Permissions) error {
	set := ""
	args := []interface{}{}
	i := 1
	add := func(expr string, v interface{}) {
		if set != "" {
			set += ", "
		}
		set += fmt.Sprintf(expr, i)
		args = append(args, v)
		i++
	}

	if role != nil {
		add("role=$%d", *role)
	}
	if detachManager {
		if set != "" {
			set += ", "
		}
		set += "manager_id=NULL"
	} else if managerID != nil {
		add("manager_id=$%d", *managerID)
	}
	if perms != nil {
		add("can_add=$%d", perms.CanAdd)
		add("can_edit=$%d", perms.CanEdit)
		add("can_delete=$%d", perms.CanDelete)
		add("can_view_team=$%d", perms.CanViewTeam)
		add("can_manage_users=$%d", perms.CanManageUsers)
		add("can_export=$%d", perms.CanExport)
		add("can_access_reports=$%d", perms.CanAccessReports)
	}
	if set == "" {
		return nil
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE accounts SET %s WHERE id=$%d", set, i)
	_, err := r.DB.Exec(q, args...)
	return err
}

func (r *accountRepository) UpdateCategories(id int, kind string, categories []string) error {
	col := "expense_categories"
	if kind == "income" {
		col = "income_categories"
	}
	q := fmt.Sprintf(`UPDATE accounts SET %s=$1 WHERE id=$2`, col)
	_, err := r.DB.Exec(q, pq.Array(categories), id)
	return err
}

// Delete removes the account row only; cascading the account's expense
// and income records is the calling service's job.
func (r *accountRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM accounts WHERE id=$1`, id)
	return err
}
