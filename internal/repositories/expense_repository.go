package repositories

import (
	"database/sql"
	"fmt"

	"spendtrack/internal/models"
)

type ExpenseRepository struct {
	db *sql.DB
}

func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(e *models.Expense) error {
	const query = `
		INSERT INTO expenses (account_id, title, amount, category, spent_at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRow(query, e.AccountID, e.Title, e.Amount, e.Category, e.SpentAt, e.Note).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *ExpenseRepository) Update(e *models.Expense) error {
	const query = `
		UPDATE expenses
		SET title=$1, amount=$2, category=$3, spent_at=$4, note=$5
		WHERE id=$6
	`
	_, err := r.db.Exec(query, e.Title, e.Amount, e.Category, e.SpentAt, e.Note, e.ID)
	return err
}

func (r *ExpenseRepository) GetByID(id int) (*models.Expense, error) {
	const query = `
		SELECT id, account_id, title, amount, category, spent_at, note, created_at
		FROM expenses
		WHERE id=$1
	`
	e := &models.Expense{}
	err := r.db.QueryRow(query, id).Scan(
		&e.ID, &e.AccountID, &e.Title, &e.Amount, &e.Category, &e.SpentAt, &e.Note, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ExpenseRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM expenses WHERE id=$1`, id)
	return err
}

func (r *ExpenseRepository) DeleteByAccount(accountID int) error {
	_, err := r.db.Exec(`DELETE FROM expenses WHERE account_id=$1`, accountID)
	return err
}

// ListByAccount filters by optional category and date window (from/to in
// YYYY-MM-DD), newest first.
func (r *ExpenseRepository) ListByAccount(accountID int, category, from, to string, limit, offset int) ([]models.Expense, error) {
	query := `SELECT id, account_id, title, amount, category, spent_at, note, created_at
		FROM expenses WHERE account_id = $1`
	args := []interface{}{accountID}
	i := 2

	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", i)
		args = append(args, category)
		i++
	}
	if from != "" {
		query += fmt.Sprintf(" AND spent_at >= $%d", i)
		args = append(args, from)
		i++
	}
	if to != "" {
		query += fmt.Sprintf(" AND spent_at <= $%d", i)
		args = append(args, to)
		i++
	}
	query += fmt.Sprintf(" ORDER BY spent_at DESC, id DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Title, &e.Amount, &e.Category, &e.SpentAt, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExpenseRepository) SummaryByCategory(accountID int, from, to string) ([]models.CategoryTotal, error) {
	query := `SELECT category, COALESCE(SUM(amount),0) FROM expenses WHERE account_id = $1`
	args := []interface{}{accountID}
	i := 2
	if from != "" {
		query += fmt.Sprintf(" AND spent_at >= $%d", i)
		args = append(args, from)
		i++
	}
	if to != "" {
		query += fmt.Sprintf(" AND spent_at <= $%d", i)
		args = append(args, to)
		i++
	}
	query += " GROUP BY category ORDER BY 2 DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}
