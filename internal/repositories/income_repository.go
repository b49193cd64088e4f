package repositories

import (
	"database/sql"
	"fmt"

	"spendtrack/internal/models"
)

type IncomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(db *sql.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) Create(in *models.Income) error {
	const query = `
		INSERT INTO incomes (account_id, title, amount, category, received_at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRow(query, in.AccountID, in.Title, in.Amount, in.Category, in.ReceivedAt, in.Note).
		Scan(&in.ID, &in.CreatedAt)
}

func (r *IncomeRepository) Update(in *models.Income) error {
	const query = `
		UPDATE incomes
		SET title=$1, amount=$2, category=$3, received_at=$4, note=$5
		WHERE id=$6
	`
	_, err := r.db.Exec(query, in.Title, in.Amount, in.Category, in.ReceivedAt, in.Note, in.ID)
	return err
}

func (r *IncomeRepository) GetByID(id int) (*models.Income, error) {
	const query = `
		SELECT id, account_id, title, amount, category, received_at, note, created_at
		FROM incomes
		WHERE id=$1
	`
	in := &models.Income{}
	err := r.db.QueryRow(query, id).Scan(
		&in.ID, &in.AccountID, &in.Title, &in.Amount, &in.Category, &in.ReceivedAt, &in.Note, &in.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (r *IncomeRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM incomes WHERE id=$1`, id)
	return err
}

func (r *IncomeRepository) DeleteByAccount(accountID int) error {
	_, err := r.db.Exec(`DELETE FROM incomes WHERE account_id=$1`, accountID)
	return err
}

func (r *IncomeRepository) ListByAccount(accountID int, category, from, to string, limit, offset int) ([]models.Income, error) {
	query := `SELECT id, account_id, title, amount, category, received_at, note, created_at
		FROM incomes WHERE account_id = $1`
	args := []interface{}{accountID}
	i := 2

	if category != "" {
		query += fmt.Sprintf(" AND category = $%d", i)
		args = append(args, category)
		i++
	}
	if from != "" {
		query += fmt.Sprintf(" AND received_at >= $%d", i)
		args = append(args, from)
		i++
	}
	if to != "" {
		query += fmt.Sprintf(" AND received_at <= $%d", i)
		args = append(args, to)
		i++
	}
	query += fmt.Sprintf(" ORDER BY received_at DESC, id DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Income
	for rows.Next() {
		var in models.Income
		if err := rows.Scan(&in.ID, &in.AccountID, &in.Title, &in.Amount, &in.Category, &in.ReceivedAt, &in.Note, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *IncomeRepository) SummaryByCategory(accountID int, from, to string) ([]models.CategoryTotal, error) {
	query := `SELECT category, COALESCE(SUM(amount),0) FROM incomes WHERE account_id = $1`
	args := []interface{}{accountID}
	i := 2
	if from != "" {
		query += fmt.Sprintf(" AND received_at >= $%d", i)
		args = append(args, from)
		i++
	}
	if to != "" {
		query += fmt.Sprintf(" AND received_at <= $%d", i)
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
