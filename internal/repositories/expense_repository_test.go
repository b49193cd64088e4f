package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"spendtrack/internal/models"
)

func TestExpenseCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewExpenseRepository(db)

	spent := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO expenses").
		WithArgs(7, "Lunch", 12.5, "Food", spent, "team lunch").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, time.Now()))

	e := &models.Expense{
		AccountID: 7, Title: "Lunch", Amount: 12.5,
		Category: "Food", SpentAt: spent, Note: "team lunch",
	}
	if err := repo.Create(e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID != 42 {
		t.Fatalf("id not set: %d", e.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpenseListByAccountFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewExpenseRepository(db)

	cols := []string{"id", "account_id", "title", "amount", "category", "spent_at", "note", "created_at"}
	day1 := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	// no filters: only account id plus paging
	mock.ExpectQuery(`WHERE account_id = \$1 ORDER BY spent_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(7, 20, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, 7, "Taxi", 8.0, "Transport", day2, "", time.Now()).
			AddRow(1, 7, "Lunch", 12.5, "Food", day1, "", time.Now()))

	out, err := repo.ListByAccount(7, "", "", "", 20, 0)
	if err != nil {
		t.Fatalf("ListByAccount: %v", err)
	}
	if len(out) != 2 || out[0].Title != "Taxi" {
		t.Fatalf("unexpected list: %+v", out)
	}

	// category and window filters shift the placeholders
	mock.ExpectQuery(`AND category = \$2 AND spent_at >= \$3 AND spent_at <= \$4 ORDER BY spent_at DESC, id DESC LIMIT \$5 OFFSET \$6`).
		WithArgs(7, "Food", "2026-08-01", "2026-08-31", 20, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 7, "Lunch", 12.5, "Food", day1, "", time.Now()))

	out, err = repo.ListByAccount(7, "Food", "2026-08-01", "2026-08-31", 20, 0)
	if err != nil {
		t.Fatalf("ListByAccount filtered: %v", err)
	}
	if len(out) != 1 || out[0].Category != "Food" {
		t.Fatalf("unexpected filtered list: %+v", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpenseSummaryByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewExpenseRepository(db)

	mock.ExpectQuery(`SELECT category, COALESCE\(SUM\(amount\),0\) FROM expenses WHERE account_id = \$1 GROUP BY category`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"category", "total"}).
			AddRow("Food", 120.5).
			AddRow("Transport", 40.0))

	out, err := repo.SummaryByCategory(7, "", "")
	if err != nil {
		t.Fatalf("SummaryByCategory: %v", err)
	}
	if len(out) != 2 || out[0].Category != "Food" || out[0].Total != 120.5 {
		t.Fatalf("unexpected summary: %+v", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpenseGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewExpenseRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM expenses").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "title", "amount", "category", "spent_at", "note", "created_at"}))

	e, err := repo.GetByID(99)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if e != nil {
		t.Fatalf("expected nil expense, got %+v", e)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
