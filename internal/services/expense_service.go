package services

import (
	"errors"

	"spendtrack/internal/models"
	"spendtrack/internal/repositories"
)

var ErrRecordNotFound = errors.New("record not found")

type ExpenseService struct {
	repo *repositories.ExpenseRepository
}

func NewExpenseService(repo *repositories.ExpenseRepository) *ExpenseService {
	return &ExpenseService{repo: repo}
}

func (s *ExpenseService) Create(e *models.Expense) error {
	return s.repo.Create(e)
}

// GetForAccount treats records owned by somebody else as absent.
func (s *ExpenseService) GetForAccount(accountID, id int) (*models.Expense, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if e == nil || e.AccountID != accountID {
		return nil, ErrRecordNotFound
	}
	return e, nil
}

func (s *ExpenseService) Update(accountID int, e *models.Expense) error {
	if _, err := s.GetForAccount(accountID, e.ID); err != nil {
		return err
	}
	return s.repo.Update(e)
}

func (s *ExpenseService) Delete(accountID, id int) error {
	if _, err := s.GetForAccount(accountID, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *ExpenseService) List(accountID int, category, from, to string, limit, offset int) ([]models.Expense, error) {
	return s.repo.ListByAccount(accountID, category, from, to, limit, offset)
}
