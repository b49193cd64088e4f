package services

import (
	"spendtrack/internal/models"
	"spendtrack/internal/repositories"
)

type IncomeService struct {
	repo *repositories.IncomeRepository
}

func NewIncomeService(repo *repositories.IncomeRepository) *IncomeService {
	return &IncomeService{repo: repo}
}

func (s *IncomeService) Create(in *models.Income) error {
	return s.repo.Create(in)
}

func (s *IncomeService) GetForAccount(accountID, id int) (*models.Income, error) {
	in, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in == nil || in.AccountID != accountID {
		return nil, ErrRecordNotFound
	}
	return in, nil
}

func (s *IncomeService) Update(accountID int, in *models.Income) error {
	if _, err := s.GetForAccount(accountID, in.ID); err != nil {
		return err
	}
	return s.repo.Update(in)
}

func (s *IncomeService) Delete(accountID, id int) error {
	if _, err := s.GetForAccount(accountID, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *IncomeService) List(accountID int, category, from, to string, limit, offset int) ([]models.Income, error) {
	return s.repo.ListByAccount(accountID, category, from, to, limit, offset)
}
