package services

import (
	"spendtrack/internal/models"
	"spendtrack/internal/repositories"
)

type Summary struct {
	TotalExpenses      float64                `json:"total_expenses"`
	TotalIncomes       float64                `json:"total_incomes"`
	Net                float64                `json:"net"`
	ExpensesByCategory []models.CategoryTotal `json:"expenses_by_category"`
	IncomesByCategory  []models.CategoryTotal `json:"incomes_by_category"`
}

type ReportService struct {
	expenses *repositories.ExpenseRepository
	incomes  *repositories.IncomeRepository
}

func NewReportService(expenses *repositories.ExpenseRepository, incomes *repositories.IncomeRepository) *ReportService {
	return &ReportService{expenses: expenses, incomes: incomes}
}

func (s *ReportService) GetSummary(accountID int, from, to string) (*Summary, error) {
	exp, err := s.expenses.SummaryByCategory(accountID, from, to)
	if err != nil {
		return nil, err
	}
	inc, err := s.incomes.SummaryByCategory(accountID, from, to)
	if err != nil {
		return nil, err
	}

	sum := &Summary{ExpensesByCategory: exp, IncomesByCategory: inc}
	for _, ct := range exp {
		sum.TotalExpenses += ct.Total
	}
	for _, ct := range inc {
		sum.TotalIncomes += ct.Total
	}
	sum.Net = sum.TotalIncomes - sum.TotalExpenses
	return sum, nil
}
