package services

import (
	"errors"
	"fmt"
	"log"

	"spendtrack/internal/authz"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories"
)

var ErrNotTeamMember = errors.New("account is not a member of this team")

// RecordPurger deletes every expense or income row owned by an account;
// both record repositories satisfy it.
type RecordPurger interface {
	DeleteByAccount(accountID int) error
}

// AccountService covers everything done to accounts after they exist:
// admin listing and role changes, the manager's depth-1 team, category
// preferences, and cascading deletes.
type AccountService struct {
	accounts repositories.AccountRepository
	expenses RecordPurger
	incomes  RecordPurger
	emails   EmailService
}

func NewAccountService(
	accounts repositories.AccountRepository,
	expenses RecordPurger,
	incomes RecordPurger,
	emails EmailService,
) *AccountService {
	return &AccountService{accounts: accounts, expenses: expenses, incomes: incomes, emails: emails}
}

func (s *AccountService) GetAccountByID(id int) (*models.Account, error) {
	return s.accounts.GetByID(id)
}

func (s *AccountService) ListAccounts(limit, offset int) ([]*models.Account, error) {
	return s.accounts.List(limit, offset)
}

// UpdateRole applies a partial role/manager/permissions update. Passing
// detachManager clears the manager link; absent fields stay untouched.
func (s *AccountService) UpdateRole(id int, role *string, managerID *int, detachManager bool, perms *models.Permissions) error {
	if role != nil && !authz.ValidRole(*role) {
		return fmt.Errorf("unknown role %q", *role)
	}
	acc, err := s.accounts.GetByID(id)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	return s.accounts.UpdateRole(id, role, managerID, detachManager, perms)
}

// DeleteAccountCascade removes the account's expense and income records
// before the account row itself; the store does not cascade on its own.
func (s *AccountService) DeleteAccountCascade(id int) error {
	acc, err := s.accounts.GetByID(id)
	if err != nil {
		return err
	}
	if acc == nil {
		return ErrAccountNotFound
	}
	if err := s.expenses.DeleteByAccount(id); err != nil {
		return err
	}
	if err := s.incomes.DeleteByAccount(id); err != nil {
		return err
	}
	return s.accounts.Delete(id)
}

// CreateTeamMember adds a pre-verified subordinate: no OTP round-trip,
// manager link set, depth-1 tree.
func (s *AccountService) CreateTeamMember(managerID int, name, email, mobile, password string, perms *models.Permissions) (*models.Account, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	p := models.DefaultUserPermissions()
	if perms != nil {
		p = *perms
	}
	acc := &models.Account{
		Name:         name,
		Email:        normalizeEmail(email),
		Mobile:       mobile,
		PasswordHash: hash,
		Role:         authz.RoleUser,
		ManagerID:    &managerID,
		IsVerified:   true,
		Permissions:  p,
	}
	if err := s.accounts.Create(acc); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, ErrIdentityTaken
		}
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(acc.Email, acc.Name); err != nil {
			log.Printf("[team][add-member] welcome email to %s failed: %v", acc.Email, err)
		}
	}
	return acc, nil
}

func (s *AccountService) ListTeam(managerID int) ([]*models.Account, error) {
	return s.accounts.ListByManager(managerID)
}

// GetTeamMember resolves memberID only if it actually reports to the
// manager; anything else looks like a missing record to the caller.
func (s *AccountService) GetTeamMember(managerID, memberID int) (*models.Account, error) {
	acc, err := s.accounts.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.ManagerID == nil || *acc.ManagerID != managerID {
		return nil, ErrNotTeamMember
	}
	return acc, nil
}

func (s *AccountService) UpdateMemberPermissions(managerID, memberID int, perms models.Permissions) error {
	if _, err := s.GetTeamMember(managerID, memberID); err != nil {
		return err
	}
	return s.accounts.UpdateRole(memberID, nil, nil, false, &perms)
}

func (s *AccountService) DeleteTeamMember(managerID, memberID int) error {
	if _, err := s.GetTeamMember(managerID, memberID); err != nil {
		return err
	}
	return s.DeleteAccountCascade(memberID)
}

func (s *AccountService) categories(acc *models.Account, kind string) []string {
	if kind == "income" {
		return acc.IncomeCategories
	}
	return acc.ExpenseCategories
}

func (s *AccountService) ListCategories(accountID int, kind string) ([]string, error) {
	acc, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	return s.categories(acc, kind), nil
}

// AddCategory appends to the account's list, preserving insertion order.
// Adding a name that is already present is a silent no-op.
func (s *AccountService) AddCategory(accountID int, kind, name string) ([]string, error) {
	acc, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	cats := s.categories(acc, kind)
	for _, c := range cats {
		if c == name {
			return cats, nil
		}
	}
	cats = append(cats, name)
	if err := s.accounts.UpdateCategories(accountID, kind, cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *AccountService) RemoveCategory(accountID int, kind, name string) ([]string, error) {
	acc, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrAccountNotFound
	}
	cats := s.categories(acc, kind)
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		if c != name {
			out = append(out, c)
		}
	}
	if len(out) == len(cats) {
		return cats, nil
	}
	if err := s.accounts.UpdateCategories(accountID, kind, out); err != nil {
		return nil, err
	}
	return out, nil
}
