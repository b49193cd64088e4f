package services

import (
	"errors"
	"sort"

	"spendtrack/internal/models"
)

// In-memory doubles for the repository interfaces. Kept deliberately
// dumb: maps plus the uniqueness rule the real schema enforces.

type fakeOTPRepo struct {
	byEmail map[string]*models.OTPChallenge
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{byEmail: map[string]*models.OTPChallenge{}}
}

func (r *fakeOTPRepo) Upsert(ch *models.OTPChallenge) error {
	cp := *ch
	if ch.Pending != nil {
		p := *ch.Pending
		cp.Pending = &p
	}
	cp.Attempts = 0
	r.byEmail[ch.Email] = &cp
	return nil
}

func (r *fakeOTPRepo) GetByEmail(email string) (*models.OTPChallenge, error) {
	ch, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *ch
	return &cp, nil
}

func (r *fakeOTPRepo) IncrementAttempts(email string) (int, error) {
	ch, ok := r.byEmail[email]
	if !ok {
		return 0, errors.New("no row")
	}
	ch.Attempts++
	return ch.Attempts, nil
}

func (r *fakeOTPRepo) Delete(email string) error {
	delete(r.byEmail, email)
	return nil
}

type fakeAccountRepo struct {
	nextID int
	byID   map[int]*models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{nextID: 1, byID: map[int]*models.Account{}}
}

// Create enforces the unique constraint itself and returns the auth
// sentinel directly, standing in for the driver's duplicate-key error.
func (r *fakeAccountRepo) Create(a *models.Account) error {
	for _, ex := range r.byID {
		if ex.Email == a.Email || ex.Mobile == a.Mobile {
			return ErrIdentityTaken
		}
	}
	if len(a.ExpenseCategories) == 0 {
		a.ExpenseCategories = append([]string(nil), models.DefaultExpenseCategories...)
	}
	if len(a.IncomeCategories) == 0 {
		a.IncomeCategories = append([]string(nil), models.DefaultIncomeCategories...)
	}
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.byID[a.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) GetByID(id int) (*models.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAccountRepo) GetByEmail(email string) (*models.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) GetByIdentifier(identifier string) (*models.Account, error) {
	for _, a := range r.byID {
		if a.Email == identifier || a.Mobile == identifier {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAccountRepo) IdentityTaken(email, mobile string) (bool, error) {
	for _, a := range r.byID {
		if a.IsVerified && (a.Email == email || a.Mobile == mobile) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) List(limit, offset int) ([]*models.Account, error) {
	ids := make([]int, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var out []*models.Account
	for _, id := range ids {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAccountRepo) ListByManager(managerID int) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range r.byID {
		if a.ManagerID != nil && *a.ManagerID == managerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccountRepo) UpdatePassword(id int, passwordHash string) error {
	a, ok := r.byID[id]
	if !ok {
		return errors.New("no row")
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *fakeAccountRepo) UpdateRole(id int, role *string, managerID *int, detachManager bool, perms *models.Permissions) error {
	a, ok := r.byID[id]
	if !ok {
		return errors.New("no row")
	}
	if role != nil {
		a.Role = *role
	}
	if detachManager {
		a.ManagerID = nil
	} else if managerID != nil {
		a.ManagerID = managerID
	}
	if perms != nil {
		a.Permissions = *perms
	}
	return nil
}

func (r *fakeAccountRepo) UpdateCategories(id int, kind string, categories []string) error {
	a, ok := r.byID[id]
	if !ok {
		return errors.New("no row")
	}
	if kind == "income" {
		a.IncomeCategories = categories
	} else {
		a.ExpenseCategories = categories
	}
	return nil
}

func (r *fakeAccountRepo) Delete(id int) error {
	delete(r.byID, id)
	return nil
}

type fakeEmailService struct {
	codes   map[string]string // email -> last code
	welcome []string
	fail    bool
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{codes: map[string]string{}}
}

func (s *fakeEmailService) SendOTPEmail(email, code string) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.codes[email] = code
	return nil
}

func (s *fakeEmailService) SendWelcomeEmail(email, name string) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.welcome = append(s.welcome, email)
	return nil
}

type fakeSMSService struct {
	codes map[string]string // mobile -> last code
	fail  bool
}

func newFakeSMSService() *fakeSMSService {
	return &fakeSMSService{codes: map[string]string{}}
}

func (s *fakeSMSService) SendOTP(mobile, code string) error {
	if s.fail {
		return errors.New("gateway down")
	}
	s.codes[mobile] = code
	return nil
}
