package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/models"
)

type fakePurger struct {
	purged []int
}

func (p *fakePurger) DeleteByAccount(accountID int) error {
	p.purged = append(p.purged, accountID)
	return nil
}

type accountFixture struct {
	repo     *fakeAccountRepo
	expenses *fakePurger
	incomes  *fakePurger
	emails   *fakeEmailService
	svc      *AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		repo:     newFakeAccountRepo(),
		expenses: &fakePurger{},
		incomes:  &fakePurger{},
		emails:   newFakeEmailService(),
	}
	f.svc = NewAccountService(f.repo, f.expenses, f.incomes, f.emails)
	return f
}

func (f *accountFixture) seedManager(t *testing.T) *models.Account {
	t.Helper()
	m := &models.Account{
		Name: "M", Email: "m@x.com", Mobile: "9000000000",
		PasswordHash: "x", Role: "manager", IsVerified: true,
		Permissions: models.Permissions{CanViewTeam: true, CanManageUsers: true},
	}
	require.NoError(t, f.repo.Create(m))
	return m
}

func TestCreateTeamMember(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)

	acc, err := f.svc.CreateTeamMember(m.ID, "U", "u@x.com", "9000000001", "Passw0rd!", nil)
	require.NoError(t, err)

	assert.True(t, acc.IsVerified, "manager-added members skip the OTP round-trip")
	require.NotNil(t, acc.ManagerID)
	assert.Equal(t, m.ID, *acc.ManagerID)
	assert.Equal(t, "user", acc.Role)
	assert.Equal(t, models.DefaultUserPermissions(), acc.Permissions)

	members, err := f.svc.ListTeam(m.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, acc.ID, members[0].ID)
}

func TestCreateTeamMemberDuplicate(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)

	_, err := f.svc.CreateTeamMember(m.ID, "U", "u@x.com", "9000000001", "Passw0rd!", nil)
	require.NoError(t, err)
	_, err = f.svc.CreateTeamMember(m.ID, "U2", "u@x.com", "9000000002", "Passw0rd!", nil)
	assert.ErrorIs(t, err, ErrIdentityTaken)
}

func TestTeamMemberIsolation(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m1 := f.seedManager(t)
	m2 := &models.Account{
		Name: "M2", Email: "m2@x.com", Mobile: "9000000009",
		PasswordHash: "x", Role: "manager", IsVerified: true,
	}
	require.NoError(t, f.repo.Create(m2))

	acc, err := f.svc.CreateTeamMember(m1.ID, "U", "u@x.com", "9000000001", "Passw0rd!", nil)
	require.NoError(t, err)

	// another manager cannot see or touch m1's member
	_, err = f.svc.GetTeamMember(m2.ID, acc.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)
	err = f.svc.DeleteTeamMember(m2.ID, acc.ID)
	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestUpdateMemberPermissions(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)
	acc, err := f.svc.CreateTeamMember(m.ID, "U", "u@x.com", "9000000001", "Passw0rd!", nil)
	require.NoError(t, err)

	perms := models.Permissions{CanAdd: true}
	require.NoError(t, f.svc.UpdateMemberPermissions(m.ID, acc.ID, perms))

	got, err := f.svc.GetAccountByID(acc.ID)
	require.NoError(t, err)
	assert.Equal(t, perms, got.Permissions)
}

func TestDeleteAccountCascades(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)
	acc, err := f.svc.CreateTeamMember(m.ID, "U", "u@x.com", "9000000001", "Passw0rd!", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteAccountCascade(acc.ID))

	assert.Equal(t, []int{acc.ID}, f.expenses.purged)
	assert.Equal(t, []int{acc.ID}, f.incomes.purged)
	got, err := f.svc.GetAccountByID(acc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, f.svc.DeleteAccountCascade(acc.ID), ErrAccountNotFound)
}

func TestUpdateRoleValidation(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)

	bad := "superuser"
	assert.Error(t, f.svc.UpdateRole(m.ID, &bad, nil, false, nil))

	admin := "admin"
	require.NoError(t, f.svc.UpdateRole(m.ID, &admin, nil, false, nil))
	got, err := f.svc.GetAccountByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)
}

func TestUpdateRoleDetachManager(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)
	acc, err := f.svc.CreateTeamMember(m.ID, "U", "u@x.com", "9000000001", "Passw0rd!", nil)
	require.NoError(t, err)

	// absent manager field leaves the link alone
	require.NoError(t, f.svc.UpdateRole(acc.ID, nil, nil, false, nil))
	got, _ := f.svc.GetAccountByID(acc.ID)
	require.NotNil(t, got.ManagerID)

	// explicit detach clears it
	require.NoError(t, f.svc.UpdateRole(acc.ID, nil, nil, true, nil))
	got, _ = f.svc.GetAccountByID(acc.ID)
	assert.Nil(t, got.ManagerID)
}

func TestCategoryAddIsOrderedAndDeduplicated(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)

	cats, err := f.svc.AddCategory(m.ID, "expense", "Travel")
	require.NoError(t, err)
	assert.Equal(t, "Travel", cats[len(cats)-1])

	// duplicate add is a silent no-op
	again, err := f.svc.AddCategory(m.ID, "expense", "Travel")
	require.NoError(t, err)
	assert.Equal(t, cats, again)
}

func TestCategoryRemove(t *testing.T) {
	t.Parallel()
	f := newAccountFixture()
	m := f.seedManager(t)

	cats, err := f.svc.ListCategories(m.ID, "income")
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	out, err := f.svc.RemoveCategory(m.ID, "income", cats[0])
	require.NoError(t, err)
	assert.Len(t, out, len(cats)-1)
	assert.NotContains(t, out, cats[0])

	// removing something absent changes nothing
	same, err := f.svc.RemoveCategory(m.ID, "income", "NoSuchCategory")
	require.NoError(t, err)
	assert.Equal(t, out, same)
}
