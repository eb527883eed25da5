package category_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthdash/wealthdash/pkg/domain/category"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Education"}, category.Defaults(category.Expense))
	assert.Equal(t, []string{"Salary", "Freelance", "Investments", "Gift"}, category.Defaults(category.Income))
	assert.Equal(t, "Food", category.DefaultFor(category.Expense))
	assert.Equal(t, "Salary", category.DefaultFor(category.Income))

	d := category.Defaults(category.Income)
	d[0] = "mutated"
	assert.Equal(t, "Salary", category.DefaultFor(category.Income))
}

func TestNew(t *testing.T) {
	t.Parallel()
	user := uuid.New()

	c, err := category.New(user, "  Pets ", category.Expense)
	require.NoError(t, err)
	assert.Equal(t, "Pets", c.Name)
	assert.Equal(t, user, c.UserID)

	_, err = category.New(user, "food", category.Expense)
	assert.ErrorIs(t, err, category.ErrDuplicate)

	// A default of the other type is fine.
	_, err = category.New(user, "Food", category.Income)
	assert.NoError(t, err)

	_, err = category.New(user, "transfer", category.Expense)
	assert.ErrorIs(t, err, category.ErrReserved)

	_, err = category.New(user, "", category.Expense)
	assert.ErrorIs(t, err, category.ErrNameRequired)

	_, err = category.New(user, "Misc", "Transfer")
	assert.ErrorIs(t, err, category.ErrInvalidType)
}

func TestMerge(t *testing.T) {
	t.Parallel()
	custom := []*category.Category{
		{Name: "Pets", Type: category.Expense},
		{Name: "Rent", Type: category.Income},
	}
	names := category.Merge(category.Income, custom)
	assert.Equal(t, []string{"Salary", "Freelance", "Investments", "Gift", "Rent"}, names)
}
