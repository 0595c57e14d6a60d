package form

import (
	"context"
	"testing"

	"nutripae/internal/apierror"
	"nutripae/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownIDs(ids ...string) IDSet {
	return func(context.Context) (map[string]bool, error) {
		out := make(map[string]bool, len(ids))
		for _, id := range ids {
			out[id] = true
		}
		return out, nil
	}
}

func twoDayCycle() dto.MenuCycleRequest {
	return dto.MenuCycleRequest{
		Name:         "Ciclo A",
		DurationDays: 2,
		DailyMenus: []dto.DailyMenuInput{
			{Day: 1, BreakfastDishIDs: []string{"a"}},
			{Day: 2},
		},
	}
}

func TestMenuCycle_EmptyDayReported(t *testing.T) {
	calls := 0
	f := New(MenuCycle(knownIDs("a", "b")), func(context.Context, dto.MenuCycleRequest) error {
		calls++
		return nil
	})
	f.Open(nil)

	errs := f.Set(twoDayCycle())
	assert.Equal(t, map[string]string{"daily_menus[1]": MsgEmptyDay}, errs)
	assert.False(t, f.CanSubmit())

	err := f.Submit(context.Background())
	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"daily_menus[1]": MsgEmptyDay}, apiErr.Fields)
	assert.Equal(t, 0, calls)

	// filling day 2 clears the error on the next Set
	fixed := twoDayCycle()
	fixed.DailyMenus[1].SnackDishIDs = []string{"b"}
	assert.Empty(t, f.Set(fixed))
	assert.True(t, f.CanSubmit())
	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestMenuCycle_UnknownDish(t *testing.T) {
	f := New(MenuCycle(knownIDs("a")), func(context.Context, dto.MenuCycleRequest) error { return nil })
	f.Open(nil)
	v := twoDayCycle()
	v.DailyMenus[1].LunchDishIDs = []string{"zz"}
	f.Set(v)

	apiErr, _ := apierror.As(f.Submit(context.Background()))
	require.NotNil(t, apiErr)
	assert.Equal(t, map[string]string{"daily_menus[1].lunch_dish_ids[0]": "Plato inexistente"}, apiErr.Fields)
}

func TestDailyMenusRule(t *testing.T) {
	assert.Nil(t, DailyMenusRule(nil))
	errs := DailyMenusRule([]dto.DailyMenuInput{{Day: 1}, {Day: 2, LunchDishIDs: []string{"x"}}, {Day: 3}})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "daily_menus[0]")
	assert.Contains(t, errs, "daily_menus[2]")
}
