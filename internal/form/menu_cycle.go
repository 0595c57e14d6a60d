package form

import (
	"fmt"

	"nutripae/internal/dto"
)

// MsgEmptyDay is reported for a daily menu without any dish.
const MsgEmptyDay = "Cada día debe tener al menos un plato en desayuno, almuerzo o refrigerio"

// DailyMenusRule reports one error per day whose three meal slots are all
// empty, keyed daily_menus[i].
func DailyMenusRule(menus []dto.DailyMenuInput) map[string]string {
	var errs map[string]string
	for i, d := range menus {
		if d.DishCount() > 0 {
			continue
		}
		if errs == nil {
			errs = make(map[string]string)
		}
		errs[fmt.Sprintf("daily_menus[%d]", i)] = MsgEmptyDay
	}
	return errs
}

func menuCycleRule(v *dto.MenuCycleRequest) map[string]string {
	return DailyMenusRule(v.DailyMenus)
}
