package trip

import (
	"fmt"
	"strings"
	"time"
)

// ValidateTrip checks dates, money, and nested activities.
func ValidateTrip(t Trip) error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	start, err := parseDate("startDate", t.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", t.EndDate)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("%w: endDate %s is before startDate %s", ErrInvalidInput, t.EndDate, t.StartDate)
	}
	if t.TotalBudget.IsNegative() {
		return fmt.Errorf("%w: totalBudget must not be negative", ErrInvalidInput)
	}
	if err := ValidateCategories(t.BudgetCategories); err != nil {
		return err
	}
	for _, a := range t.Activities {
		if err := ValidateActivity(a); err != nil {
			return err
		}
	}
	return nil
}

// ValidateActivity checks a single activity.
func ValidateActivity(a Activity) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: activity name is required", ErrInvalidInput)
	}
	if _, err := parseDate("date", a.Date); err != nil {
		return err
	}
	if a.Time != "" {
		if _, err := time.Parse("15:04", a.Time); err != nil {
			return fmt.Errorf("%w: time %q must be HH:MM", ErrInvalidInput, a.Time)
		}
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, a.Category)
	}
	if a.Cost.IsNegative() {
		return fmt.Errorf("%w: cost must not be negative", ErrInvalidInput)
	}
	return nil
}

// ValidateCategories checks budget categories.
func ValidateCategories(cats []BudgetCategory) error {
	for _, c := range cats {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: category name is required", ErrInvalidInput)
		}
		if c.Allocated.IsNegative() {
			return fmt.Errorf("%w: allocation for %q must not be negative", ErrInvalidInput, c.Name)
		}
		switch c.Role {
		case "", RoleAccommodation, RoleTransportation, RoleFood, RoleActivities:
		default:
			return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, c.Role)
		}
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q must be YYYY-MM-DD", ErrInvalidInput, field, value)
	}
	return d, nil
}
