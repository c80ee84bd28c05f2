package trip

import "github.com/shopspring/decimal"

// Money is written as JSON numbers, the form stored trip records use.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar date format used for trip and activity dates.
const DateLayout = "2006-01-02"

// Category is the closed set of activity kinds.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryAdventure Category = "adventure"
	CategoryCulture   Category = "culture"
	CategoryRelax     Category = "relax"
	CategoryTransit   Category = "transit"
)

// Categories lists every valid activity category.
var Categories = []Category{
	CategoryFood,
	CategoryAdventure,
	CategoryCulture,
	CategoryRelax,
	CategoryTransit,
}

// Valid reports whether c is one of the known activity categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Role identifies what a budget category pays for.
type Role string

const (
	RoleAccommodation  Role = "accommodation"
	RoleTransportation Role = "transportation"
	RoleFood           Role = "food"
	RoleActivities     Role = "activities"
)

// Coordinates is a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Activity is a single scheduled, costed event within a trip.
type Activity struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Cost        decimal.Decimal `json:"cost"`
	Category    Category        `json:"category"`
	Coordinates *Coordinates    `json:"coordinates,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// BudgetCategory is a named spending bucket. Spent is derived from the
// trip's activities and is rewritten on every activity or budget change.
type BudgetCategory struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Role      Role            `json:"role,omitempty"`
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	Color     string          `json:"color"`
}

// Trip is a planned journey. It exclusively owns its activities and
// budget categories.
type Trip struct {
	ID               string           `json:"id"`
	Destination      string           `json:"destination"`
	StartDate        string           `json:"startDate"`
	EndDate          string           `json:"endDate"`
	TotalBudget      decimal.Decimal  `json:"totalBudget"`
	Image            string           `json:"image"`
	BudgetCategories []BudgetCategory `json:"budgetCategories"`
	Activities       []Activity       `json:"activities"`
}

// Clone returns a deep copy so callers can mutate it without touching
// shared state.
func (t Trip) Clone() Trip {
	out := t
	if t.BudgetCategories != nil {
		out.BudgetCategories = make([]BudgetCategory, len(t.BudgetCategories))
		copy(out.BudgetCategories, t.BudgetCategories)
	}
	if t.Activities == nil {
		return out
	}
	out.Activities = make([]Activity, len(t.Activities))
	for i, a := range t.Activities {
		if a.Coordinates != nil {
			c := *a.Coordinates
			a.Coordinates = &c
		}
		out.Activities[i] = a
	}
	return out
}

// TotalSpent sums the spent amount of every budget category.
func (t Trip) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, c := range t.BudgetCategories {
		total = total.Add(c.Spent)
	}
	return total
}

// TotalAllocated sums the allocated amount of every budget category.
func (t Trip) TotalAllocated() decimal.Decimal {
	total := decimal.Zero
	for _, c := range t.BudgetCategories {
		total = total.Add(c.Allocated)
	}
	return total
}

// Remaining is the total budget minus everything spent so far.
func (t Trip) Remaining() decimal.Decimal {
	return t.TotalBudget.Sub(t.TotalSpent())
}

// CloneAll deep-copies a trip list.
func CloneAll(trips []Trip) []Trip {
	if trips == nil {
		return nil
	}
	out := make([]Trip, len(trips))
	for i, t := range trips {
		out[i] = t.Clone()
	}
	return out
}
