package trip

import (
	"strings"

	"github.com/shopspring/decimal"
)

// roleByCategory maps every activity category to the budget role that pays
// for it. The table is exhaustive over Categories.
var roleByCategory = map[Category]Role{
	CategoryFood:      RoleFood,
	CategoryTransit:   RoleTransportation,
	CategoryAdventure: RoleActivities,
	CategoryCulture:   RoleActivities,
	CategoryRelax:     RoleAccommodation,
}

// RoleFor returns the budget role an activity category is charged to.
func RoleFor(c Category) (Role, bool) {
	r, ok := roleByCategory[c]
	return r, ok
}

// roleKeywords are the lowercase fragments that tie a category name to a
// role. Order decides InferRole when a name carries several.
var roleKeywords = []struct {
	role     Role
	keywords []string
}{
	{RoleFood, []string{"food"}},
	{RoleTransportation, []string{"transport"}},
	{RoleActivities, []string{"activit"}},
	{RoleAccommodation, []string{"accomm", "hotel"}},
}

// nameMatches reports whether a category name contains a keyword of role r,
// case-insensitively.
func nameMatches(name string, r Role) bool {
	n := strings.ToLower(name)
	for _, rk := range roleKeywords {
		if rk.role != r {
			continue
		}
		for _, kw := range rk.keywords {
			if strings.Contains(n, kw) {
				return true
			}
		}
	}
	return false
}

// InferRole derives a display role from a category name: the first role
// whose keyword appears. An empty role means no keyword matched.
func InferRole(name string) Role {
	for _, rk := range roleKeywords {
		if nameMatches(name, rk.role) {
			return rk.role
		}
	}
	return ""
}

// EffectiveRole is the explicit role when set, else the role inferred from
// the name.
func (c BudgetCategory) EffectiveRole() Role {
	if c.Role != "" {
		return c.Role
	}
	return InferRole(c.Name)
}

// Accepts reports whether the category pays for role r. An explicit role
// must equal r; otherwise the name is searched for r's keywords, so a name
// like "Hotel & Food" accepts both accommodation and food.
func (c BudgetCategory) Accepts(r Role) bool {
	if c.Role != "" {
		return c.Role == r
	}
	return nameMatches(c.Name, r)
}

// Allocation is the result of recomputing spend for a trip.
type Allocation struct {
	Categories []BudgetCategory
	// Fallback holds activities no category matched; their cost was charged
	// to the first category.
	Fallback []Activity
	// Dropped holds activities whose cost went nowhere because there were
	// no categories at all.
	Dropped []Activity
}

// Allocate recomputes each category's spent total from scratch. Inputs are
// not modified; allocated amounts and identity fields are copied as-is.
func Allocate(activities []Activity, categories []BudgetCategory) Allocation {
	out := make([]BudgetCategory, len(categories))
	for i, c := range categories {
		c.Spent = decimal.Zero
		out[i] = c
	}

	var result Allocation
	for _, act := range activities {
		idx := -1
		if want, ok := roleByCategory[act.Category]; ok {
			for i, c := range out {
				if c.Accepts(want) {
					idx = i
					break
				}
			}
		}
		if idx == -1 {
			if len(out) == 0 {
				result.Dropped = append(result.Dropped, act)
				continue
			}
			idx = 0
			result.Fallback = append(result.Fallback, act)
		}
		out[idx].Spent = out[idx].Spent.Add(act.Cost)
	}

	result.Categories = out
	return result
}

// Reallocate replaces the trip's categories with a fresh allocation and
// returns the allocation details.
func (t *Trip) Reallocate() Allocation {
	alloc := Allocate(t.Activities, t.BudgetCategories)
	if t.BudgetCategories != nil {
		t.BudgetCategories = alloc.Categories
	}
	return alloc
}
