package trip

import "github.com/shopspring/decimal"

// Palette colors used for budget categories.
const (
	ColorSage   = "#6d9c7e"
	ColorWarm   = "#d4a373"
	ColorSky    = "#0ea5e9"
	ColorRose   = "#f43f5e"
	ColorViolet = "#8b5cf6"
	ColorAmber  = "#f59e0b"
	ColorSlate  = "#64748b"
)

// CoverImage is one of the built-in trip cover pictures.
type CoverImage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CoverImages are offered when creating a trip. The first one is the
// default cover.
var CoverImages = []CoverImage{
	{ID: "city", Name: "City", URL: "https://images.unsplash.com/photo-1449824913935-59a10b8d2000?q=80&w=1000&auto=format&fit=crop"},
	{ID: "beach", Name: "Beach", URL: "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?q=80&w=1000&auto=format&fit=crop"},
	{ID: "mountain", Name: "Mountain", URL: "https://images.unsplash.com/photo-1464822759023-fed622ff2c3b?q=80&w=1000&auto=format&fit=crop"},
	{ID: "nature", Name: "Forest", URL: "https://images.unsplash.com/photo-1441974231531-c6227db76b6e?q=80&w=1000&auto=format&fit=crop"},
	{ID: "culture", Name: "Culture", URL: "https://images.unsplash.com/photo-1528164344705-47542687000d?q=80&w=1000&auto=format&fit=crop"},
	{ID: "safari", Name: "Safari", URL: "https://images.unsplash.com/photo-1516426122078-c23e76319801?q=80&w=1000&auto=format&fit=crop"},
}

const (
	defaultDestination = "Unknown"
	defaultTripDays    = 5
)

var defaultTotalBudget = decimal.NewFromInt(1000)

type categoryTemplate struct {
	id    string
	name  string
	role  Role
	share decimal.Decimal
	color string
}

var defaultSplit = []categoryTemplate{
	{id: "b1", name: "Accommodation", role: RoleAccommodation, share: decimal.RequireFromString("0.35"), color: ColorSage},
	{id: "b2", name: "Transportation", role: RoleTransportation, share: decimal.RequireFromString("0.25"), color: ColorSky},
	{id: "b3", name: "Food", role: RoleFood, share: decimal.RequireFromString("0.20"), color: ColorWarm},
	{id: "b4", name: "Activities", role: RoleActivities, share: decimal.RequireFromString("0.20"), color: ColorViolet},
}

// DefaultCategories splits total into the standard four budget categories.
func DefaultCategories(total decimal.Decimal) []BudgetCategory {
	out := make([]BudgetCategory, 0, len(defaultSplit))
	for _, tpl := range defaultSplit {
		out = append(out, BudgetCategory{
			ID:        tpl.id,
			Name:      tpl.name,
			Role:      tpl.role,
			Allocated: total.Mul(tpl.share),
			Spent:     decimal.Zero,
			Color:     tpl.color,
		})
	}
	return out
}
