package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpggio/wandernest/internal/domain/journal"
	"github.com/rpggio/wandernest/internal/domain/trip"
	"github.com/rpggio/wandernest/internal/reconcile"
)

var (
	colorSage  = lipgloss.Color(trip.ColorSage)
	colorWarm  = lipgloss.Color(trip.ColorWarm)
	colorSlate = lipgloss.Color(trip.ColorSlate)
	colorRose  = lipgloss.Color(trip.ColorRose)
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorSage)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarm).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorSlate)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRose)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

func renderTrips(trips []trip.Trip) string {
	if len(trips) == 0 {
		return mutedStyle.Render("No trips yet.")
	}
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, []string{
			t.ID,
			t.Destination,
			t.StartDate + " → " + t.EndDate,
			t.TotalBudget.StringFixed(2),
			t.TotalSpent().StringFixed(2),
			fmt.Sprintf("%d", len(t.Activities)),
		})
	}
	return renderTable([]string{"ID", "Destination", "Dates", "Budget", "Spent", "Activities"}, rows)
}

func renderTrip(t trip.Trip) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Destination))
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(t.ID + "  " + t.StartDate + " → " + t.EndDate))
	b.WriteString("\n")

	cats := make([][]string, 0, len(t.BudgetCategories))
	for _, c := range t.BudgetCategories {
		cats = append(cats, []string{
			c.Name,
			string(c.EffectiveRole()),
			c.Allocated.StringFixed(2),
			c.Spent.StringFixed(2),
		})
	}
	b.WriteString(renderTable([]string{"Category", "Role", "Allocated", "Spent"}, cats))
	b.WriteString("\n")

	if len(t.Activities) > 0 {
		acts := make([][]string, 0, len(t.Activities))
		for _, a := range t.Activities {
			acts = append(acts, []string{a.Date, a.Time, a.Name, string(a.Category), a.Cost.StringFixed(2)})
		}
		b.WriteString(renderTable([]string{"Date", "Time", "Activity", "Category", "Cost"}, acts))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Remaining: %s", t.Remaining().StringFixed(2)))
	return b.String()
}

func renderAnalytics(a trip.Analytics) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Travel analytics"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total spent:  %s\n", a.TotalSpent.StringFixed(2)))
	b.WriteString(fmt.Sprintf("Trips:        %d\n", a.TripCount))
	b.WriteString(fmt.Sprintf("Average cost: %s\n", a.AverageCost.StringFixed(2)))
	if len(a.PerTrip) > 0 {
		rows := make([][]string, 0, len(a.PerTrip))
		for _, c := range a.PerTrip {
			rows = append(rows, []string{c.City, c.Cost.StringFixed(2)})
		}
		b.WriteString(renderTable([]string{"City", "Cost"}, rows))
	}
	return b.String()
}

func renderStatus(s reconcile.Status) string {
	mode := "Local-only"
	if s.Mode == reconcile.ModeCloud {
		mode = "Cloud-connected"
	}
	out := fmt.Sprintf("%s  %s", titleStyle.Render(mode), mutedStyle.Render(fmt.Sprintf("%d trips", s.TripCount)))
	if s.ProjectID != "" {
		out += "\nProject:  " + s.ProjectID
	}
	if s.Database != "" {
		out += "\nDatabase: " + s.Database
	}
	return out
}

func renderWrites(writes []journal.Write) string {
	if len(writes) == 0 {
		return mutedStyle.Render("No writes recorded.")
	}
	rows := make([][]string, 0, len(writes))
	for _, w := range writes {
		rows = append(rows, []string{
			w.UpdatedAt.Format("2006-01-02 15:04:05"),
			w.TripID,
			string(w.Op),
			string(w.Status),
			w.Error,
		})
	}
	return renderTable([]string{"Updated", "Trip", "Op", "Status", "Error"}, rows)
}

func renderError(err error) string {
	return errorStyle.Render("error: ") + err.Error()
}
