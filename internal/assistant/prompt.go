package assistant

import (
	"fmt"
	"strings"
)

func systemInstruction(c ChatContext) string {
	var b strings.Builder
	b.WriteString("You are WanderNest AI, a helpful, warm, and knowledgeable family travel assistant.\n")
	b.WriteString("Your tone is encouraging and organized.\n")
	fmt.Fprintf(&b, "Current Context: User is viewing %s.\n", c.View)
	if c.Trip != nil {
		fmt.Fprintf(&b, "Selected Trip: %s (%s to %s).\n", c.Trip.Destination, c.Trip.StartDate, c.Trip.EndDate)
	}
	b.WriteString("\nHelp the user plan trips, manage budgets, and find activities. Keep responses concise and easy to read.")
	return b.String()
}

func suggestPrompt(destination string, interests []string) string {
	return fmt.Sprintf(
		"Suggest 3 unique family-friendly activities in %s based on these interests: %s.\nFormat as a concise list with estimated costs.",
		destination, strings.Join(interests, ", "))
}
