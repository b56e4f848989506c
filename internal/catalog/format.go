package catalog

import (
	"fmt"
	"strings"
)

// Line renders a service the way it is shown to clients.
func Line(s Service) string {
	return fmt.Sprintf("• %s — %s (%s)", s.Name, s.Price, s.Description)
}

// FormatGroups renders the whole menu grouped by category.
func FormatGroups(groups []Group) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "💎 **%s** 💎\n", g.Category)
		for _, s := range g.Services {
			b.WriteString(Line(s))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatList renders a flat result list, or a not-found notice.
func FormatList(keyword string, services []Service) string {
	if len(services) == 0 {
		return fmt.Sprintf("No matching services found for '%s'.", keyword)
	}
	lines := make([]string, 0, len(services))
	for _, s := range services {
		lines = append(lines, Line(s))
	}
	return strings.Join(lines, "\n")
}
