package agent

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	"github.com/BruksfildServices01/salon-scheduler/internal/history"
)

// CatalogRunner answers from the catalog by keyword when no language
// model is configured.
type CatalogRunner struct {
	catalog   *catalog.Catalog
	hoursText string
}

func NewCatalogRunner(cat *catalog.Catalog, hoursText string) *CatalogRunner {
	return &CatalogRunner{catalog: cat, hoursText: hoursText}
}

func (r *CatalogRunner) Run(_ context.Context, _ []history.Message, input string) (string, error) {
	lower := strings.ToLower(input)

	switch {
	case containsAny(lower, "open", "hours", "close", "closing"):
		return r.hoursText, nil
	case containsAny(lower, "book", "appointment", "reserve"):
		return "I'd love to get you booked in! Tap \"📅 Book Appointment\" below to choose your service, date and time.", nil
	}

	seen := map[string]struct{}{}
	var matches []catalog.Service
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if len(word) < 4 {
			continue
		}
		for _, s := range r.catalog.Search(word) {
			if _, dup := seen[s.Name]; dup {
				continue
			}
			seen[s.Name] = struct{}{}
			matches = append(matches, s)
		}
	}

	if len(matches) > 0 {
		return "Here's what I found:\n" + catalog.FormatList(input, matches) +
			"\n\nTap \"📅 Book Appointment\" whenever you're ready.", nil
	}

	return "I specialise in our salon services. Here's everything we offer:\n\n" +
		SearchText(r.catalog, "all"), nil
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
