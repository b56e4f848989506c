package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/flow"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	hours   domain.WeeklyHours
}

func NewCatalogHandler(cat *catalog.Catalog, hours domain.WeeklyHours) *CatalogHandler {
	return &CatalogHandler{catalog: cat, hours: hours}
}

// List returns the menu grouped by category, optionally narrowed by
// ?q=keyword.
func (h *CatalogHandler) List(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		httpresp.List(c, h.catalog.Grouped())
		return
	}

	groups := []catalog.Group{}
	index := map[string]int{}
	for _, s := range h.catalog.Search(q) {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, catalog.Group{Category: s.Category})
		}
		groups[i].Services = append(groups[i].Services, s)
	}
	httpresp.List(c, groups)
}

func (h *CatalogHandler) Hours(c *gin.Context) {
	httpresp.OK(c, dto.HoursDTO{
		Text: flow.HoursText(h.hours),
		Days: h.hours.Schedule(),
	})
}
