// Package catalog holds the read-only list of services the salon offers.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
)

//go:embed default.yaml
var defaultCatalog []byte

type Service struct {
	Name        string `yaml:"name" json:"name"`
	Category    string `yaml:"category" json:"category"`
	Price       string `yaml:"price" json:"price"`
	Description string `yaml:"description" json:"description"`
}

// Minutes is the service duration, falling back to the default duration
// when the description has no recognisable units.
func (s Service) Minutes() int {
	if m, ok := booking.ParseDuration(s.Description); ok {
		return m
	}
	return booking.DefaultDurationMinutes
}

type Catalog struct {
	services []Service
}

type catalogFile struct {
	Services []Service `yaml:"services"`
}

func New(services []Service) (*Catalog, error) {
	seen := make(map[string]struct{}, len(services))
	for i, s := range services {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("service #%d has no name", i+1)
		}
		if strings.TrimSpace(s.Category) == "" {
			return nil, fmt.Errorf("service %q has no category", name)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate service %q", name)
		}
		seen[key] = struct{}{}
	}

	out := make([]Service, len(services))
	copy(out, services)
	return &Catalog{services: out}, nil
}

func Parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, errors.New("catalog has no services")
	}
	return New(f.Services)
}

// Load reads the catalog from path, or the built-in catalog when path is
// empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) All() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// Categories returns the distinct categories in lexical order.
func (c *Catalog) Categories() []string {
	set := map[string]struct{}{}
	for _, s := range c.services {
		set[s.Category] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// InCategory lists services of category in catalog order.
func (c *Catalog) InCategory(category string) []Service {
	var out []Service
	for _, s := range c.services {
		if strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the first service whose name matches case-insensitively.
func (c *Catalog) Find(name string) (Service, bool) {
	name = strings.TrimSpace(name)
	for _, s := range c.services {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Service{}, false
}

// DurationFor never fails: unknown services get the default duration.
func (c *Catalog) DurationFor(name string) int {
	if s, ok := c.Find(name); ok {
		return s.Minutes()
	}
	return booking.DefaultDurationMinutes
}

// Search matches keyword against service names and categories. The
// keyword "all" returns every service.
func (c *Catalog) Search(keyword string) []Service {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	if keyword == "all" {
		return c.All()
	}

	var out []Service
	for _, s := range c.services {
		if strings.Contains(strings.ToLower(s.Name), keyword) ||
			strings.Contains(strings.ToLower(s.Category), keyword) {
			out = append(out, s)
		}
	}
	return out
}

// Group is one category with its services, in first-appearance order.
type Group struct {
	Category string    `json:"category"`
	Services []Service `json:"services"`
}

func (c *Catalog) Grouped() []Group {
	var groups []Group
	index := map[string]int{}
	for _, s := range c.services {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, Group{Category: s.Category})
		}
		groups[i].Services = append(groups[i].Services, s)
	}
	return groups
}
