package catalog

import (
	"sort"
	"strings"

	"spadesk/internal/db"
)

// Catalog is the read-only set of active services, loaded once at start.
// Every accessor returns copies so callers cannot mutate it.
type Catalog struct {
	services []db.Service // ordered by category, then name
	byName   map[string]int
	byID     map[int]int
}

type Category struct {
	Category string       `json:"category"`
	Services []db.Service `json:"services"`
}

// Filter narrows Recommendations. Zero values mean "no limit".
type Filter struct {
	Category    string
	MaxDuration int
	MaxPrice    float64
}

func New(services []db.Service) *Catalog {
	c := &Catalog{
		byName: make(map[string]int),
		byID:   make(map[int]int),
	}
	for _, s := range services {
		if !s.IsActive {
			continue
		}
		c.services = append(c.services, s)
	}
	sort.SliceStable(c.services, func(i, j int) bool {
		if c.services[i].Category != c.services[j].Category {
			return c.services[i].Category < c.services[j].Category
		}
		return c.services[i].Name < c.services[j].Name
	})
	for i, s := range c.services {
		c.byName[s.Name] = i
		c.byID[s.ID] = i
	}
	return c
}

func (c *Catalog) Lookup(name string) (db.Service, bool) {
	i, ok := c.byName[name]
	if !ok {
		return db.Service{}, false
	}
	return c.services[i], true
}

func (c *Catalog) Get(id int) (db.Service, bool) {
	i, ok := c.byID[id]
	if !ok {
		return db.Service{}, false
	}
	return c.services[i], true
}

func (c *Catalog) List(category string) []db.Service {
	out := []db.Service{}
	for _, s := range c.services {
		if category == "" || s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

func (c *Catalog) Categories() []Category {
	out := []Category{}
	for _, s := range c.services {
		if n := len(out); n == 0 || out[n-1].Category != s.Category {
			out = append(out, Category{Category: s.Category})
		}
		last := &out[len(out)-1]
		last.Services = append(last.Services, s)
	}
	return out
}

// Search matches term case-insensitively against name and description.
func (c *Catalog) Search(term string) []db.Service {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []db.Service{}
	for _, s := range c.services {
		if strings.Contains(strings.ToLower(s.Name), term) || strings.Contains(strings.ToLower(s.Description), term) {
			out = append(out, s)
		}
	}
	return out
}

// Popular returns the n most expensive services.
func (c *Catalog) Popular(n int) []db.Service {
	out := c.List("")
	sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return head(out, n)
}

// Recommendations returns up to n services matching f, best value
// (lowest price per minute) first.
func (c *Catalog) Recommendations(f Filter, n int) []db.Service {
	out := []db.Service{}
	for _, s := range c.services {
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.MaxDuration > 0 && s.Duration > f.MaxDuration {
			continue
		}
		if f.MaxPrice > 0 && s.Price > f.MaxPrice {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price/float64(out[i].Duration) < out[j].Price/float64(out[j].Duration)
	})
	return head(out, n)
}

func (c *Catalog) Len() int { return len(c.services) }

func head(s []db.Service, n int) []db.Service {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
