package catalog

import (
	"testing"

	"spadesk/internal/db"
)

func testCatalog() *Catalog {
	var services []db.Service
	for i, s := range db.DefaultServices {
		s.ID = i + 1
		s.IsActive = true
		services = append(services, s)
	}
	services = append(services, db.Service{ID: 99, Name: "Retired Wrap", Duration: 90, Price: 10, Category: "body_treatment", IsActive: false})
	return New(services)
}

func names(services []db.Service) []string {
	out := make([]string, len(services))
	for i, s := range services {
		out[i] = s.Name
	}
	return out
}

func TestNewSkipsInactive(t *testing.T) {
	c := testCatalog()
	if c.Len() != len(db.DefaultServices) {
		t.Fatalf("Len() = %d, want %d", c.Len(), len(db.DefaultServices))
	}
	if _, ok := c.Lookup("Retired Wrap"); ok {
		t.Error("inactive service should not be bookable")
	}
	if _, ok := c.Get(99); ok {
		t.Error("inactive service should not be listed by id")
	}
}

func TestLookup(t *testing.T) {
	c := testCatalog()
	s, ok := c.Lookup("Swedish Massage")
	if !ok {
		t.Fatal("Swedish Massage not found")
	}
	if s.Duration != 60 || s.Price != 80 {
		t.Errorf("got %+v", s)
	}
	if _, ok := c.Lookup("swedish massage"); ok {
		t.Error("lookup is by exact name")
	}
}

func TestListOrderAndFilter(t *testing.T) {
	c := testCatalog()

	all := c.List("")
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Category > cur.Category || (prev.Category == cur.Category && prev.Name > cur.Name) {
			t.Fatalf("not ordered by category, name: %v", names(all))
		}
	}

	facials := c.List("facial")
	if len(facials) != 2 {
		t.Fatalf("facials = %v", names(facials))
	}
	if got := c.List("nails"); got == nil || len(got) != 0 {
		t.Errorf("unknown category = %v, want empty", got)
	}
}

func TestListReturnsCopies(t *testing.T) {
	c := testCatalog()
	list := c.List("")
	list[0].Price = 0

	again := c.List("")
	if again[0].Price == 0 {
		t.Fatal("mutating a returned slice changed the catalog")
	}
}

func TestCategories(t *testing.T) {
	c := testCatalog()
	cats := c.Categories()
	want := []string{"body_treatment", "facial", "massage", "wellness"}
	if len(cats) != len(want) {
		t.Fatalf("got %d categories", len(cats))
	}
	for i, cat := range cats {
		if cat.Category != want[i] {
			t.Errorf("cats[%d] = %s, want %s", i, cat.Category, want[i])
		}
	}
	if len(cats[2].Services) != 3 {
		t.Errorf("massage has %d services, want 3", len(cats[2].Services))
	}
}

func TestSearch(t *testing.T) {
	c := testCatalog()
	got := names(c.Search("MASSAGE"))
	if len(got) != 3 {
		t.Fatalf("Search(MASSAGE) = %v", got)
	}
	got = names(c.Search("essential oils"))
	if len(got) != 1 || got[0] != "Aromatherapy Session" {
		t.Errorf("description search = %v", got)
	}
}

func TestPopular(t *testing.T) {
	c := testCatalog()
	got := c.Popular(5)
	if len(got) != 5 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Name != "Hot Stone Massage" {
		t.Errorf("most popular = %s", got[0].Name)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Price > got[i-1].Price {
			t.Fatalf("not sorted by price desc: %v", names(got))
		}
	}
}

func TestRecommendations(t *testing.T) {
	c := testCatalog()

	got := c.Recommendations(Filter{Category: "massage", MaxPrice: 100}, 5)
	if len(got) != 2 {
		t.Fatalf("got %v", names(got))
	}
	if got[0].Name != "Swedish Massage" {
		t.Errorf("best value massage = %s", got[0].Name)
	}

	short := c.Recommendations(Filter{MaxDuration: 45}, 5)
	if len(short) != 1 || short[0].Name != "Body Scrub" {
		t.Errorf("MaxDuration filter = %v", names(short))
	}
}
