package attune

import (
	"sync"
	"testing"
)

func TestNewCatalogRejectsEmptyID(t *testing.T) {
	_, err := NewCatalog([]Prompt{{Question: "q"}})
	if err == nil {
		t.Error("expected error for empty prompt id")
	}
}

func TestNewCatalogRejectsDuplicateID(t *testing.T) {
	_, err := NewCatalog([]Prompt{
		{ID: "a", Question: "q1"},
		{ID: "a", Question: "q2"},
	})
	if err == nil {
		t.Error("expected error for duplicate prompt id")
	}
}

func TestNewCatalogDefaultsEffectiveness(t *testing.T) {
	c, err := NewCatalog([]Prompt{{ID: "a", Question: "q"}})
	if err != nil {
		t.Fatal(err)
	}
	p, _ := c.ByID("a")
	if p.Effectiveness != 1.0 {
		t.Errorf("effectiveness = %.2f, want 1.0", p.Effectiveness)
	}
}

func TestDefaultCatalogCoversAllTimeBuckets(t *testing.T) {
	c := DefaultCatalog()
	for _, tod := range AllTimesOfDay {
		found := false
		for _, p := range c.All() {
			if p.TimeOfDay == tod {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no prompts for %s", tod)
		}
	}
}

func TestPromptsForFallsBackToAll(t *testing.T) {
	c, err := NewCatalog([]Prompt{{ID: "a", Question: "q", TimeOfDay: Morning}})
	if err != nil {
		t.Fatal(err)
	}
	got := c.PromptsFor(Night)
	if len(got) != 1 {
		t.Errorf("empty bucket should fall back to whole catalog, got %d", len(got))
	}
}

func TestSetEffectiveness(t *testing.T) {
	c, _ := NewCatalog([]Prompt{{ID: "a", Question: "q"}})
	c.SetEffectiveness("a", 1.8)
	p, _ := c.ByID("a")
	if p.Effectiveness != 1.8 {
		t.Errorf("effectiveness = %.2f, want 1.8", p.Effectiveness)
	}
	// Unknown ids are ignored
	c.SetEffectiveness("zzz", 2.0)
}

func TestCatalogConcurrentUse(t *testing.T) {
	c := DefaultCatalog()
	ids := make([]string, 0, c.Len())
	for _, p := range c.All() {
		ids = append(ids, p.ID)
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.SetEffectiveness(ids[i%len(ids)], 1.0+float64(i%10)/10)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.PromptsFor(Morning)
				c.ByID(ids[i%len(ids)])
				c.All()
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		p, ok := c.ByID(id)
		if !ok {
			t.Fatalf("prompt %s lost", id)
		}
		if p.Effectiveness < 1.0 || p.Effectiveness > 1.9 {
			t.Errorf("prompt %s effectiveness = %.2f out of written range", id, p.Effectiveness)
		}
	}
}

func TestByIDMissing(t *testing.T) {
	c, _ := NewCatalog(nil)
	if _, ok := c.ByID("a"); ok {
		t.Error("expected miss for unknown id")
	}
}
