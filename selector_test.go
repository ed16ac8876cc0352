package attune

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func testContext() SelectionContext {
	return SelectionContext{Flow: FlowInitial, Mood: 5}
}

func TestSelectBestDeterministic(t *testing.T) {
	s := NewSelector(NewProfile("u1"))
	candidates := DefaultCatalog().PromptsFor(Morning)

	first, ok1 := s.SelectBest(candidates, testContext())
	second, ok2 := s.SelectBest(candidates, testContext())
	if !ok1 || !ok2 {
		t.Fatal("selection should succeed")
	}
	if first.ID != second.ID {
		t.Errorf("unchanged context must select the same prompt: %s vs %s", first.ID, second.ID)
	}
}

func TestSelectBestEmpty(t *testing.T) {
	s := NewSelector(NewProfile("u1"))
	if _, ok := s.SelectBest(nil, testContext()); ok {
		t.Error("empty candidate list should select nothing")
	}
}

func TestVarietyDampingLowersScore(t *testing.T) {
	s := NewSelector(NewProfile("u1"))
	candidates := DefaultCatalog().PromptsFor(Morning)

	plain := s.Rank(candidates, testContext())
	top := plain[0].Prompt

	ctx := testContext()
	ctx.RecentCategories = map[Category]bool{top.Category: true}
	ctx.RecentStyles = map[Style]bool{top.Style: true}
	damped := s.Rank(candidates, ctx)

	var before, after float64
	for _, sp := range plain {
		if sp.Prompt.ID == top.ID {
			before = sp.Score
		}
	}
	for _, sp := range damped {
		if sp.Prompt.ID == top.ID {
			after = sp.Score
		}
	}
	// x (1-0.3)(1-0.15)
	want := before * 0.7 * 0.85
	if math.Abs(after-want) > 0.001 {
		t.Errorf("damped score = %.3f, want %.3f", after, want)
	}
}

func TestScoreExactStyleBeatsAdjacent(t *testing.T) {
	s := NewSelector(NewProfile("u1")) // prefers gentle/warm
	base := Prompt{ID: "a", Category: CategorySpecific, TimeOfDay: Morning, Tone: ToneNeutral, Effectiveness: 1.0}

	exact := base
	exact.Style = StyleGentle
	adjacent := base
	adjacent.Style = StyleSupportive

	if s.Score(exact, testContext()) <= s.Score(adjacent, testContext()) {
		t.Error("exact style match should outscore adjacent style")
	}
}

func TestMoodScoreFavorsCopingWhenLow(t *testing.T) {
	s := NewSelector(NewProfile("u1"))
	coping := Prompt{ID: "a", Category: CategoryCoping, Style: StyleGentle, Tone: ToneEmpathetic, TimeOfDay: Evening, Effectiveness: 1.0}
	future := coping
	future.ID = "b"
	future.Category = CategoryFuture
	future.Tone = ToneNeutral

	ctx := testContext()
	ctx.Mood = 2
	if s.Score(coping, ctx) <= s.Score(future, ctx) {
		t.Error("low mood should favor coping/empathetic prompts")
	}
}

func TestContextScoreTriggerOverlap(t *testing.T) {
	s := NewSelector(NewProfile("u1"))
	p := Prompt{ID: "a", Category: CategorySpecific, Style: StyleDirect, Tone: ToneNeutral, TimeOfDay: Morning, Effectiveness: 1.0, FollowUpTriggers: []string{"anxious"}}

	plain := testContext()
	withEmotion := testContext()
	withEmotion.DetectedEmotions = []string{"anxious"}

	diff := s.Score(p, withEmotion) - s.Score(p, plain)
	// 0.2 trigger bonus scaled by the 0.2 context weight
	if math.Abs(diff-0.04) > 0.001 {
		t.Errorf("trigger overlap bonus = %.3f, want 0.04", diff)
	}
}

func TestEffectivenessShiftsScore(t *testing.T) {
	s := NewSelector(NewProfile("u1"))
	p := Prompt{ID: "a", Category: CategorySpecific, Style: StyleDirect, Tone: ToneNeutral, TimeOfDay: Morning, Effectiveness: 1.0}
	better := p
	better.Effectiveness = 2.0

	diff := s.Score(better, testContext()) - s.Score(p, testContext())
	if math.Abs(diff-0.1) > 0.001 {
		t.Errorf("effectiveness delta = %.3f, want 0.1", diff)
	}
}

func TestFollowUpQuestionTrigger(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := Prompt{
		ID:               "a",
		FollowUpTriggers: []string{"work"},
		FollowUps:        []string{"What part of work is hardest?"},
	}
	q, ok := FollowUpQuestion(p, "Work has been a lot", rng)
	if !ok || q != p.FollowUps[0] {
		t.Errorf("expected follow-up, got (%q, %v)", q, ok)
	}
	if _, ok := FollowUpQuestion(p, "the garden is lovely", rng); ok {
		t.Error("no trigger word should mean no follow-up")
	}
}

func TestFollowUpQuestionNoPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := Prompt{ID: "a", FollowUpTriggers: []string{"work"}}
	if _, ok := FollowUpQuestion(p, "work work work", rng); ok {
		t.Error("empty follow-up pool should return false")
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("how are you", "how are you"); got != 1.0 {
		t.Errorf("identical texts = %.2f, want 1.0", got)
	}
	if got := Similarity("how are you", "completely different words"); got != 0 {
		t.Errorf("disjoint texts = %.2f, want 0", got)
	}
}

func TestChooseUniqueFiltersSimilar(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	variants := []string{"how was your morning today", "tell me about something new"}
	recent := []string{"how was your morning today"}
	for i := 0; i < 10; i++ {
		if got := chooseUnique(variants, recent, rng); got != variants[1] {
			t.Fatalf("similar variant should be filtered, got %q", got)
		}
	}
}

func TestChooseUniqueFallsBackWhenAllSimilar(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	variants := []string{"how was your morning today"}
	if got := chooseUnique(variants, variants, rng); got != variants[0] {
		t.Errorf("expected fallback to full pool, got %q", got)
	}
}

func TestSelectBestPromptsCount(t *testing.T) {
	s := NewSelector(NewProfile("u1"))
	got := s.SelectBestPrompts(DefaultCatalog().PromptsFor(Morning), testContext(), 3)
	if len(got) != 3 {
		t.Errorf("expected 3 prompts, got %d", len(got))
	}
}

func TestRecommendationsExplainFit(t *testing.T) {
	s := NewSelector(NewProfile("u1")) // prefers gentle/warm
	p := Prompt{ID: "a", Question: "q", Category: CategoryOpenEnded, Style: StyleGentle, Tone: ToneWarm, TimeOfDay: Morning, Effectiveness: 1.0}

	recs := s.Recommendations([]Prompt{p}, testContext(), 1)
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	r := recs[0]
	if !strings.Contains(r.Reason, "gentle") || !strings.Contains(r.Reason, "warm") {
		t.Errorf("reason should name style and tone: %q", r.Reason)
	}
	if r.Compatibility < 1.0 || r.Compatibility > 2.0 {
		t.Errorf("compatibility %.3f out of [1,2]", r.Compatibility)
	}
}
