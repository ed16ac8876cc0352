package attune

import (
	"math/rand"
	"strings"
	"testing"
)

func containsString(pool []string, s string) bool {
	for _, p := range pool {
		if p == s {
			return true
		}
	}
	return false
}

func TestEmpatheticResponseHighTier(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got, ok := EmpatheticResponse(map[string]float64{"anxious": 0.9}, rng)
	if !ok {
		t.Fatal("expected a response for anxiety")
	}
	if !containsString(empatheticResponses[FamilyAnxiety].high, got) {
		t.Errorf("intensity 0.9 should draw from the high tier, got %q", got)
	}
}

func TestEmpatheticResponseModerateTier(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got, ok := EmpatheticResponse(map[string]float64{"tired": 0.6}, rng)
	if !ok {
		t.Fatal("expected a response for exhaustion")
	}
	if !containsString(empatheticResponses[FamilyExhaustion].moderate, got) {
		t.Errorf("intensity 0.6 should draw from the moderate tier, got %q", got)
	}
}

func TestEmpatheticResponseUnknownFamily(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, ok := EmpatheticResponse(map[string]float64{"confused": 0.7}, rng); ok {
		t.Error("confusion has no response pool")
	}
}

func TestEmpatheticResponseEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, ok := EmpatheticResponse(nil, rng); ok {
		t.Error("expected no response for empty signal")
	}
}

func TestTrendFollowUp(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got, ok := TrendFollowUp(TrendImproving, rng); !ok || !containsString(improvingFollowUps, got) {
		t.Errorf("improving follow-up = (%q, %v)", got, ok)
	}
	if _, ok := TrendFollowUp(TrendStable, rng); ok {
		t.Error("stable trend should produce no follow-up")
	}
}

func TestStateFollowUp(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got, ok := StateFollowUp(StateMixed, rng); !ok || !containsString(mixedFollowUps, got) {
		t.Errorf("mixed follow-up = (%q, %v)", got, ok)
	}
	if _, ok := StateFollowUp(StateNeutral, rng); ok {
		t.Error("neutral state should produce no follow-up")
	}
}

func TestKeywordFollowUpsStressFirst(t *testing.T) {
	out := keywordFollowUps("really stressed about everything", 5)
	if len(out) < 5 {
		t.Fatalf("expected at least the stress pool, got %d", len(out))
	}
	if !strings.Contains(out[0], "carrying a lot") {
		t.Errorf("stress section should come first, got %q", out[0])
	}
}

func TestKeywordFollowUpsLowMoodWithoutKeyword(t *testing.T) {
	out := keywordFollowUps("nothing in particular", 2)
	if len(out) == 0 {
		t.Fatal("mood <= 3 alone should produce the low-mood pool")
	}
	if !strings.Contains(out[0], "sitting heavy") {
		t.Errorf("expected low-mood section first, got %q", out[0])
	}
}

func TestKeywordFollowUpsDeterministic(t *testing.T) {
	a := keywordFollowUps("work has been stressful and i am worried", 4)
	b := keywordFollowUps("work has been stressful and i am worried", 4)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("candidate %d differs", i)
		}
	}
}

func TestClosingMessageLowMood(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := ClosingMessage("it was all a bit heavy", 2, 6, rng)
	if !containsString(lowMoodClosings, got) {
		t.Errorf("mood 2 should close from the low-mood pool, got %q", got)
	}
}

func TestClosingMessageHighMood(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := ClosingMessage("a really lovely day", 9, 5, rng)
	if !containsString(highMoodClosings, got) {
		t.Errorf("mood 9 should close from the high-mood pool, got %q", got)
	}
}

func TestClosingMessageWorkTopic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := ClosingMessage("mostly talked about work and my job", 5, 8, rng)
	if !containsString(workClosings, got) {
		t.Errorf("work topic should close from the work pool, got %q", got)
	}
}

func TestClosingMessageGeneric(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := ClosingMessage("a quiet ordinary day", 5, 4, rng)
	if !containsString(generalClosings, got) {
		t.Errorf("expected generic closing, got %q", got)
	}
}

func TestMoodRequestMessage(t *testing.T) {
	if !strings.Contains(MoodRequestMessage(), "1 to 10") {
		t.Errorf("mood request should name the scale: %q", MoodRequestMessage())
	}
}
