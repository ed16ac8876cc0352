package attune

import (
	"testing"
)

func TestExtractEmotionsNoLexiconWords(t *testing.T) {
	found := ExtractEmotions("We walked to the shop before lunch")
	if len(found) != 0 {
		t.Errorf("expected no emotions, got %v", found)
	}
	if state := ClassifyState(found); state != StateNeutral {
		t.Errorf("expected neutral, got %s", state)
	}
}

func TestExtractEmotionsFindsWords(t *testing.T) {
	found := ExtractEmotions("I feel anxious and overwhelmed")
	if len(found) != 2 {
		t.Fatalf("expected 2 emotions, got %v", found)
	}
	if found["anxious"] != 0.9 {
		t.Errorf("anxious intensity = %.2f, want 0.9", found["anxious"])
	}
	if found["overwhelmed"] != 1.0 {
		t.Errorf("overwhelmed intensity = %.2f, want 1.0", found["overwhelmed"])
	}
}

func TestExtractEmotionsCaseInsensitive(t *testing.T) {
	found := ExtractEmotions("SO HAPPY about this")
	if found["happy"] != 0.8 {
		t.Errorf("expected happy 0.8, got %v", found)
	}
}

func TestClassifyStateHighlyNegative(t *testing.T) {
	// neg sum 1.7, pos 0, mean 0.85 >= 0.8
	state := ClassifyState(map[string]float64{"anxious": 0.9, "worried": 0.8})
	if state != StateHighlyNegative {
		t.Errorf("expected highly_negative, got %s", state)
	}
}

func TestClassifyStateNegative(t *testing.T) {
	// mean 0.7 < 0.8
	state := ClassifyState(map[string]float64{"sad": 0.8, "tired": 0.6})
	if state != StateNegative {
		t.Errorf("expected negative, got %s", state)
	}
}

func TestClassifyStateHighlyPositive(t *testing.T) {
	state := ClassifyState(map[string]float64{"happy": 0.8, "grateful": 0.8})
	if state != StateHighlyPositive {
		t.Errorf("expected highly_positive, got %s", state)
	}
}

func TestClassifyStatePositive(t *testing.T) {
	state := ClassifyState(map[string]float64{"content": 0.6})
	if state != StatePositive {
		t.Errorf("expected positive, got %s", state)
	}
}

func TestClassifyStateMixed(t *testing.T) {
	// neither side exceeds 1.5x the other
	state := ClassifyState(map[string]float64{"happy": 0.8, "sad": 0.8})
	if state != StateMixed {
		t.Errorf("expected mixed, got %s", state)
	}
}

func TestTrendImproving(t *testing.T) {
	previous := map[string]float64{"sad": 0.5}
	current := map[string]float64{"happy": 0.9}
	if tr := Trend(current, previous); tr != TrendImproving {
		t.Errorf("expected improving, got %s", tr)
	}
}

func TestTrendDeclining(t *testing.T) {
	previous := map[string]float64{"happy": 0.8}
	current := map[string]float64{"sad": 0.8}
	if tr := Trend(current, previous); tr != TrendDeclining {
		t.Errorf("expected declining, got %s", tr)
	}
}

func TestTrendStable(t *testing.T) {
	signal := map[string]float64{"content": 0.6}
	if tr := Trend(signal, signal); tr != TrendStable {
		t.Errorf("expected stable, got %s", tr)
	}
}

func TestDominantEmotion(t *testing.T) {
	word, intensity, ok := DominantEmotion(map[string]float64{"sad": 0.8, "tired": 0.6})
	if !ok || word != "sad" || intensity != 0.8 {
		t.Errorf("got (%s, %.2f, %v), want (sad, 0.80, true)", word, intensity, ok)
	}
}

func TestDominantEmotionTieBreaksLexicographically(t *testing.T) {
	word, _, _ := DominantEmotion(map[string]float64{"happy": 0.8, "angry": 0.8})
	if word != "angry" {
		t.Errorf("expected angry on tie, got %s", word)
	}
}

func TestDominantEmotionEmpty(t *testing.T) {
	if _, _, ok := DominantEmotion(nil); ok {
		t.Error("expected no dominant emotion for empty signal")
	}
}

func TestFamilyValenceCoversAllFamilies(t *testing.T) {
	for word, entry := range emotionLexicon {
		if _, ok := familyValence[entry.Family]; !ok {
			t.Errorf("word %q has family %q with no valence", word, entry.Family)
		}
	}
}
