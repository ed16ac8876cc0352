package attune

import (
	"fmt"
	"testing"
	"time"
)

func recordMoods(m *ConversationMemory, moods ...int) {
	at := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	for _, mood := range moods {
		m.RecordExchange("just checking in", nil, mood, at)
		at = at.Add(time.Minute)
	}
}

func TestRecordExchangeExtractsTopics(t *testing.T) {
	m := NewConversationMemory()
	m.RecordExchange("work has been stressful lately", nil, 4, time.Now())
	if !m.HasDiscussed("work") {
		t.Error("expected work topic to be recorded")
	}
	if !m.HasDiscussed("stress") {
		t.Error("expected stress topic from substring match")
	}
	if m.HasDiscussed("travel") {
		t.Error("travel was never mentioned")
	}
}

func TestQuestionHistoryKeepsNewest20(t *testing.T) {
	m := NewConversationMemory()
	for i := 0; i < 25; i++ {
		m.RecordQuestion(fmt.Sprintf("question number %d", i))
	}
	if len(m.questionHistory) != 20 {
		t.Fatalf("expected 20 questions, got %d", len(m.questionHistory))
	}
	if m.questionHistory[0] != "question number 5" {
		t.Errorf("oldest entries should be dropped, got %q first", m.questionHistory[0])
	}
}

func TestHasAskedSimilarQuestion(t *testing.T) {
	m := NewConversationMemory()
	m.RecordQuestion("What made you smile today?")
	if !m.HasAskedSimilarQuestion("What made you smile today?") {
		t.Error("identical question should match")
	}
	if m.HasAskedSimilarQuestion("Describe tomorrow's biggest challenge") {
		t.Error("unrelated question should not match")
	}
}

func TestPatternImproving(t *testing.T) {
	m := NewConversationMemory()
	recordMoods(m, 3, 4, 5, 6)
	if p := m.Pattern(); p != PatternImproving {
		t.Errorf("expected improving, got %s", p)
	}
}

func TestPatternDeclining(t *testing.T) {
	m := NewConversationMemory()
	recordMoods(m, 7, 6, 5, 4)
	if p := m.Pattern(); p != PatternDeclining {
		t.Errorf("expected declining, got %s", p)
	}
}

func TestPatternVolatile(t *testing.T) {
	m := NewConversationMemory()
	recordMoods(m, 2, 8, 2, 8, 2)
	if p := m.Pattern(); p != PatternVolatile {
		t.Errorf("expected volatile, got %s", p)
	}
}

func TestPatternStable(t *testing.T) {
	m := NewConversationMemory()
	recordMoods(m, 5, 5, 5)
	if p := m.Pattern(); p != PatternStable {
		t.Errorf("expected stable, got %s", p)
	}
}

func TestPatternUsesLastFiveMoods(t *testing.T) {
	m := NewConversationMemory()
	// Early volatility falls outside the 5-mood window
	recordMoods(m, 1, 9, 1, 5, 5, 5, 5, 5)
	if p := m.Pattern(); p != PatternStable {
		t.Errorf("expected stable from the recent window, got %s", p)
	}
}

func TestDominantEmotions(t *testing.T) {
	m := NewConversationMemory()
	at := time.Now()
	m.RecordExchange("a", map[string]float64{"anxious": 0.9, "tired": 0.6}, 4, at)
	m.RecordExchange("b", map[string]float64{"anxious": 0.9}, 4, at)
	m.RecordExchange("c", map[string]float64{"anxious": 0.9, "sad": 0.8}, 4, at)

	got := m.DominantEmotions()
	if len(got) != 3 || got[0] != "anxious" {
		t.Errorf("expected anxious first, got %v", got)
	}
	// sad and tired tie at 1, lexicographic order
	if got[1] != "sad" || got[2] != "tired" {
		t.Errorf("tie should break lexicographically, got %v", got)
	}
}

func TestContextualPromptFromPattern(t *testing.T) {
	m := NewConversationMemory()
	recordMoods(m, 3, 4, 5, 6)
	want := "I can sense something shifting positively for you. What's creating that change?"
	if got := m.ContextualPrompt(); got != want {
		t.Errorf("got %q", got)
	}
}

func TestContextualPromptFromDominantEmotion(t *testing.T) {
	m := NewConversationMemory()
	at := time.Now()
	m.RecordExchange("a", map[string]float64{"anxious": 0.9}, 5, at)
	m.RecordExchange("b", map[string]float64{"anxious": 0.9}, 5, at)

	got := m.ContextualPrompt()
	if got != emotionSpecificPrompts["anxious"] {
		t.Errorf("expected anxiety prompt, got %q", got)
	}
}

func TestContextualPromptEmptyMemory(t *testing.T) {
	m := NewConversationMemory()
	if got := m.ContextualPrompt(); got != "" {
		t.Errorf("expected empty prompt, got %q", got)
	}
}

func TestShouldOfferDeepDive(t *testing.T) {
	m := NewConversationMemory()
	at := time.Now()
	m.RecordExchange("work is a lot right now", map[string]float64{"stressed": 0.9}, 4, at)
	m.RecordExchange("more work piling on", nil, 4, at)
	m.RecordExchange("the work deadline moved again", nil, 4, at)
	if !m.ShouldOfferDeepDive() {
		t.Error("three on-topic emotional exchanges should offer a deep dive")
	}
}

func TestShouldOfferDeepDiveNeedsSharedTopic(t *testing.T) {
	m := NewConversationMemory()
	at := time.Now()
	m.RecordExchange("work is a lot right now", map[string]float64{"stressed": 0.9}, 4, at)
	m.RecordExchange("my garden is blooming", nil, 6, at)
	m.RecordExchange("dinner was nice", nil, 6, at)
	if m.ShouldOfferDeepDive() {
		t.Error("scattered topics should not offer a deep dive")
	}
}

func TestClearResetsEverything(t *testing.T) {
	m := NewConversationMemory()
	m.RecordExchange("work stuff", map[string]float64{"tired": 0.6}, 5, time.Now())
	m.RecordQuestion("How was work?")
	m.Clear()
	if len(m.Exchanges()) != 0 || len(m.DiscussedTopics()) != 0 || len(m.questionHistory) != 0 {
		t.Error("clear should drop all session state")
	}
}

func TestInsightsSummary(t *testing.T) {
	m := NewConversationMemory()
	at := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	m.RecordExchange("pretty good day at work", map[string]float64{"content": 0.6}, 6, at)
	m.RecordExchange("looking forward to the evening", nil, 8, at.Add(2*time.Minute))

	in := m.Insights()
	if in.TotalExchanges != 2 {
		t.Errorf("exchanges = %d, want 2", in.TotalExchanges)
	}
	if in.AverageMood != 7.0 {
		t.Errorf("avg mood = %.1f, want 7.0", in.AverageMood)
	}
	if in.Duration != 2*time.Minute {
		t.Errorf("duration = %v, want 2m", in.Duration)
	}
}
