package attune

import (
	"math"
	"strings"
	"testing"
)

func TestPromptEffectivenessCapped(t *testing.T) {
	r := Reply{
		Text:         strings.Repeat("word ", 60),
		Engagement:   EngagementDeep,
		Emotions:     map[string]float64{"a": 1, "b": 1, "c": 1},
		ResponseTime: 45,
	}
	// 1.0 + 0.5 deep + 0.2 length + 0.2 emotions + 0.1 latency, capped at 2.0
	if got := PromptEffectiveness(r); got != 2.0 {
		t.Errorf("score = %.2f, want 2.0", got)
	}
}

func TestPromptEffectivenessMinimal(t *testing.T) {
	r := Reply{Text: "ok", Engagement: EngagementMinimal}
	if got := PromptEffectiveness(r); got != 1.0 {
		t.Errorf("score = %.2f, want 1.0", got)
	}
}

func TestComputeInsightsEmpty(t *testing.T) {
	in := ComputeInsights(nil, 30)
	if in.AverageMood != 5.0 || in.TotalReplies != 0 {
		t.Errorf("unexpected empty insights: %+v", in)
	}
	if in.MostCommonEngagement != EngagementMinimal {
		t.Errorf("expected minimal engagement default, got %s", in.MostCommonEngagement)
	}
}

func TestComputeInsightsAggregates(t *testing.T) {
	replies := []Reply{
		{Mood: 4, Engagement: EngagementEngaged, Emotions: map[string]float64{"anxious": 0.9, "tired": 0.6}},
		{Mood: 6, Engagement: EngagementEngaged, Emotions: map[string]float64{"anxious": 0.9}},
		{Mood: 8, Engagement: EngagementMinimal, Emotions: map[string]float64{"happy": 0.8}},
	}
	in := ComputeInsights(replies, 7)

	if math.Abs(in.AverageMood-6.0) > 1e-9 {
		t.Errorf("avg mood = %.2f, want 6.0", in.AverageMood)
	}
	if len(in.TopEmotions) == 0 || in.TopEmotions[0] != "anxious" {
		t.Errorf("top emotions = %v", in.TopEmotions)
	}
	if in.MostCommonEngagement != EngagementEngaged {
		t.Errorf("engagement = %s, want engaged", in.MostCommonEngagement)
	}
	if in.MoodDistribution[4] != 1 || in.MoodDistribution[6] != 1 || in.MoodDistribution[8] != 1 {
		t.Errorf("mood distribution = %v", in.MoodDistribution)
	}
}

func TestMoodTrendLabels(t *testing.T) {
	cases := map[float64]string{
		3.0: "Generally Low",
		5.0: "Balanced",
		7.0: "Generally Positive",
		9.0: "Very Positive",
	}
	for mood, want := range cases {
		in := EmotionalInsights{AverageMood: mood}
		if got := in.MoodTrendLabel(); got != want {
			t.Errorf("mood %.1f label = %q, want %q", mood, got, want)
		}
	}
}

func TestComputeStats(t *testing.T) {
	replies := []Reply{
		{DayID: "2026-08-30", Text: "one two three four", Engagement: EngagementDeep},
		{DayID: "2026-08-31", Text: "one two", Engagement: EngagementMinimal},
	}
	st := ComputeStats(replies, 2)

	if st.TotalConversations != 2 {
		t.Errorf("conversations = %d, want 2", st.TotalConversations)
	}
	if st.AverageResponseLength != 3.0 {
		t.Errorf("avg length = %.1f, want 3.0", st.AverageResponseLength)
	}
	// deep=3, minimal=1, mean 2.0
	if st.AverageEngagement != 2.0 {
		t.Errorf("avg engagement = %.1f, want 2.0", st.AverageEngagement)
	}
	if st.StreakDays != 2 {
		t.Errorf("streak = %d, want 2", st.StreakDays)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil, 0)
	if st.TotalConversations != 0 || st.AverageResponseLength != 0 {
		t.Errorf("unexpected empty stats: %+v", st)
	}
}
