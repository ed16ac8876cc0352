package attune

import (
	"math"
	"sort"
)

// PromptEffectiveness scores how well a prompt worked based on the reply it
// drew out. Result is in [1.0, 2.0].
func PromptEffectiveness(r Reply) float64 {
	score := 1.0
	switch r.Engagement {
	case EngagementEngaged:
		score += 0.3
	case EngagementDeep:
		score += 0.5
	}
	if r.WordCount() > 50 {
		score += 0.2
	}
	if len(r.Emotions) > 2 {
		score += 0.2
	}
	if r.ResponseTime > 30 {
		score += 0.1
	}
	return math.Min(2.0, score)
}

// EmotionalInsights aggregates a user's reply history into a report.
type EmotionalInsights struct {
	TopEmotions          []string        `json:"top_emotions"`
	AverageMood          float64         `json:"average_mood"`
	MoodDistribution     map[int]int     `json:"mood_distribution"`
	MostCommonEngagement EngagementLevel `json:"most_common_engagement"`
	TotalReplies         int             `json:"total_replies"`
	TimeRangeDays        int             `json:"time_range_days"`
}

// MoodTrendLabel buckets an average mood into a display label.
func (in EmotionalInsights) MoodTrendLabel() string {
	switch {
	case in.AverageMood < 4:
		return "Generally Low"
	case in.AverageMood < 6:
		return "Balanced"
	case in.AverageMood < 8:
		return "Generally Positive"
	default:
		return "Very Positive"
	}
}

// EngagementTrendLabel names the dominant engagement level.
func (in EmotionalInsights) EngagementTrendLabel() string {
	switch in.MostCommonEngagement {
	case EngagementDeep:
		return "Deep Exploration"
	case EngagementEngaged:
		return "Thoughtful Reflection"
	default:
		return "Brief Check-ins"
	}
}

// ComputeInsights folds a set of replies into an aggregate report.
func ComputeInsights(replies []Reply, timeRangeDays int) EmotionalInsights {
	in := EmotionalInsights{
		AverageMood:          5.0,
		MoodDistribution:     map[int]int{},
		MostCommonEngagement: EngagementMinimal,
		TotalReplies:         len(replies),
		TimeRangeDays:        timeRangeDays,
	}
	if len(replies) == 0 {
		return in
	}

	emotionFreq := map[string]int{}
	engagementFreq := map[EngagementLevel]int{}
	var moodSum int
	for _, r := range replies {
		for e := range r.Emotions {
			emotionFreq[e]++
		}
		in.MoodDistribution[r.Mood]++
		engagementFreq[r.Engagement]++
		moodSum += r.Mood
	}
	in.AverageMood = float64(moodSum) / float64(len(replies))

	type wc struct {
		word  string
		count int
	}
	all := make([]wc, 0, len(emotionFreq))
	for w, c := range emotionFreq {
		all = append(all, wc{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	if len(all) > 10 {
		all = all[:10]
	}
	for _, e := range all {
		in.TopEmotions = append(in.TopEmotions, e.word)
	}

	best := EngagementMinimal
	bestCount := -1
	for _, lvl := range []EngagementLevel{EngagementMinimal, EngagementEngaged, EngagementDeep} {
		if c := engagementFreq[lvl]; c > bestCount {
			best, bestCount = lvl, c
		}
	}
	in.MostCommonEngagement = best
	return in
}

// ConversationStats summarizes check-in habits over recent replies.
type ConversationStats struct {
	TotalConversations    int     `json:"total_conversations"`
	AverageResponseLength float64 `json:"average_response_length"`
	AverageEngagement     float64 `json:"average_engagement"`
	StreakDays            int     `json:"streak_days"`
}

// ComputeStats derives habit stats from replies; the streak is supplied by
// the store since it needs the full day index.
func ComputeStats(replies []Reply, streakDays int) ConversationStats {
	st := ConversationStats{StreakDays: streakDays}
	if len(replies) == 0 {
		return st
	}

	days := map[string]struct{}{}
	var wordSum int
	var engSum float64
	for _, r := range replies {
		days[r.DayID] = struct{}{}
		wordSum += r.WordCount()
		switch r.Engagement {
		case EngagementDeep:
			engSum += 3
		case EngagementEngaged:
			engSum += 2
		default:
			engSum += 1
		}
	}
	st.TotalConversations = len(days)
	st.AverageResponseLength = float64(wordSum) / float64(len(replies))
	st.AverageEngagement = engSum / float64(len(replies))
	return st
}
