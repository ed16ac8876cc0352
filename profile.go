package attune

import (
	"math"
	"sort"
	"strings"
	"time"
)

// UserProfile is the learned preference state for one user. It is persisted
// as a JSON blob and mutated only through Learn.
type UserProfile struct {
	UserID              string                `json:"user_id"`
	PreferredStyle      Style                 `json:"preferred_style"`
	PreferredTone       Tone                  `json:"preferred_tone"`
	ResponseLength      ResponseLength        `json:"response_length"`
	PreferredCategories []Category            `json:"preferred_categories"`
	EmotionalKeywords   map[string]int        `json:"emotional_keywords"`
	ConversationDepth   Depth                 `json:"conversation_depth"`
	TimePreferences     map[TimeOfDay]float64 `json:"time_preferences"`
	MoodPatterns        map[int][]string      `json:"mood_patterns"`
	LastUpdated         time.Time             `json:"last_updated"`

	TotalReplies    int            `json:"total_replies"`
	AvgReplyLength  float64        `json:"avg_reply_length"`
	MostActiveTime  TimeOfDay      `json:"most_active_time"`
	AvgMood         float64        `json:"avg_mood"`
	EngagementTrend EmotionalTrend `json:"engagement_trend"`
}

// NewProfile returns a profile with the starting preferences every user gets
// before any learning happens.
func NewProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:              userID,
		PreferredStyle:      StyleGentle,
		PreferredTone:       ToneWarm,
		ResponseLength:      LengthMedium,
		PreferredCategories: []Category{CategoryOpenEnded, CategoryReflective},
		EmotionalKeywords:   map[string]int{},
		ConversationDepth:   DepthSurface,
		TimePreferences: map[TimeOfDay]float64{
			Morning: 0.25, Afternoon: 0.25, Evening: 0.25, Night: 0.25,
		},
		MoodPatterns:    map[int][]string{},
		MostActiveTime:  Morning,
		AvgMood:         5.0,
		EngagementTrend: TrendStable,
	}
}

const (
	maxEmotionalKeywords = 50
	maxMoodPatternWords  = 20
	maxPreferredCats     = 4
)

// Clone returns a deep copy. The persist worker serializes profiles off the
// session goroutine, so it must never share maps with the live profile.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.PreferredCategories = append([]Category(nil), p.PreferredCategories...)
	c.EmotionalKeywords = make(map[string]int, len(p.EmotionalKeywords))
	for k, v := range p.EmotionalKeywords {
		c.EmotionalKeywords[k] = v
	}
	c.TimePreferences = make(map[TimeOfDay]float64, len(p.TimePreferences))
	for k, v := range p.TimePreferences {
		c.TimePreferences[k] = v
	}
	c.MoodPatterns = make(map[int][]string, len(p.MoodPatterns))
	for k, v := range p.MoodPatterns {
		c.MoodPatterns[k] = append([]string(nil), v...)
	}
	return &c
}

// boundedMean folds sample x into a running mean over n samples. When the
// result is not finite or leaves [lo, hi] the latest sample wins, so one bad
// stored value can never poison the average forever.
func boundedMean(mean float64, n int, x, lo, hi float64) float64 {
	if n <= 0 {
		return x
	}
	next := (mean*float64(n-1) + x) / float64(n)
	if !math.IsNaN(next) && !math.IsInf(next, 0) && next >= lo && next <= hi {
		return next
	}
	return x
}

// Learn folds one reply into the profile. The steps run in a fixed order so
// replayed reply logs always produce identical profiles.
func (p *UserProfile) Learn(r Reply) {
	p.TotalReplies++
	p.LastUpdated = r.Timestamp

	p.learnReplyLength(r)
	p.learnEmotionalKeywords(r.Emotions)
	p.learnStyle(r)
	p.learnMoodPatterns(r)
	p.learnTimePreference(r)
	p.learnDepth(r)
	p.learnCategories(r)
	p.learnMetrics(r)
}

func (p *UserProfile) learnReplyLength(r Reply) {
	if r.Engagement == EngagementEngaged || r.Engagement == EngagementDeep {
		p.ResponseLength = r.Length()
	}
	p.AvgReplyLength = boundedMean(p.AvgReplyLength, p.TotalReplies, float64(r.WordCount()), 0, 10000)
}

func (p *UserProfile) learnEmotionalKeywords(emotions map[string]float64) {
	for e := range emotions {
		p.EmotionalKeywords[e]++
	}
	if len(p.EmotionalKeywords) <= maxEmotionalKeywords {
		return
	}
	type wc struct {
		word  string
		count int
	}
	all := make([]wc, 0, len(p.EmotionalKeywords))
	for w, c := range p.EmotionalKeywords {
		all = append(all, wc{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	kept := map[string]int{}
	for _, e := range all[:maxEmotionalKeywords] {
		kept[e.word] = e.count
	}
	p.EmotionalKeywords = kept
}

func (p *UserProfile) learnStyle(r Reply) {
	wc := r.WordCount()
	emo := len(r.Emotions)

	style := p.PreferredStyle
	switch r.Engagement {
	case EngagementDeep:
		if wc > 100 && emo > 3 {
			style = StyleSupportive
		} else if emo > 2 {
			style = StyleGentle
		}
	case EngagementEngaged:
		if emo > 1 {
			style = StyleCurious
		}
	case EngagementMinimal:
		style = StyleCasual
	}
	p.PreferredStyle = style
}

func (p *UserProfile) learnMoodPatterns(r Reply) {
	words := ExtractKeyWords(r.Text)
	p.MoodPatterns[r.Mood] = append(p.MoodPatterns[r.Mood], words...)
	for mood, moodWords := range p.MoodPatterns {
		if len(moodWords) > maxMoodPatternWords {
			p.MoodPatterns[mood] = moodWords[len(moodWords)-maxMoodPatternWords:]
		}
	}
}

func (p *UserProfile) learnTimePreference(r Reply) {
	slot := TimeOfDayAt(r.Timestamp)
	cur, ok := p.TimePreferences[slot]
	if !ok {
		cur = 0.25
	}

	var bonus float64
	switch r.Engagement {
	case EngagementDeep:
		bonus = 0.1
	case EngagementEngaged:
		bonus = 0.05
	case EngagementMinimal:
		bonus = -0.02
	}

	p.TimePreferences[slot] = math.Max(0.1, math.Min(1.0, cur+bonus))
	p.normalizeTimePreferences()

	best, bestVal := Morning, -1.0
	for _, t := range AllTimesOfDay {
		if v := p.TimePreferences[t]; v > bestVal {
			best, bestVal = t, v
		}
	}
	p.MostActiveTime = best
}

func (p *UserProfile) normalizeTimePreferences() {
	reset := func() {
		p.TimePreferences = map[TimeOfDay]float64{
			Morning: 0.25, Afternoon: 0.25, Evening: 0.25, Night: 0.25,
		}
	}

	var total float64
	for _, v := range p.TimePreferences {
		total += v
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		reset()
		return
	}

	for t, v := range p.TimePreferences {
		n := v / total
		if !math.IsNaN(n) && !math.IsInf(n, 0) && n >= 0 && n <= 1.0 {
			p.TimePreferences[t] = n
		} else {
			p.TimePreferences[t] = 0.25
		}
	}

	total = 0
	for _, v := range p.TimePreferences {
		total += v
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || math.Abs(total-1.0) > 0.1 {
		reset()
	}
}

// replyDepth infers how deep a single reply went.
func replyDepth(r Reply) Depth {
	wc := r.WordCount()
	emo := len(r.Emotions)
	switch {
	case wc > 100 && emo > 3:
		return DepthDeep
	case wc > 50 && emo > 1:
		return DepthModerate
	default:
		return DepthSurface
	}
}

func (p *UserProfile) learnDepth(r Reply) {
	cur, inferred := p.ConversationDepth, replyDepth(r)
	switch {
	case cur == DepthSurface && inferred == DepthModerate && r.Engagement == EngagementEngaged:
		p.ConversationDepth = DepthModerate
	case cur == DepthSurface && inferred == DepthDeep && r.Engagement == EngagementDeep:
		p.ConversationDepth = DepthModerate
	case cur == DepthModerate && inferred == DepthDeep && r.Engagement == EngagementDeep:
		p.ConversationDepth = DepthDeep
	case cur == DepthDeep && inferred == DepthSurface && r.Engagement == EngagementMinimal:
		p.ConversationDepth = DepthModerate
	case cur == DepthModerate && inferred == DepthSurface && r.Engagement == EngagementMinimal:
		p.ConversationDepth = DepthSurface
	}
}

func (p *UserProfile) learnCategories(r Reply) {
	has := func(c Category) bool {
		for _, pc := range p.PreferredCategories {
			if pc == c {
				return true
			}
		}
		return false
	}
	contains := func(words ...string) bool {
		for e := range r.Emotions {
			for _, w := range words {
				if e == w {
					return true
				}
			}
		}
		return false
	}

	if contains("grateful", "thankful", "blessed") && !has(CategoryGratitude) {
		p.PreferredCategories = append(p.PreferredCategories, CategoryGratitude)
	}
	if r.WordCount() > 100 && len(r.Emotions) > 2 && !has(CategoryReflective) {
		p.PreferredCategories = append(p.PreferredCategories, CategoryReflective)
	}
	if r.Mood <= 4 && contains("stressed", "anxious", "overwhelmed") && !has(CategoryCoping) {
		p.PreferredCategories = append(p.PreferredCategories, CategoryCoping)
	}

	// Oldest preferences survive the cap.
	if len(p.PreferredCategories) > maxPreferredCats {
		p.PreferredCategories = p.PreferredCategories[:maxPreferredCats]
	}
}

func (p *UserProfile) learnMetrics(r Reply) {
	p.AvgMood = boundedMean(p.AvgMood, p.TotalReplies, float64(r.Mood), 1.0, 10.0)

	switch r.Engagement {
	case EngagementMinimal:
		if p.EngagementTrend == TrendImproving {
			p.EngagementTrend = TrendStable
		} else if p.EngagementTrend == TrendStable {
			p.EngagementTrend = TrendDeclining
		}
	case EngagementEngaged:
		p.EngagementTrend = TrendStable
	case EngagementDeep:
		if p.EngagementTrend == TrendDeclining {
			p.EngagementTrend = TrendStable
		} else if p.EngagementTrend == TrendStable {
			p.EngagementTrend = TrendImproving
		}
	}
}

// CompatibilityScore rates how well a prompt fits this profile. The result
// is always in [1.0, 2.0].
func (p *UserProfile) CompatibilityScore(pr Prompt) float64 {
	score := 1.0
	if pr.Style == p.PreferredStyle {
		score += 0.3
	}
	if pr.Tone == p.PreferredTone {
		score += 0.2
	}
	for _, c := range p.PreferredCategories {
		if c == pr.Category {
			score += 0.2
			break
		}
	}
	affinity, ok := p.TimePreferences[pr.TimeOfDay]
	if !ok {
		affinity = 0.25
	}
	score += affinity * 0.3
	return math.Min(2.0, score)
}

// TopEmotionalWords returns the user's most frequent emotion words, highest
// count first, at most n entries. Ties break lexicographically.
func (p *UserProfile) TopEmotionalWords(n int) []string {
	type wc struct {
		word  string
		count int
	}
	all := make([]wc, 0, len(p.EmotionalKeywords))
	for w, c := range p.EmotionalKeywords {
		all = append(all, wc{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.word
	}
	return out
}

// PersonalityInsights summarizes the learned profile in plain language.
func (p *UserProfile) PersonalityInsights() []string {
	var insights []string
	if p.AvgReplyLength > 100 {
		insights = append(insights, "Enjoys detailed conversations")
	} else if p.AvgReplyLength < 30 && p.TotalReplies > 0 {
		insights = append(insights, "Prefers brief interactions")
	}
	if p.AvgMood > 7 {
		insights = append(insights, "Generally positive mood")
	} else if p.AvgMood < 4 {
		insights = append(insights, "Often experiences lower moods")
	}
	if p.ConversationDepth == DepthDeep {
		insights = append(insights, "Engages in deep self-reflection")
	} else if p.ConversationDepth == DepthSurface {
		insights = append(insights, "Prefers surface-level check-ins")
	}
	return insights
}

// LearningInsights is a point-in-time snapshot of what the learner has
// picked up about a user.
type LearningInsights struct {
	TotalReplies       int            `json:"total_replies"`
	AverageReplyLength float64        `json:"average_reply_length"`
	PreferredStyle     Style          `json:"preferred_style"`
	PreferredTone      Tone           `json:"preferred_tone"`
	ConversationDepth  Depth          `json:"conversation_depth"`
	TopEmotionalWords  []string       `json:"top_emotional_words"`
	MostActiveTime     TimeOfDay      `json:"most_active_time"`
	AverageMood        float64        `json:"average_mood"`
	EngagementTrend    EmotionalTrend `json:"engagement_trend"`
	Personality        []string       `json:"personality"`
}

// Progress is how far along learning is, treating 50 replies as fully
// learned.
func (in LearningInsights) Progress() float64 {
	return math.Min(1.0, float64(in.TotalReplies)/50.0)
}

// WellLearned reports whether the profile has seen enough replies to trust.
func (in LearningInsights) WellLearned() bool {
	return in.TotalReplies >= 10 && in.Progress() > 0.2
}

// LearningSnapshot captures the current learned state.
func (p *UserProfile) LearningSnapshot() LearningInsights {
	return LearningInsights{
		TotalReplies:       p.TotalReplies,
		AverageReplyLength: p.AvgReplyLength,
		PreferredStyle:     p.PreferredStyle,
		PreferredTone:      p.PreferredTone,
		ConversationDepth:  p.ConversationDepth,
		TopEmotionalWords:  p.TopEmotionalWords(10),
		MostActiveTime:     p.MostActiveTime,
		AverageMood:        p.AvgMood,
		EngagementTrend:    p.EngagementTrend,
		Personality:        p.PersonalityInsights(),
	}
}

// ShouldOfferDeepDivePrompt reports whether this user tends to go deep and
// is not currently disengaging.
func (p *UserProfile) ShouldOfferDeepDivePrompt() bool {
	return p.ConversationDepth == DepthDeep && p.EngagementTrend != TrendDeclining
}

var stopWords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "have": {}, "will": {}, "been": {},
	"from": {}, "they": {}, "know": {}, "want": {}, "good": {}, "much": {},
	"some": {}, "time": {}, "very": {}, "when": {}, "come": {}, "here": {},
	"just": {}, "like": {}, "long": {}, "make": {}, "many": {}, "over": {},
	"such": {}, "take": {}, "than": {}, "them": {}, "well": {}, "were": {},
	"what": {}, "your": {},
}

// ExtractKeyWords lowercases the text, strips punctuation, and returns the
// deduplicated words longer than three characters that are not stop words.
// Order follows first appearance.
func ExtractKeyWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)

	seen := map[string]struct{}{}
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// ScoreEngagement tiers a reply by word count, emotional richness, and the
// seconds spent composing it.
func ScoreEngagement(text string, emotionCount int, responseTime float64) EngagementLevel {
	wc := len(strings.Fields(text))

	var score float64
	if wc > 100 {
		score += 0.4
	} else if wc > 30 {
		score += 0.2
	}
	if emotionCount > 3 {
		score += 0.3
	} else if emotionCount > 1 {
		score += 0.15
	}
	if responseTime > 60 {
		score += 0.2
	} else if responseTime > 30 {
		score += 0.1
	}

	switch {
	case score >= 0.6:
		return EngagementDeep
	case score >= 0.3:
		return EngagementEngaged
	default:
		return EngagementMinimal
	}
}
