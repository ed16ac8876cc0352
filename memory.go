package attune

import (
	"math"
	"sort"
	"strings"
	"time"
)

// topicKeywords is the fixed topic vocabulary scanned via lowercase substring
// matching.
var topicKeywords = []string{
	"work", "job", "career", "boss", "colleague", "meeting", "project",
	"family", "parent", "child", "sibling", "spouse", "partner", "relationship",
	"friend", "friendship", "social", "people", "person",
	"health", "doctor", "medical", "therapy", "medication", "exercise",
	"money", "financial", "budget", "debt", "savings", "bills",
	"school", "education", "study", "exam", "grade", "teacher",
	"home", "house", "apartment", "living", "roommate", "neighbor",
	"hobby", "interest", "passion", "creative", "art", "music", "book",
	"travel", "vacation", "trip", "adventure", "explore",
	"future", "goal", "dream", "plan", "hope", "aspiration",
	"past", "memory", "childhood", "history", "experience",
	"stress", "anxiety", "depression", "worry", "fear", "panic",
	"happiness", "joy", "excitement", "celebration", "success", "achievement",
}

const maxQuestionHistory = 20

// Exchange is one recorded user turn in session memory.
type Exchange struct {
	UserMessage string
	Emotions    map[string]float64
	Mood        int
	Timestamp   time.Time
}

// ConversationMemory is session-scoped short-term state: exchanges, detected
// topics, and the questions the agent has already asked. It is discarded at
// session end; nothing here is persisted.
type ConversationMemory struct {
	exchanges       []Exchange
	topics          map[string]struct{}
	questionHistory []string
}

// NewConversationMemory returns empty session memory.
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{topics: map[string]struct{}{}}
}

// Clear drops all recorded session state.
func (m *ConversationMemory) Clear() {
	m.exchanges = nil
	m.topics = map[string]struct{}{}
	m.questionHistory = nil
}

// RecordExchange appends a user turn and folds its topics into the topic set.
func (m *ConversationMemory) RecordExchange(message string, emotions map[string]float64, mood int, at time.Time) {
	m.exchanges = append(m.exchanges, Exchange{
		UserMessage: message,
		Emotions:    emotions,
		Mood:        mood,
		Timestamp:   at,
	})
	for _, kw := range extractTopics(message) {
		m.topics[kw] = struct{}{}
	}
}

func extractTopics(message string) []string {
	lower := strings.ToLower(message)
	var out []string
	for _, kw := range topicKeywords {
		if strings.Contains(lower, kw) {
			out = append(out, kw)
		}
	}
	return out
}

// RecordQuestion remembers an agent question, keeping only the most recent
// entries.
func (m *ConversationMemory) RecordQuestion(question string) {
	m.questionHistory = append(m.questionHistory, question)
	if len(m.questionHistory) > maxQuestionHistory {
		m.questionHistory = m.questionHistory[len(m.questionHistory)-maxQuestionHistory:]
	}
}

// HasDiscussed reports whether the topic appeared in the detected topic set
// or anywhere in a recorded user message.
func (m *ConversationMemory) HasDiscussed(topic string) bool {
	lower := strings.ToLower(topic)
	for t := range m.topics {
		if strings.Contains(t, lower) {
			return true
		}
	}
	for _, ex := range m.exchanges {
		if strings.Contains(strings.ToLower(ex.UserMessage), lower) {
			return true
		}
	}
	return false
}

// DiscussedTopics returns the detected topics in sorted order.
func (m *ConversationMemory) DiscussedTopics() []string {
	out := make([]string, 0, len(m.topics))
	for t := range m.topics {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasAskedSimilarQuestion reports whether a candidate question overlaps a
// recorded one by at least min(3, half the candidate's words).
func (m *ConversationMemory) HasAskedSimilarQuestion(question string) bool {
	qWords := wordSet(question)
	threshold := len(qWords) / 2
	if threshold > 3 {
		threshold = 3
	}
	for _, prev := range m.questionHistory {
		prevWords := wordSet(prev)
		overlap := 0
		for w := range qWords {
			if _, ok := prevWords[w]; ok {
				overlap++
			}
		}
		if overlap >= threshold {
			return true
		}
	}
	return false
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

// Pattern classifies the last five recorded moods. Improving needs more
// up-steps than down-steps and a net rise above one point; declining is the
// mirror; otherwise volatile when the mean absolute step exceeds two.
func (m *ConversationMemory) Pattern() EmotionalPattern {
	if len(m.exchanges) == 0 {
		return PatternStable
	}
	recent := m.exchanges
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	if len(recent) < 2 {
		return PatternStable
	}

	moods := make([]int, len(recent))
	for i, ex := range recent {
		moods[i] = ex.Mood
	}
	net := moods[len(moods)-1] - moods[0]

	var up, down int
	for i := 1; i < len(moods); i++ {
		if moods[i] > moods[i-1] {
			up++
		} else if moods[i] < moods[i-1] {
			down++
		}
	}

	switch {
	case up > down && net > 1:
		return PatternImproving
	case down > up && net < -1:
		return PatternDeclining
	case volatileMoods(moods):
		return PatternVolatile
	default:
		return PatternStable
	}
}

func volatileMoods(moods []int) bool {
	if len(moods) < 3 {
		return false
	}
	var total float64
	for i := 1; i < len(moods); i++ {
		total += math.Abs(float64(moods[i] - moods[i-1]))
	}
	return total/float64(len(moods)-1) > 2.0
}

// DominantEmotions returns the up-to-five emotion words that appeared in the
// most exchanges, most frequent first, ties broken lexicographically.
func (m *ConversationMemory) DominantEmotions() []string {
	if len(m.exchanges) == 0 {
		return nil
	}
	counts := map[string]int{}
	for _, ex := range m.exchanges {
		for e := range ex.Emotions {
			counts[e]++
		}
	}
	type wc struct {
		word  string
		count int
	}
	all := make([]wc, 0, len(counts))
	for w, c := range counts {
		all = append(all, wc{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	if len(all) > 5 {
		all = all[:5]
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.word
	}
	return out
}

// emotionSpecificPrompts maps a dominant emotion word to a contextual
// question. Only a subset of lexicon words have one.
var emotionSpecificPrompts = map[string]string{
	"anxious":  "I've noticed anxiety coming up for you. What's your mind most concerned about?",
	"worried":  "I've noticed anxiety coming up for you. What's your mind most concerned about?",
	"nervous":  "I've noticed anxiety coming up for you. What's your mind most concerned about?",
	"stressed": "I've noticed anxiety coming up for you. What's your mind most concerned about?",

	"sad":       "There's been sadness in our conversation. What's your heart processing right now?",
	"depressed": "There's been sadness in our conversation. What's your heart processing right now?",
	"down":      "There's been sadness in our conversation. What's your heart processing right now?",
	"blue":      "There's been sadness in our conversation. What's your heart processing right now?",

	"happy":   "I love the joy I'm hearing from you. What's been bringing you this happiness?",
	"excited": "I love the joy I'm hearing from you. What's been bringing you this happiness?",
	"joyful":  "I love the joy I'm hearing from you. What's been bringing you this happiness?",
	"content": "I love the joy I'm hearing from you. What's been bringing you this happiness?",

	"angry":      "I can sense some frustration. What's been challenging your patience?",
	"frustrated": "I can sense some frustration. What's been challenging your patience?",
	"irritated":  "I can sense some frustration. What's been challenging your patience?",
	"mad":        "I can sense some frustration. What's been challenging your patience?",

	"tired":     "You've mentioned feeling tired. What's been taking so much of your energy?",
	"exhausted": "You've mentioned feeling tired. What's been taking so much of your energy?",
	"drained":   "You've mentioned feeling tired. What's been taking so much of your energy?",
	"weary":     "You've mentioned feeling tired. What's been taking so much of your energy?",

	"lonely":       "Loneliness has come up in our conversation. What would help you feel more connected?",
	"isolated":     "Loneliness has come up in our conversation. What would help you feel more connected?",
	"alone":        "Loneliness has come up in our conversation. What would help you feel more connected?",
	"disconnected": "Loneliness has come up in our conversation. What would help you feel more connected?",
}

// ContextualPrompt derives a follow-up from the session pattern, or from the
// dominant recorded emotion when the pattern is stable. Returns "" when
// nothing applies.
func (m *ConversationMemory) ContextualPrompt() string {
	if len(m.exchanges) == 0 {
		return ""
	}
	switch m.Pattern() {
	case PatternImproving:
		return "I can sense something shifting positively for you. What's creating that change?"
	case PatternDeclining:
		return "I notice this feels heavier than when we started. What's weighing on you most?"
	case PatternVolatile:
		return "You're experiencing a lot of different emotions. What's behind all these feelings?"
	default:
		dominant := m.DominantEmotions()
		if len(dominant) > 0 {
			return emotionSpecificPrompts[dominant[0]]
		}
	}
	return ""
}

// ShouldOfferDeepDive reports whether the last three exchanges stayed on a
// shared topic and at least one carried emotional signal.
func (m *ConversationMemory) ShouldOfferDeepDive() bool {
	if len(m.exchanges) < 3 {
		return false
	}
	recent := m.exchanges[len(m.exchanges)-3:]

	first := map[string]struct{}{}
	for _, t := range extractTopics(recent[0].UserMessage) {
		first[t] = struct{}{}
	}
	if len(first) == 0 {
		return false
	}
	for _, ex := range recent[1:] {
		shared := false
		for _, t := range extractTopics(ex.UserMessage) {
			if _, ok := first[t]; ok {
				shared = true
				break
			}
		}
		if !shared {
			return false
		}
	}

	for _, ex := range recent {
		if len(ex.Emotions) > 0 {
			return true
		}
	}
	return false
}

// Exchanges returns the recorded turns, oldest first.
func (m *ConversationMemory) Exchanges() []Exchange {
	return m.exchanges
}

// SessionInsights summarizes a session's recorded exchanges.
type SessionInsights struct {
	TotalExchanges   int              `json:"total_exchanges"`
	AverageMood      float64          `json:"average_mood"`
	AverageWordCount float64          `json:"average_word_count"`
	DominantEmotions []string         `json:"dominant_emotions"`
	DiscussedTopics  []string         `json:"discussed_topics"`
	Pattern          EmotionalPattern `json:"pattern"`
	Engagement       EngagementLevel  `json:"engagement"`
	Duration         time.Duration    `json:"duration"`
}

// Insights computes a summary over everything recorded so far.
func (m *ConversationMemory) Insights() SessionInsights {
	in := SessionInsights{
		TotalExchanges:   len(m.exchanges),
		AverageMood:      5.0,
		DominantEmotions: m.DominantEmotions(),
		DiscussedTopics:  m.DiscussedTopics(),
		Pattern:          m.Pattern(),
		Engagement:       EngagementMinimal,
	}
	if len(m.exchanges) == 0 {
		return in
	}

	var moodSum, wordSum int
	for _, ex := range m.exchanges {
		moodSum += ex.Mood
		wordSum += len(strings.Fields(ex.UserMessage))
	}
	in.AverageMood = float64(moodSum) / float64(len(m.exchanges))
	in.AverageWordCount = float64(wordSum) / float64(len(m.exchanges))
	in.Duration = m.exchanges[len(m.exchanges)-1].Timestamp.Sub(m.exchanges[0].Timestamp)

	emoCount := len(in.DominantEmotions)
	if in.AverageWordCount > 100 && emoCount > 3 {
		in.Engagement = EngagementDeep
	} else if in.AverageWordCount > 30 && emoCount > 1 {
		in.Engagement = EngagementEngaged
	}
	return in
}
