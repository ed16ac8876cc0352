package attune

import (
	"math/rand"
	"strings"
	"time"
)

// EmotionalState is the coarse classification of a single reply's emotions.
type EmotionalState string

const (
	StateHighlyPositive EmotionalState = "highly_positive"
	StatePositive       EmotionalState = "positive"
	StateNeutral        EmotionalState = "neutral"
	StateMixed          EmotionalState = "mixed"
	StateNegative       EmotionalState = "negative"
	StateHighlyNegative EmotionalState = "highly_negative"
)

// EmotionalTrend compares two emotion signals across turns.
type EmotionalTrend string

const (
	TrendImproving EmotionalTrend = "improving"
	TrendStable    EmotionalTrend = "stable"
	TrendDeclining EmotionalTrend = "declining"
)

// EmotionalPattern is the short-term session pattern derived from recent moods.
// Distinct from EmotionalTrend: the pattern looks at mood ratings, not lexicon hits.
type EmotionalPattern string

const (
	PatternStable    EmotionalPattern = "stable"
	PatternImproving EmotionalPattern = "improving"
	PatternDeclining EmotionalPattern = "declining"
	PatternVolatile  EmotionalPattern = "volatile"
)

// CrisisLevel is the escalation tier from the crisis detector.
type CrisisLevel string

const (
	CrisisNone     CrisisLevel = "none"
	CrisisLow      CrisisLevel = "low"
	CrisisModerate CrisisLevel = "moderate"
	CrisisHigh     CrisisLevel = "high"
)

// RequiresIntervention reports whether this level must short-circuit the turn
// into safety messaging.
func (c CrisisLevel) RequiresIntervention() bool {
	return c == CrisisModerate || c == CrisisHigh
}

// EngagementLevel tiers a reply by length, emotional richness, and think-time.
type EngagementLevel string

const (
	EngagementMinimal EngagementLevel = "minimal"
	EngagementEngaged EngagementLevel = "engaged"
	EngagementDeep    EngagementLevel = "deep"
)

// FlowStage is the position within a single check-in session.
type FlowStage string

const (
	FlowInitial  FlowStage = "initial"
	FlowFollowUp FlowStage = "follow_up"
	FlowDeepDive FlowStage = "deep_dive"
	FlowClosing  FlowStage = "closing"
)

// TimeOfDay buckets the clock into the four affinity slots.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// AllTimesOfDay lists the buckets in canonical order. Affinity maps are
// normalized across exactly this set.
var AllTimesOfDay = []TimeOfDay{Morning, Afternoon, Evening, Night}

// TimeOfDayAt buckets a wall-clock time.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 22:
		return Evening
	default:
		return Night
	}
}

// Category classifies what a prompt asks about.
type Category string

const (
	CategoryOpenEnded  Category = "open_ended"
	CategorySpecific   Category = "specific"
	CategoryReflective Category = "reflective"
	CategoryGratitude  Category = "gratitude"
	CategoryCoping     Category = "coping"
	CategoryFuture     Category = "future"
)

// Style is the conversational register a prompt is written in.
type Style string

const (
	StyleCasual     Style = "casual"
	StyleGentle     Style = "gentle"
	StyleDirect     Style = "direct"
	StyleSupportive Style = "supportive"
	StyleCurious    Style = "curious"
)

// Tone is a prompt's emotional coloring.
type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneWarm       Tone = "warm"
	ToneEnergetic  Tone = "energetic"
	ToneCalm       Tone = "calm"
	ToneEmpathetic Tone = "empathetic"
)

// ResponseLength buckets reply word counts.
type ResponseLength string

const (
	LengthShort  ResponseLength = "short"  // <50 words
	LengthMedium ResponseLength = "medium" // 50-150 words
	LengthLong   ResponseLength = "long"   // >150 words
)

// Depth is the user's learned preference for how far a conversation digs.
type Depth string

const (
	DepthSurface  Depth = "surface"
	DepthModerate Depth = "moderate"
	DepthDeep     Depth = "deep"
)

// Prompt is one catalog entry. The core only reads prompts; the single
// mutable field is Effectiveness, updated post-hoc from reply quality.
type Prompt struct {
	ID               string
	Question         string
	Category         Category
	TimeOfDay        TimeOfDay
	Style            Style
	Tone             Tone
	FollowUpTriggers []string
	FollowUps        []string
	Effectiveness    float64
}

// Reply is one user turn. Immutable once created; persisted by day id.
type Reply struct {
	ID           string
	PromptID     string
	UserID       string
	Text         string
	Mood         int // 1-10
	Timestamp    time.Time
	DayID        string // yyyy-mm-dd
	TurnIndex    int
	Engagement   EngagementLevel
	Emotions     map[string]float64 // lexicon words detected in Text with intensities
	ResponseTime float64  // seconds the user spent before sending
}

// WordCount counts whitespace-separated tokens in the reply text.
func (r Reply) WordCount() int {
	return len(strings.Fields(r.Text))
}

// Length buckets the reply by word count.
func (r Reply) Length() ResponseLength {
	switch wc := r.WordCount(); {
	case wc < 50:
		return LengthShort
	case wc < 150:
		return LengthMedium
	default:
		return LengthLong
	}
}

// DayID formats a timestamp as the reply-log day key.
func DayID(t time.Time) string {
	return t.Format("2006-01-02")
}

// Config holds engine initialization parameters.
type Config struct {
	DBPath       string     // SQLite file path (default ./data/attune.db)
	Catalog      *Catalog   // prompt catalog (default DefaultCatalog())
	MaxFollowUps int        // follow-up budget per session (default 20)
	Rand         *rand.Rand // seedable source for canned-text choice
	PersistQueue int        // buffered persist jobs (default 32)
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.DBPath == "" {
		c.DBPath = "./data/attune.db"
	}
	if c.Catalog == nil {
		c.Catalog = DefaultCatalog()
	}
	if c.MaxFollowUps == 0 {
		c.MaxFollowUps = 20
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.PersistQueue == 0 {
		c.PersistQueue = 32
	}
}
