package attune

import (
	"errors"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionEnded is returned by Advance after the closing message.
	ErrSessionEnded = errors.New("attune: session already ended")
	// ErrEmptyInput is returned for empty or whitespace-only reply text.
	// The turn is ignored entirely: no learning, no prompt advance.
	ErrEmptyInput = errors.New("attune: empty reply text")
)

// genericQuestion is asked when the catalog yields no prompt at all.
const genericQuestion = "How are you feeling right now?"

// TurnKind labels what kind of message an AgentTurn carries.
type TurnKind string

const (
	TurnPrompt        TurnKind = "prompt"
	TurnFollowUp      TurnKind = "follow_up"
	TurnMoodRequest   TurnKind = "mood_request"
	TurnCrisisSupport TurnKind = "crisis_support"
	TurnClosing       TurnKind = "closing"
)

// AgentTurn is one outbound message from the engine to the user.
type AgentTurn struct {
	Text         string      `json:"text"`
	Kind         TurnKind    `json:"kind"`
	Crisis       CrisisLevel `json:"crisis"`
	SessionEnded bool        `json:"session_ended"`
}

// Engine is the check-in engine. It owns the store, the prompt catalog, and
// the background persist worker; sessions are created per user via StartSession.
type Engine struct {
	config  Config
	store   *Store
	catalog *Catalog
	worker  *persistWorker
	mu      sync.Mutex // guards rng and catalog effectiveness writes
	rng     *rand.Rand
}

// New creates an Engine, runs DB migrations, loads learned prompt
// effectiveness into the catalog, and starts the persist worker.
func New(cfg Config) (*Engine, error) {
	cfg.ApplyDefaults()

	store, err := NewStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	if eff, err := store.AllEffectiveness(); err != nil {
		log.Printf("[attune] load effectiveness: %v", err)
	} else {
		for id, score := range eff {
			cfg.Catalog.SetEffectiveness(id, score)
		}
	}

	e := &Engine{
		config:  cfg,
		store:   store,
		catalog: cfg.Catalog,
		rng:     cfg.Rand,
	}
	e.worker = startPersistWorker(store, cfg.PersistQueue)

	log.Printf("[attune] Initialized (db=%s, prompts=%d)", cfg.DBPath, e.catalog.Len())
	return e, nil
}

// Store exposes the underlying store for insights and trend queries.
func (e *Engine) Store() *Store { return e.store }

// Catalog exposes the prompt catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Close drains pending persists and closes the database.
func (e *Engine) Close() error {
	e.worker.close()
	return e.store.Close()
}

// sessionRand derives an independent source per session so concurrent
// sessions never share a Rand.
func (e *Engine) sessionRand() *rand.Rand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rand.New(rand.NewSource(e.rng.Int63()))
}

// Session is a single user's active check-in. One goroutine at a time may
// drive it; turns are processed fully before the next is accepted.
type Session struct {
	engine   *Engine
	userID   string
	profile  *UserProfile
	memory   *ConversationMemory
	selector *Selector
	rng      *rand.Rand

	mu               sync.Mutex
	flow             FlowStage
	prompt           Prompt
	hasPrompt        bool
	opening          AgentTurn
	mood             int
	moodCaptured     bool
	followUps        int
	budget           int
	turnIndex        int
	previousEmotions map[string]float64
	recentCategories map[Category]bool
	recentStyles     map[Style]bool
	replies          []Reply
	startedAt        time.Time
	lastTurnAt       time.Time
	ended            bool
}

// StartSession loads the user's profile and opens a session with an initial
// prompt chosen for the current time of day. A store read failure falls back
// to a fresh profile; the conversation still proceeds.
func (e *Engine) StartSession(userID string) (*Session, error) {
	if userID == "" {
		return nil, errors.New("attune: user id required")
	}

	profile, err := e.store.LoadProfile(userID)
	if err != nil {
		log.Printf("[attune] load profile for %s: %v", userID, err)
		profile = NewProfile(userID)
	}

	now := time.Now()
	s := &Session{
		engine:           e,
		userID:           userID,
		profile:          profile,
		memory:           NewConversationMemory(),
		selector:         NewSelector(profile),
		rng:              e.sessionRand(),
		flow:             FlowInitial,
		mood:             5,
		budget:           e.config.MaxFollowUps,
		recentCategories: make(map[Category]bool),
		recentStyles:     make(map[Style]bool),
		startedAt:        now,
		lastTurnAt:       now,
	}

	question := s.selectPrompt(TimeOfDayAt(now))
	s.opening = AgentTurn{Text: question, Kind: TurnPrompt, Crisis: CrisisNone}
	s.memory.RecordQuestion(question)
	return s, nil
}

// selectPrompt picks the best catalog prompt for the session's current flow
// stage and mood, marking its category and style as recently used.
func (s *Session) selectPrompt(t TimeOfDay) string {
	ctx := SelectionContext{
		Flow:             s.flow,
		Mood:             s.mood,
		DetectedEmotions: s.detectedEmotionSet(),
		RecentCategories: s.recentCategories,
		RecentStyles:     s.recentStyles,
	}
	p, ok := s.selector.SelectBest(s.engine.catalog.PromptsFor(t), ctx)
	if !ok {
		s.hasPrompt = false
		return genericQuestion
	}
	s.prompt = p
	s.hasPrompt = true
	s.recentCategories[p.Category] = true
	s.recentStyles[p.Style] = true
	return p.Question
}

func (s *Session) detectedEmotionSet() []string {
	words := make([]string, 0, len(s.previousEmotions))
	for word := range s.previousEmotions {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// Opening returns the session's first agent message.
func (s *Session) Opening() AgentTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opening
}

// UserID returns the session owner.
func (s *Session) UserID() string { return s.userID }

// Memory exposes the session's conversation memory.
func (s *Session) Memory() *ConversationMemory { return s.memory }

// Profile exposes the live preference model for this session.
func (s *Session) Profile() *UserProfile { return s.profile }

// Ended reports whether the session has closed.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Advance processes one user reply and returns the next agent message.
// mood, when non-nil, records the user's 1-10 rating for this session.
//
// Processing order per turn: crisis gate first, then emotion extraction,
// memory and profile updates, background persist, and finally follow-up or
// closing generation. A crisis turn skips learning, emits the tiered support
// message, extends the follow-up budget by one, and keeps the session open.
func (s *Session) Advance(text string, mood *int) (AgentTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return AgentTurn{}, ErrSessionEnded
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return AgentTurn{}, ErrEmptyInput
	}

	now := time.Now()
	responseTime := now.Sub(s.lastTurnAt).Seconds()
	s.lastTurnAt = now

	if mood != nil && *mood >= 1 && *mood <= 10 {
		s.mood = *mood
		s.moodCaptured = true
	}

	emotions := ExtractEmotions(trimmed)
	level := DetectCrisis(trimmed, s.mood)
	if level.RequiresIntervention() {
		// Safety messaging must always surface; the turn still counts but
		// the budget grows by one so the conversation is not cut short.
		s.memory.RecordExchange(trimmed, emotions, s.mood, now)
		s.turnIndex++
		s.budget++
		return AgentTurn{Text: CrisisSupportMessage(level), Kind: TurnCrisisSupport, Crisis: level}, nil
	}

	reply := Reply{
		ID:           uuid.NewString(),
		PromptID:     s.prompt.ID,
		UserID:       s.userID,
		Text:         trimmed,
		Mood:         s.mood,
		Timestamp:    now,
		DayID:        DayID(now),
		TurnIndex:    s.turnIndex,
		Engagement:   ScoreEngagement(trimmed, len(emotions), responseTime),
		Emotions:     emotions,
		ResponseTime: responseTime,
	}
	s.turnIndex++
	s.replies = append(s.replies, reply)

	s.memory.RecordExchange(trimmed, emotions, s.mood, now)
	s.profile.Learn(reply)
	s.engine.worker.enqueue(persistJob{profile: s.profile.Clone(), reply: &reply})

	trendPrevious := s.previousEmotions
	s.previousEmotions = emotions

	switch {
	case s.flow == FlowInitial:
		s.flow = FlowFollowUp
	case s.flow == FlowFollowUp && (s.followUps >= 3 || s.memory.ShouldOfferDeepDive() || s.profile.ShouldOfferDeepDivePrompt()):
		s.flow = FlowDeepDive
	}

	if !s.moodCaptured {
		return AgentTurn{Text: MoodRequestMessage(), Kind: TurnMoodRequest, Crisis: level}, nil
	}

	if s.followUps < s.budget {
		question := s.nextFollowUp(trimmed, emotions, trendPrevious)
		if question != "" {
			s.followUps++
			s.memory.RecordQuestion(question)
			return AgentTurn{Text: question, Kind: TurnFollowUp, Crisis: level}, nil
		}
	}

	return s.closeSession(level), nil
}

// nextFollowUp produces the next question: a trigger-keyword follow-up from
// the active prompt when one fires, otherwise a contextual follow-up in
// priority order. Candidates too similar to recently asked questions are
// suppressed.
func (s *Session) nextFollowUp(text string, emotions map[string]float64, previous map[string]float64) string {
	if s.hasPrompt {
		if q, ok := FollowUpQuestion(s.prompt, text, s.rng); ok && !s.memory.HasAskedSimilarQuestion(q) {
			return q
		}
	}

	if q := s.memory.ContextualPrompt(); q != "" && !s.memory.HasAskedSimilarQuestion(q) {
		return q
	}
	if q, ok := EmpatheticResponse(emotions, s.rng); ok && !s.memory.HasAskedSimilarQuestion(q) {
		return q
	}
	if previous != nil {
		if q, ok := TrendFollowUp(Trend(emotions, previous), s.rng); ok && !s.memory.HasAskedSimilarQuestion(q) {
			return q
		}
	}
	if q, ok := StateFollowUp(ClassifyState(emotions), s.rng); ok && !s.memory.HasAskedSimilarQuestion(q) {
		return q
	}
	for _, q := range keywordFollowUps(text, s.mood) {
		if !s.memory.HasAskedSimilarQuestion(q) {
			return q
		}
	}
	return chooseUnique(freshPerspectiveFollowUps, s.memory.questionHistory, s.rng)
}

// NewTopic abandons the active prompt and selects a fresh one for the
// current flow stage, honoring variety damping against topics already
// covered this session.
func (s *Session) NewTopic() (AgentTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return AgentTurn{}, ErrSessionEnded
	}
	question := s.selectPrompt(TimeOfDayAt(time.Now()))
	s.memory.RecordQuestion(question)
	return AgentTurn{Text: question, Kind: TurnPrompt, Crisis: CrisisNone}, nil
}

// closeSession emits the tailored closing message and folds this session's
// reply quality back into prompt effectiveness.
func (s *Session) closeSession(level CrisisLevel) AgentTurn {
	s.flow = FlowClosing
	s.ended = true

	var parts []string
	totalWords := 0
	for _, r := range s.replies {
		parts = append(parts, r.Text)
		totalWords += r.WordCount()
	}
	closing := ClosingMessage(strings.Join(parts, " "), s.mood, totalWords, s.rng)

	s.updateEffectiveness()
	s.engine.worker.enqueue(persistJob{profile: s.profile.Clone()})

	return AgentTurn{Text: closing, Kind: TurnClosing, Crisis: level, SessionEnded: true}
}

// updateEffectiveness averages reply quality per prompt and writes the
// result to the catalog and the store.
func (s *Session) updateEffectiveness() {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range s.replies {
		if r.PromptID == "" {
			continue
		}
		sums[r.PromptID] += PromptEffectiveness(r)
		counts[r.PromptID]++
	}

	s.engine.mu.Lock()
	defer s.engine.mu.Unlock()
	for id, sum := range sums {
		score := sum / float64(counts[id])
		s.engine.catalog.SetEffectiveness(id, score)
		if err := s.engine.store.UpsertEffectiveness(id, score); err != nil {
			log.Printf("[attune] persist effectiveness for %s: %v", id, err)
		}
	}
}

// End closes the session without a closing message. Already-recorded replies
// and profile updates stay persisted; in-flight selection is abandoned.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.flow = FlowClosing
	s.updateEffectiveness()
	s.engine.worker.enqueue(persistJob{profile: s.profile.Clone()})
	s.memory.Clear()
}

// Insights summarizes the session so far.
func (s *Session) Insights() SessionInsights {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memory.Insights()
}
