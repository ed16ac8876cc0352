package attune

import (
	"fmt"
	"sync"
)

// Catalog holds the prompt pool the selector draws from. Effectiveness
// updates go through the catalog so the selector always sees fresh scores.
// Safe for concurrent use across sessions.
type Catalog struct {
	mu      sync.RWMutex
	prompts []Prompt
	byID    map[string]int
}

// NewCatalog builds a catalog from the given prompts. Prompts with zero
// effectiveness start at the neutral baseline of 1.0. Duplicate ids are an
// error.
func NewCatalog(prompts []Prompt) (*Catalog, error) {
	c := &Catalog{
		prompts: make([]Prompt, len(prompts)),
		byID:    make(map[string]int, len(prompts)),
	}
	for i, p := range prompts {
		if p.ID == "" {
			return nil, fmt.Errorf("attune: catalog prompt %d has empty id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("attune: duplicate prompt id %q", p.ID)
		}
		if p.Effectiveness == 0 {
			p.Effectiveness = 1.0
		}
		c.prompts[i] = p
		c.byID[p.ID] = i
	}
	return c, nil
}

// All returns every prompt in catalog order.
func (c *Catalog) All() []Prompt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allLocked()
}

func (c *Catalog) allLocked() []Prompt {
	out := make([]Prompt, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// Len reports the number of prompts.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.prompts)
}

// ByID looks a prompt up by id.
func (c *Catalog) ByID(id string) (Prompt, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Prompt{}, false
	}
	return c.prompts[i], true
}

// PromptsFor returns the prompts for a time bucket. An empty bucket falls
// back to the whole catalog so selection never comes up dry.
func (c *Catalog) PromptsFor(t TimeOfDay) []Prompt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Prompt
	for _, p := range c.prompts {
		if p.TimeOfDay == t {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return c.allLocked()
	}
	return out
}

// SetEffectiveness records a new effectiveness score for a prompt. Unknown
// ids are ignored; scores arriving from storage may outlive catalog edits.
func (c *Catalog) SetEffectiveness(id string, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.byID[id]; ok {
		c.prompts[i].Effectiveness = score
	}
}

// DefaultCatalog returns the built-in check-in prompt pool.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultPrompts)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultPrompts = []Prompt{
	// morning
	{
		ID:               "m_open_1",
		Question:         "Good morning! How are you feeling as this new day begins?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Morning,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"tired", "anxious", "excited", "nervous", "worried"},
		FollowUps: []string{
			"What's contributing to that feeling?",
			"Tell me more about that.",
			"What's on your mind this morning?",
		},
	},
	{
		ID:               "m_open_2",
		Question:         "Hey there! What's your emotional weather like this morning?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Morning,
		Style:            StyleCasual,
		Tone:             ToneEnergetic,
		FollowUpTriggers: []string{"cloudy", "stormy", "sunny", "foggy", "mixed"},
		FollowUps: []string{
			"What's creating that weather pattern?",
			"How does that feel in your body?",
		},
	},
	{
		ID:               "m_open_3",
		Question:         "Take a moment... how are you feeling right now?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Morning,
		Style:            StyleGentle,
		Tone:             ToneCalm,
		FollowUpTriggers: []string{"overwhelmed", "peaceful", "rushed", "calm"},
		FollowUps: []string{
			"What would help you feel more centered?",
			"What's behind that feeling?",
		},
	},
	{
		ID:               "m_open_4",
		Question:         "Morning check-in: What emotions are present for you today?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Morning,
		Style:            StyleDirect,
		Tone:             ToneNeutral,
		FollowUpTriggers: []string{"multiple", "confused", "clear", "mixed"},
		FollowUps: []string{
			"Which emotion feels strongest?",
			"How are you holding space for all of that?",
		},
	},
	{
		ID:               "m_open_5",
		Question:         "I'm here with you. What's happening in your heart this morning?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Morning,
		Style:            StyleSupportive,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"heavy", "light", "full", "empty", "aching"},
		FollowUps: []string{
			"You don't have to carry that alone.",
			"What does your heart need right now?",
		},
	},
	{
		ID:               "m_specific_1",
		Question:         "What emotions are you noticing as you start today?",
		Category:         CategorySpecific,
		TimeOfDay:        Morning,
		Style:            StyleCurious,
		Tone:             ToneCalm,
		FollowUpTriggers: []string{"anxiety", "stress", "worry", "excitement", "fear"},
		FollowUps: []string{
			"Where do you feel that in your body?",
			"What's behind that emotion?",
		},
	},
	{
		ID:               "m_specific_2",
		Question:         "What's the strongest feeling you're carrying into today?",
		Category:         CategorySpecific,
		TimeOfDay:        Morning,
		Style:            StyleDirect,
		Tone:             ToneNeutral,
		FollowUpTriggers: []string{"strong", "intense", "overwhelming", "powerful"},
		FollowUps: []string{
			"How long have you been carrying this feeling?",
			"What does this feeling need from you?",
		},
	},
	{
		ID:               "m_reflective_1",
		Question:         "Looking at the day ahead, what hopes do you have?",
		Category:         CategoryReflective,
		TimeOfDay:        Morning,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"hope", "worry", "uncertain", "excited", "nervous"},
		FollowUps: []string{
			"What would make today feel meaningful?",
			"What's behind those hopes?",
		},
	},
	{
		ID:               "m_reflective_2",
		Question:         "What do you need to feel emotionally supported today?",
		Category:         CategoryReflective,
		TimeOfDay:        Morning,
		Style:            StyleSupportive,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"support", "alone", "connection", "understanding"},
		FollowUps: []string{
			"How can you give yourself that support?",
			"Who in your life provides that?",
		},
	},
	{
		ID:               "m_future_1",
		Question:         "What are you looking forward to today?",
		Category:         CategoryFuture,
		TimeOfDay:        Morning,
		Style:            StyleCasual,
		Tone:             ToneEnergetic,
		FollowUpTriggers: []string{"nothing", "work", "meeting", "time", "people"},
		FollowUps: []string{
			"What's one small thing that could bring you joy today?",
			"What makes that feel exciting?",
		},
	},
	{
		ID:               "m_future_2",
		Question:         "How do you want to feel by the end of today?",
		Category:         CategoryFuture,
		TimeOfDay:        Morning,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"peaceful", "accomplished", "connected", "tired", "satisfied"},
		FollowUps: []string{
			"What would help you feel that way?",
			"What steps could move you toward that feeling?",
		},
	},

	// afternoon
	{
		ID:               "a_open_1",
		Question:         "Hey! How has your day been unfolding?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Afternoon,
		Style:            StyleCasual,
		Tone:             ToneNeutral,
		FollowUpTriggers: []string{"busy", "stressful", "good", "hard", "unexpected"},
		FollowUps: []string{
			"What's been the highlight so far?",
			"What's been challenging?",
		},
	},
	{
		ID:               "a_open_2",
		Question:         "Midday check-in: How are you feeling right now?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Afternoon,
		Style:            StyleDirect,
		Tone:             ToneNeutral,
		FollowUpTriggers: []string{"tired", "energized", "overwhelmed", "focused"},
		FollowUps: []string{
			"What's contributing to that feeling?",
			"What do you need right now?",
		},
	},
	{
		ID:               "a_open_3",
		Question:         "How's your heart doing in the middle of this day?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Afternoon,
		Style:            StyleGentle,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"heavy", "light", "full", "empty", "racing"},
		FollowUps: []string{
			"What's your heart trying to tell you?",
			"What would help your heart feel lighter?",
		},
	},
	{
		ID:               "a_specific_1",
		Question:         "What's the strongest emotion you've felt today?",
		Category:         CategorySpecific,
		TimeOfDay:        Afternoon,
		Style:            StyleDirect,
		Tone:             ToneNeutral,
		FollowUpTriggers: []string{"anger", "joy", "frustration", "contentment", "anxiety"},
		FollowUps: []string{
			"What triggered that feeling?",
			"How are you handling that emotion?",
		},
	},
	{
		ID:               "a_specific_2",
		Question:         "What's one emotion you've been trying to avoid today?",
		Category:         CategorySpecific,
		TimeOfDay:        Afternoon,
		Style:            StyleGentle,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"avoid", "ignore", "push", "suppress"},
		FollowUps: []string{
			"What makes that emotion feel difficult?",
			"What would happen if you gave it some space?",
		},
	},
	{
		ID:               "a_coping_1",
		Question:         "If you're feeling stressed right now, what usually helps?",
		Category:         CategoryCoping,
		TimeOfDay:        Afternoon,
		Style:            StyleSupportive,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"stressed", "overwhelmed", "tired", "frustrated"},
		FollowUps: []string{
			"Have you tried that today?",
			"What's one thing you could do right now?",
		},
	},
	{
		ID:               "a_coping_2",
		Question:         "What's one way you could be gentle with yourself right now?",
		Category:         CategoryCoping,
		TimeOfDay:        Afternoon,
		Style:            StyleGentle,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"gentle", "kind", "soft", "tender"},
		FollowUps: []string{
			"What would that gentleness look like?",
			"What's stopping you from being gentle with yourself?",
		},
	},
	{
		ID:               "a_coping_3",
		Question:         "When you feel overwhelmed, what brings you back to center?",
		Category:         CategoryCoping,
		TimeOfDay:        Afternoon,
		Style:            StyleSupportive,
		Tone:             ToneCalm,
		FollowUpTriggers: []string{"overwhelmed", "center", "ground", "balance"},
		FollowUps: []string{
			"How could you access that centering right now?",
			"What does being centered feel like for you?",
		},
	},
	{
		ID:               "a_coping_4",
		Question:         "What would help you feel more emotionally steady right now?",
		Category:         CategoryCoping,
		TimeOfDay:        Afternoon,
		Style:            StyleSupportive,
		Tone:             ToneCalm,
		FollowUpTriggers: []string{"steady", "stable", "grounded", "balanced"},
		FollowUps: []string{
			"What does emotional steadiness feel like for you?",
			"What usually helps you find that steadiness?",
		},
	},

	// evening
	{
		ID:               "e_reflective_1",
		Question:         "As you look back on today, what stands out emotionally?",
		Category:         CategoryReflective,
		TimeOfDay:        Evening,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"nothing", "everything", "work", "relationships", "moment"},
		FollowUps: []string{
			"What made that moment significant?",
			"How do you feel about that now?",
		},
	},
	{
		ID:               "e_reflective_2",
		Question:         "What emotion visited you most often today?",
		Category:         CategoryReflective,
		TimeOfDay:        Evening,
		Style:            StyleCurious,
		Tone:             ToneNeutral,
		FollowUpTriggers: []string{"visited", "frequent", "often", "recurring"},
		FollowUps: []string{
			"What do you think it was trying to tell you?",
			"How did you welcome or resist that visitor?",
		},
	},
	{
		ID:               "e_reflective_3",
		Question:         "What did you learn about yourself through your emotions today?",
		Category:         CategoryReflective,
		TimeOfDay:        Evening,
		Style:            StyleCurious,
		Tone:             ToneNeutral,
		FollowUpTriggers: []string{"learn", "discover", "realize", "understand"},
		FollowUps: []string{
			"How does that learning feel?",
			"What will you do with that insight?",
		},
	},
	{
		ID:               "e_reflective_4",
		Question:         "What emotion from today are you ready to release?",
		Category:         CategoryReflective,
		TimeOfDay:        Evening,
		Style:            StyleGentle,
		Tone:             ToneCalm,
		FollowUpTriggers: []string{"release", "let go", "done", "finished"},
		FollowUps: []string{
			"What would it feel like to let that go?",
			"What helped you carry it through the day?",
		},
	},
	{
		ID:               "e_gratitude_1",
		Question:         "What's something from today that you feel grateful for?",
		Category:         CategoryGratitude,
		TimeOfDay:        Evening,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"nothing", "people", "moments", "small", "everything"},
		FollowUps: []string{
			"Tell me more about that.",
			"How did that impact your day?",
		},
	},
	{
		ID:               "e_gratitude_2",
		Question:         "What small moment from today brought you joy?",
		Category:         CategoryGratitude,
		TimeOfDay:        Evening,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"small", "moment", "joy", "happy", "smile"},
		FollowUps: []string{
			"What made that moment special?",
			"How can you create more moments like that?",
		},
	},
	{
		ID:               "e_gratitude_3",
		Question:         "Who or what supported you emotionally today?",
		Category:         CategoryGratitude,
		TimeOfDay:        Evening,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"supported", "helped", "there", "friend", "family"},
		FollowUps: []string{
			"How did that support feel?",
			"What would you want them to know?",
		},
	},
	{
		ID:               "e_gratitude_4",
		Question:         "What's one thing about yourself you're grateful for today?",
		Category:         CategoryGratitude,
		TimeOfDay:        Evening,
		Style:            StyleSupportive,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"strength", "resilience", "kindness", "effort", "trying"},
		FollowUps: []string{
			"How did that quality show up for you today?",
			"What does it mean to appreciate that about yourself?",
		},
	},
	{
		ID:               "e_open_1",
		Question:         "How are you feeling as the day comes to a close?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Evening,
		Style:            StyleSupportive,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"tired", "satisfied", "worried", "peaceful", "heavy"},
		FollowUps: []string{
			"What do you need right now?",
			"How can you honor that feeling?",
		},
	},
	{
		ID:               "e_coping_1",
		Question:         "What does your heart need to hear before you sleep?",
		Category:         CategoryCoping,
		TimeOfDay:        Evening,
		Style:            StyleSupportive,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"heart", "need", "hear", "comfort", "reassurance"},
		FollowUps: []string{
			"Can you offer your heart those words?",
			"What would it mean to give yourself that message?",
		},
	},
	{
		ID:               "e_future_1",
		Question:         "How do you want to end today emotionally?",
		Category:         CategoryFuture,
		TimeOfDay:        Evening,
		Style:            StyleGentle,
		Tone:             ToneWarm,
		FollowUpTriggers: []string{"end", "close", "finish", "peaceful", "complete"},
		FollowUps: []string{
			"What would help you feel that way?",
			"What does a good emotional ending look like for you?",
		},
	},

	// night
	{
		ID:               "n_open_1",
		Question:         "It's late, and you're still here. How are you feeling right now?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Night,
		Style:            StyleGentle,
		Tone:             ToneCalm,
		FollowUpTriggers: []string{"awake", "restless", "tired", "thinking", "quiet"},
		FollowUps: []string{
			"What's keeping your mind awake?",
			"What would help you rest?",
		},
	},
	{
		ID:               "n_open_2",
		Question:         "In the quiet of the night, what's on your mind?",
		Category:         CategoryOpenEnded,
		TimeOfDay:        Night,
		Style:            StyleCurious,
		Tone:             ToneCalm,
		FollowUpTriggers: []string{"thoughts", "worry", "racing", "memories", "tomorrow"},
		FollowUps: []string{
			"How long have those thoughts been circling?",
			"What would help quiet them?",
		},
	},
	{
		ID:               "n_coping_1",
		Question:         "What would help you let go of today before you sleep?",
		Category:         CategoryCoping,
		TimeOfDay:        Night,
		Style:            StyleSupportive,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"sleep", "rest", "release", "let go", "heavy"},
		FollowUps: []string{
			"What's one thing you could set down for the night?",
			"What does restful feel like for you?",
		},
	},
	{
		ID:               "n_reflective_1",
		Question:         "Before the day fully ends, what feeling deserves a moment of your attention?",
		Category:         CategoryReflective,
		TimeOfDay:        Night,
		Style:            StyleGentle,
		Tone:             ToneEmpathetic,
		FollowUpTriggers: []string{"attention", "ignored", "lingering", "unfinished"},
		FollowUps: []string{
			"What happens when you give it that moment?",
			"What is it asking of you?",
		},
	},
}
