package attune

import (
	"math/rand"
	"strings"
)

// empatheticResponses holds the per-family canned follow-ups, split into a
// high tier for intensities at or above 0.8 and a moderate tier below it.
// Families without an entry get no empathetic response.
var empatheticResponses = map[EmotionFamily]struct{ high, moderate []string }{
	FamilyAnxiety: {
		high: []string{
			"I can feel the intensity of that anxiety. What's your heart most worried about right now?",
			"That level of worry sounds overwhelming. What thoughts are racing through your mind?",
			"I hear how anxious you're feeling. What would help you feel more grounded in this moment?",
		},
		moderate: []string{
			"I notice some anxiety in your words. What's creating that nervous energy?",
			"That worry makes sense. What's behind those anxious feelings?",
			"I can hear that unease. What's your mind trying to tell you?",
		},
	},
	FamilySadness: {
		high: []string{
			"I'm so sorry you're carrying this heavy sadness. What's weighing most on your heart?",
			"That depth of sadness is real and valid. What does your heart need right now?",
			"I can feel how much pain you're in. What would feel most supportive in this moment?",
		},
		moderate: []string{
			"I hear that sadness in your words. What's sitting heavy with you today?",
			"That melancholy feeling is understandable. What's behind those sad feelings?",
			"I notice you're feeling down. What's your heart trying to process?",
		},
	},
	FamilyJoy: {
		high: []string{
			"Your joy is absolutely radiant! What's creating this beautiful happiness?",
			"I can feel your excitement through your words! What's bringing you such delight?",
			"This level of happiness is wonderful to witness! What's making your heart so full?",
		},
		moderate: []string{
			"I love hearing that happiness in your voice! What's bringing you joy today?",
			"That contentment is beautiful. What's creating those good feelings?",
			"Your positive energy is lovely. What's been the highlight of your day?",
		},
	},
	FamilyAnger: {
		high: []string{
			"I can feel the intensity of that anger. What's triggered such strong feelings?",
			"That rage is powerful. What injustice or frustration is fueling this?",
			"Your anger is valid and important. What needs to be heard or changed?",
		},
		moderate: []string{
			"I hear that frustration. What's been irritating or disappointing you?",
			"That annoyance makes sense. What's been rubbing you the wrong way?",
			"I can sense your irritation. What's been challenging your patience?",
		},
	},
	FamilyFear: {
		high: []string{
			"That fear sounds really intense. What's creating such strong alarm?",
			"I can feel how scared you are. What's making you feel so unsafe?",
			"That terror is overwhelming. What's threatening your sense of security?",
		},
		moderate: []string{
			"I hear that nervousness. What's making you feel uneasy?",
			"That apprehension is understandable. What's creating those worried feelings?",
			"I can sense your concern. What's making you feel uncertain?",
		},
	},
	FamilyExhaustion: {
		high: []string{
			"That exhaustion sounds complete. What's been draining all your energy?",
			"I can feel how depleted you are. What's been taking so much out of you?",
			"That level of tiredness is profound. What does your body and soul need most?",
		},
		moderate: []string{
			"I hear that weariness. What's been tiring you out lately?",
			"That fatigue is real. What's been demanding so much of your energy?",
			"I can sense you're worn down. What would help restore you?",
		},
	},
}

// EmpatheticResponse picks a canned response for the dominant detected
// emotion. Only some families have one; returns false otherwise.
func EmpatheticResponse(emotions map[string]float64, rng *rand.Rand) (string, bool) {
	word, intensity, ok := DominantEmotion(emotions)
	if !ok {
		return "", false
	}
	pools, ok := empatheticResponses[FamilyOf(word)]
	if !ok {
		return "", false
	}
	pool := pools.moderate
	if intensity >= 0.8 {
		pool = pools.high
	}
	return pool[rng.Intn(len(pool))], true
}

var improvingFollowUps = []string{
	"I can sense something shifting positively for you. What's creating that change?",
	"There's a lightness emerging in your words. What's helping you feel better?",
	"I notice your energy lifting. What's been supporting this positive shift?",
}

var decliningFollowUps = []string{
	"I notice this feels heavier than when we started. What's weighing on you most?",
	"Something seems to be pulling you down. What's behind that shift?",
	"I can feel the weight increasing for you. What's making things feel harder?",
}

// TrendFollowUp returns a canned follow-up for an improving or declining
// trend; stable trends get none.
func TrendFollowUp(trend EmotionalTrend, rng *rand.Rand) (string, bool) {
	switch trend {
	case TrendImproving:
		return improvingFollowUps[rng.Intn(len(improvingFollowUps))], true
	case TrendDeclining:
		return decliningFollowUps[rng.Intn(len(decliningFollowUps))], true
	}
	return "", false
}

var highNegativeFollowUps = []string{
	"I can feel the intensity of what you're going through. What's the hardest part right now?",
	"This sounds overwhelming. What would help you feel even a little bit safer?",
	"I'm here with you in this difficult moment. What does your heart need most?",
}

var highPositiveFollowUps = []string{
	"Your joy is absolutely radiant! What's creating this beautiful energy?",
	"I can feel your happiness through your words! What's making your heart so full?",
	"This level of positivity is wonderful to witness! What's been the source of this joy?",
}

var mixedFollowUps = []string{
	"You're experiencing a lot of different emotions. What's behind all these feelings?",
	"I can sense the complexity of what you're feeling. What's the strongest emotion right now?",
	"There's so much happening emotionally for you. What feels most important to explore?",
}

// StateFollowUp returns a canned follow-up for the extreme and mixed states;
// plain positive, negative, and neutral get none.
func StateFollowUp(state EmotionalState, rng *rand.Rand) (string, bool) {
	switch state {
	case StateHighlyNegative:
		return highNegativeFollowUps[rng.Intn(len(highNegativeFollowUps))], true
	case StateHighlyPositive:
		return highPositiveFollowUps[rng.Intn(len(highPositiveFollowUps))], true
	case StateMixed:
		return mixedFollowUps[rng.Intn(len(mixedFollowUps))], true
	}
	return "", false
}

var freshPerspectiveFollowUps = []string{
	"What else is alive in your heart right now?",
	"If you could tell me one more thing, what would it be?",
	"What haven't we touched on that feels important?",
	"What's your intuition telling you about all of this?",
	"What would feel most helpful to explore together?",
}

// keywordFollowUps builds candidate follow-ups layered by what the reply
// mentions, in a fixed section order so the same input always yields the
// same candidate list.
func keywordFollowUps(text string, mood int) []string {
	lower := strings.ToLower(text)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	var out []string
	if contains("stressed", "overwhelmed") {
		out = append(out,
			"I can hear that you're carrying a lot right now. What's weighing on you most?",
			"That sounds really challenging. What's one thing that might help lighten that load?",
			"I'm here with you in this. What's behind that feeling of overwhelm?",
			"What's been the most stressful part of your day?",
			"How long have you been feeling this overwhelmed?",
		)
	}
	if contains("anxious", "worried", "nervous") {
		out = append(out,
			"I hear that anxiety in your words. What thoughts are swirling around in your mind?",
			"Anxiety can feel so consuming. What's your heart most worried about right now?",
			"That nervous energy makes sense. What would help you feel more grounded?",
			"What's your anxiety trying to protect you from?",
			"When did you first notice this anxious feeling today?",
		)
	}
	if contains("sad", "down", "depressed") || mood <= 3 {
		out = append(out,
			"I'm sorry you're feeling this way. What's sitting heavy on your heart?",
			"That sounds really difficult. What does that sadness want you to know?",
			"I'm here with you in this low moment. What would feel most supportive right now?",
			"What's been the hardest part of feeling this way?",
			"Is there anything that brings you even a small moment of comfort?",
		)
	}
	if contains("happy", "good", "great", "excited") || mood >= 7 {
		out = append(out,
			"I love hearing that joy in your words! What's bringing that lightness today?",
			"That's wonderful to hear! What made today feel so good?",
			"Your happiness is contagious! What's been the best part of your day?",
			"What's been fueling this positive energy?",
			"How does this happiness feel in your body?",
		)
	}
	if contains("work", "job", "boss", "meeting") {
		out = append(out,
			"Work can be such a source of stress. What's the most challenging part right now?",
			"I hear you. What would help you feel more supported at work?",
			"That work situation sounds tough. How are you taking care of yourself through it?",
			"What's been the most frustrating aspect of your work lately?",
			"How is this work stress affecting other areas of your life?",
		)
	}
	if len(text) > 100 {
		out = append(out,
			"Thank you for sharing so openly with me. What feels most important in all of that?",
			"I can feel the depth in what you're sharing. What stands out most to you?",
			"There's so much wisdom in your reflection. What are you learning about yourself?",
			"What part of what you shared resonates most deeply with you?",
			"In all of that, what feels like the core truth for you?",
		)
	}
	if len(text) > 30 {
		out = append(out,
			"I'm curious to know more. What else is on your mind?",
			"That resonates. How does that feel in your body right now?",
			"Tell me more about that. What's beneath the surface?",
			"What would you like to explore more deeply?",
			"What's your heart telling you about this?",
		)
	}
	return out
}

var lowMoodClosings = []string{
	"Thank you for trusting me with your feelings today. I'm now saving your emotions and mood to better understand and support you. You don't have to carry this alone. I wish you a gentle rest of your day.",
	"I'm grateful you shared what's in your heart. I'm storing today's insights to help me be more supportive next time. Please be extra gentle with yourself today.",
	"Your courage in opening up, even when things feel heavy, is remarkable. I'm saving your feelings to learn how to better care for you. Take care of yourself.",
	"Thank you for letting me sit with you in this difficult moment. I'm now recording your emotions to understand you better. You matter, and your feelings are valid.",
}

var highMoodClosings = []string{
	"I love the joy I heard in our conversation today! I'm saving your happiness and mood to remember what brings you lightness. Keep nurturing that beautiful energy.",
	"Your happiness is contagious! I'm storing today's positive emotions to better understand what makes you thrive. Thank you for sharing that lightness with me.",
	"It's wonderful to connect with you when you're feeling so good. I'm recording your joy to help me support your wellbeing. Enjoy this beautiful moment!",
	"The positivity in your words brightened my day too. I'm saving your mood and feelings to learn more about you. Keep shining!",
}

var workClosings = []string{
	"Work can be so demanding. I'm saving your thoughts about work stress to better support you through these challenges. Remember to take care of yourself. You're doing great.",
	"Thank you for sharing about your work challenges. I'm storing these insights to help me understand your work-life balance better. Don't forget to give yourself credit for all you handle.",
	"I hear how much you're juggling. I'm recording your feelings about work to learn how to better support you. Remember, your worth isn't defined by your productivity. Take care.",
}

var anxietyClosings = []string{
	"Thank you for sharing your worries with me. I'm saving your feelings about anxiety to better understand and support you. Remember, you've handled difficult things before.",
	"I hear that anxiety, and I want you to know it's okay to feel uncertain sometimes. I'm storing your emotions to learn how to help you feel more grounded. You're not alone.",
	"Your awareness of your anxiety is actually a strength. I'm recording these insights to better support your emotional wellbeing. Be patient with yourself as you navigate this.",
}

var deepClosings = []string{
	"Thank you for sharing so thoughtfully with me today. I'm saving your reflections to better understand your emotional journey. Your self-awareness is truly beautiful.",
	"I'm moved by the depth of what you shared. I'm storing these insights about your feelings and mood to support you better. Your emotional awareness is a real gift.",
	"The wisdom in your words today was profound. I'm recording your thoughts and emotions to learn more about who you are. Thank you for letting me witness your growth.",
}

var generalClosings = []string{
	"Thank you for taking time to check in with yourself today. I'm now saving your feelings and mood to better understand and support you. That's an act of self-care. I wish you a wonderful day!",
	"I appreciate you sharing with me. I'm storing today's emotions to learn how to be more helpful next time. Remember, I'm here whenever you need to talk.",
	"It's been meaningful to connect with you today. I'm saving your mood and feelings to better care for that beautiful heart of yours. Take care!",
	"Thank you for being open with me. I'm recording your emotional honesty to understand you better. Your feelings matter. Have a great rest of your day!",
}

// ClosingMessage picks the farewell tier from the whole session: mood
// extremes first, then conversation content, then overall depth.
func ClosingMessage(allUserText string, mood, totalWords int, rng *rand.Rand) string {
	lower := strings.ToLower(allUserText)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	var pool []string
	switch {
	case mood <= 3:
		pool = lowMoodClosings
	case mood >= 7:
		pool = highMoodClosings
	case contains("work", "job", "stress"):
		pool = workClosings
	case contains("anxious", "worried", "nervous"):
		pool = anxietyClosings
	case totalWords > 100:
		pool = deepClosings
	default:
		pool = generalClosings
	}
	return pool[rng.Intn(len(pool))]
}

// MoodRequestMessage asks the user for their 1-10 rating.
func MoodRequestMessage() string {
	return "Before we go further, how would you rate your mood right now, on a scale of 1 to 10?"
}
