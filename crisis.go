package attune

import "strings"

// crisisKeywords are matched as lowercase substrings. Matching is deliberately
// literal: no stemming or negation handling, a safety net rather than NLP.
var crisisKeywords = []string{
	"hopeless", "worthless", "better off dead", "can't go on",
	"ending it all", "hurt myself", "suicide", "kill myself",
	"no point", "give up", "end it", "not worth living",
	"want to die", "hate myself", "can't take it", "too much pain",
}

// DetectCrisis combines keyword matching with the mood rating. Language plus
// an extreme mood escalates to high; either alone is moderate; mood at or
// below 2 is low.
func DetectCrisis(text string, mood int) CrisisLevel {
	lower := strings.ToLower(text)
	hasLanguage := false
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			hasLanguage = true
			break
		}
	}
	extremeMood := mood <= 1

	switch {
	case hasLanguage && extremeMood:
		return CrisisHigh
	case hasLanguage || extremeMood:
		return CrisisModerate
	case mood <= 2:
		return CrisisLow
	default:
		return CrisisNone
	}
}

// CrisisSupportMessage returns the tiered support text for a level. The high
// and moderate tiers carry hotline numbers and must never be reworded to
// drop them.
func CrisisSupportMessage(level CrisisLevel) string {
	switch level {
	case CrisisHigh:
		return `I'm really concerned about you and I'm so glad you trusted me with these feelings.
You matter tremendously, and there are people who want to help.

Please reach out to:
- Crisis Text Line: Text HOME to 741741
- National Suicide Prevention Lifeline: 988
- Or your local emergency services: 911

Would you like to talk about what's making things feel so difficult?`
	case CrisisModerate:
		return `I hear how much pain you're in right now, and I want you to know that you're not alone.
These feelings are temporary, even when they don't feel that way.

If you need immediate support:
- Crisis Text Line: Text HOME to 741741
- National Suicide Prevention Lifeline: 988

What's one small thing that might help you feel a little safer right now?`
	case CrisisLow:
		return `I can sense you're going through a really tough time. Your feelings are valid,
and it's okay to not be okay sometimes.

Remember that support is available if you need it:
- Crisis Text Line: Text HOME to 741741

What's been the hardest part of today for you?`
	default:
		return "I'm here to support you. What would be most helpful right now?"
	}
}
