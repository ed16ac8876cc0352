package attune

import (
	"strings"
	"testing"
)

func TestDetectCrisisHigh(t *testing.T) {
	level := DetectCrisis("I just want to die", 1)
	if level != CrisisHigh {
		t.Fatalf("expected high, got %s", level)
	}
	msg := CrisisSupportMessage(level)
	for _, ref := range []string{"741741", "988", "911"} {
		if !strings.Contains(msg, ref) {
			t.Errorf("high tier missing %q", ref)
		}
	}
}

func TestDetectCrisisModerateFromLanguage(t *testing.T) {
	level := DetectCrisis("sometimes I feel hopeless about all of it", 5)
	if level != CrisisModerate {
		t.Fatalf("expected moderate, got %s", level)
	}
	msg := CrisisSupportMessage(level)
	if !strings.Contains(msg, "741741") || !strings.Contains(msg, "988") {
		t.Error("moderate tier missing hotline references")
	}
}

func TestDetectCrisisModerateFromMood(t *testing.T) {
	if level := DetectCrisis("okay i guess", 1); level != CrisisModerate {
		t.Errorf("expected moderate, got %s", level)
	}
}

func TestDetectCrisisLow(t *testing.T) {
	if level := DetectCrisis("rough start to the week", 2); level != CrisisLow {
		t.Errorf("expected low, got %s", level)
	}
}

func TestDetectCrisisNone(t *testing.T) {
	if level := DetectCrisis("having a lovely morning", 8); level != CrisisNone {
		t.Errorf("expected none, got %s", level)
	}
}

func TestDetectCrisisCaseInsensitive(t *testing.T) {
	if level := DetectCrisis("I CAN'T GO ON like this", 6); level != CrisisModerate {
		t.Errorf("expected moderate, got %s", level)
	}
}

func TestRequiresIntervention(t *testing.T) {
	cases := map[CrisisLevel]bool{
		CrisisNone:     false,
		CrisisLow:      false,
		CrisisModerate: true,
		CrisisHigh:     true,
	}
	for level, want := range cases {
		if got := level.RequiresIntervention(); got != want {
			t.Errorf("%s.RequiresIntervention() = %v, want %v", level, got, want)
		}
	}
}
