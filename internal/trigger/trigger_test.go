package trigger

import (
	"testing"

	"github.com/calebmills/redlead/internal/model"
)

func TestClassify(t *testing.T) {
	offer := []string{"[FOR HIRE]", "[OFFER]"}
	task := []string{"[TASK]", "[HIRING]"}
	c := NewClassifier(offer, task)

	tests := []struct {
		name  string
		title string
		want  model.Trigger
	}{
		{"offer phrase only", "[FOR HIRE] Senior Go developer available", model.TriggerOffer},
		{"second offer phrase", "[OFFER] Logo design, fast turnaround", model.TriggerOffer},
		{"task phrase only", "[TASK] need a logo", model.TriggerTask},
		{"second task phrase", "[HIRING] video editor for YouTube channel", model.TriggerTask},
		{"task overrides offer", "[FOR HIRE] [TASK] confusing double-tagged title", model.TriggerTask},
		{"no phrase", "Looking for advice on freelancing", model.TriggerNone},
		{"case sensitive", "[for hire] lowercase tag does not match", model.TriggerNone},
		{"phrase inside word run", "prefix[TASK]suffix", model.TriggerTask},
		{"empty title", "", model.TriggerNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.title); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassify_FirstMatchWinsWithinList(t *testing.T) {
	// Both offer phrases appear; scanning stops at the first.
	c := NewClassifier([]string{"[FOR HIRE]", "HIRE"}, nil)
	if got := c.Classify("[FOR HIRE] HIRE me"); got != model.TriggerOffer {
		t.Errorf("Classify = %q, want offer", got)
	}
}

func TestClassify_EmptyLists(t *testing.T) {
	c := NewClassifier(nil, nil)
	if got := c.Classify("[TASK] anything"); got != model.TriggerNone {
		t.Errorf("Classify with empty lists = %q, want none", got)
	}
}
