package trigger

import (
	"strings"

	"github.com/calebmills/redlead/internal/model"
)

// Classifier matches post titles against ordered offer and task phrase lists.
// Matching is a case-sensitive substring check with no tokenization: the
// phrase lists are expected to carry the exact bracket tags subreddits use
// (e.g. "[FOR HIRE]", "[TASK]").
type Classifier struct {
	offerPhrases []string
	taskPhrases  []string
}

// NewClassifier returns a classifier over the given phrase lists.
func NewClassifier(offerPhrases, taskPhrases []string) *Classifier {
	return &Classifier{
		offerPhrases: offerPhrases,
		taskPhrases:  taskPhrases,
	}
}

// Classify scans the offer phrases in order, then the task phrases in order.
// A task match overwrites a prior offer match, so task takes precedence when
// a title carries both tags. Returns model.TriggerNone when nothing matches.
func (c *Classifier) Classify(title string) model.Trigger {
	result := model.TriggerNone
	for _, phrase := range c.offerPhrases {
		if strings.Contains(title, phrase) {
			result = model.TriggerOffer
			break
		}
	}
	for _, phrase := range c.taskPhrases {
		if strings.Contains(title, phrase) {
			result = model.TriggerTask
			break
		}
	}
	return result
}
