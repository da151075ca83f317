// Package crisis flags messages that indicate acute self-harm risk.
//
// Detection is a case-insensitive substring match against a fixed phrase
// list. It is a best-effort heuristic, not a clinical safety system: benign
// mentions of a phrase produce false positives, and paraphrased distress
// produces false negatives. The matching semantics are a deliberate product
// decision; do not change them without flagging the behavioral difference.
package crisis

import "strings"

// Label classifies an incoming message.
type Label string

const (
	Normal Label = "normal"
	Crisis Label = "crisis"
)

// crisisPhrases are suicidal-ideation and self-harm indicators in Russian,
// the bot's target language.
var crisisPhrases = []string{
	"убить себя",
	"суицид",
	"покончить с собой",
	"не хочу жить",
	"хочу умереть",
	"резать вены",
	"самоубий",
	"себя убью",
	"нет смысла жить",
	"бессмысленно жить",
}

// Classify returns Crisis when the text contains any crisis phrase,
// matched anywhere in the text regardless of case. Empty input is Normal.
func Classify(text string) Label {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Normal
	}

	for _, phrase := range crisisPhrases {
		if strings.Contains(normalized, phrase) {
			return Crisis
		}
	}
	return Normal
}
