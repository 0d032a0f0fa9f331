package domain

import "strings"

// stageRule maps latest-action phrases to a stage.
type stageRule struct {
	stage   Stage
	phrases []string
}

// stageRules are checked in order; the first rule with a phrase contained
// in the lowercased action text wins.
var stageRules = []stageRule{
	{StageEnacted, []string{"became public law", "became private law", "signed by president"}},
	{StageVetoed, []string{"vetoed", "pocket veto"}},
	{StageFailed, []string{"failed of passage", "on passage failed", "motion to proceed rejected"}},
	{StageToPresident, []string{"presented to president"}},
	{StageResolvingDifferences, []string{"conference", "resolving differences", "message on senate action sent to the house", "message on house action received in senate"}},
	{StagePassedSenate, []string{"passed senate", "passed/agreed to in senate"}},
	{StagePassedHouse, []string{"passed house", "passed/agreed to in house", "on passage passed", "received in the senate"}},
	{StageReported, []string{"ordered to be reported", "reported by", "reported to", "placed on", "calendar"}},
	{StageInCommittee, []string{"subcommittee", "hearings held", "markup", "committee consideration"}},
	{StageIntroduced, []string{"referred to", "introduced", "sponsor introductory remarks"}},
}

// terminalPhrases mark a bill whose lifecycle is over. Procedural motions
// ("motion to table rejected", "amendment failed") do not end a bill.
var terminalPhrases = []string{
	"became public law",
	"became private law",
	"signed by president",
	"vetoed",
	"pocket veto",
	"failed of passage",
	"on passage failed",
	"motion to proceed rejected",
	"motion to proceed withdrawn",
	"cloture motion rejected",
}

// InferStage returns the lifecycle stage implied by an action text.
// Text that matches no rule is treated as introduced.
func InferStage(actionText string) Stage {
	text := strings.ToLower(actionText)
	for _, rule := range stageRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(text, phrase) {
				return rule.stage
			}
		}
	}
	return StageIntroduced
}

// IsActiveAction reports whether a bill with this latest action can still move.
func IsActiveAction(actionText string) bool {
	text := strings.ToLower(actionText)
	for _, phrase := range terminalPhrases {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	return true
}
