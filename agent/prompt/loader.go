package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/verifier.txt
	verifierRaw string

	//go:embed template/doctor.txt
	doctorRaw string

	//go:embed template/nutritionist.txt
	nutritionistRaw string

	//go:embed template/exercise.txt
	exerciseRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Verifier     string
	Doctor       string
	Nutritionist string
	Exercise     string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to
// call concurrently.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Verifier:     strings.TrimSpace(verifierRaw),
		Doctor:       strings.TrimSpace(doctorRaw),
		Nutritionist: strings.TrimSpace(nutritionistRaw),
		Exercise:     strings.TrimSpace(exerciseRaw),
	}
}
