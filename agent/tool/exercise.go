package tool

import (
	"strings"

	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
)

const exerciseFallback = "No specific exercise adjustments needed based on provided metrics. " +
	"Continue a balanced mix of cardio and strength training."

// ComposeExercise derives an exercise plan from classified readings. Checks
// run in fixed order, cholesterol before hemoglobin; with no triggered
// condition the fixed balanced-routine line is returned.
func ComposeExercise(readings []biomarker.Reading) string {
	plan := make([]string, 0, 2)

	if hasClassification(readings, "Cholesterol", biomarker.Above) {
		plan = append(plan, "High cholesterol detected: incorporate 30 minutes of moderate cardio "+
			"(e.g., brisk walking) 5 days/week.")
	}
	if hasClassification(readings, "Hemoglobin", biomarker.Below) {
		plan = append(plan, "Low hemoglobin detected: start with light-intensity exercises like yoga "+
			"or pilates 3 days/week, gradually increasing intensity.")
	}

	if len(plan) == 0 {
		return exerciseFallback
	}
	return strings.Join(plan, "\n\n")
}

func hasClassification(readings []biomarker.Reading, name string, class biomarker.Classification) bool {
	for _, r := range readings {
		if r.Name == name && r.Classification == class {
			return true
		}
	}
	return false
}

type ExerciseOutput struct {
	Plan     string              `json:"plan"`
	Readings []biomarker.Reading `json:"readings,omitempty"`
}

func (c *Catalog) executeExercise(req contractx.ToolRequest) contractx.ToolResult {
	reportText, err := stringArg(req.Args, "report_text")
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}

	readings := biomarker.Find(reportText, c.table)
	return contractx.ToolResult{
		Tool: req.Tool,
		Result: ExerciseOutput{
			Plan:     ComposeExercise(readings),
			Readings: readings,
		},
	}
}
