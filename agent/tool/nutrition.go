package tool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
)

const nutritionFallback = "No recognizable markers found for nutrition analysis."

// ComposeNutrition turns classified readings into dietary advice, one
// paragraph per reading in table-definition order. An empty reading list
// yields the fixed fallback line.
func ComposeNutrition(readings []biomarker.Reading) string {
	if len(readings) == 0 {
		return nutritionFallback
	}

	lines := make([]string, 0, len(readings))
	for _, r := range readings {
		value := formatValue(r.Value)
		low := formatValue(r.Range.Low)
		high := formatValue(r.Range.High)

		switch r.Classification {
		case biomarker.Below:
			lines = append(lines, fmt.Sprintf(
				"Your %s (%s) is below the normal range (%s-%s).\n"+
					"Consider foods rich in iron and B12, such as lean red meat, spinach, and fortified cereals.",
				r.Name, value, low, high))
		case biomarker.Above:
			lines = append(lines, fmt.Sprintf(
				"Your %s (%s) is above the normal range (%s-%s).\n"+
					"Limit saturated fats and processed foods; focus on fiber-rich fruits, vegetables, and whole grains.",
				r.Name, value, low, high))
		default:
			lines = append(lines, fmt.Sprintf(
				"Your %s (%s) is within the normal range (%s-%s).",
				r.Name, value, low, high))
		}
	}

	return strings.Join(lines, "\n\n")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type NutritionOutput struct {
	Advice   string              `json:"advice"`
	Readings []biomarker.Reading `json:"readings,omitempty"`
}

func (c *Catalog) executeNutrition(req contractx.ToolRequest) contractx.ToolResult {
	reportText, err := stringArg(req.Args, "report_text")
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}

	readings := biomarker.Find(reportText, c.table)
	return contractx.ToolResult{
		Tool: req.Tool,
		Result: NutritionOutput{
			Advice:   ComposeNutrition(readings),
			Readings: readings,
		},
	}
}
