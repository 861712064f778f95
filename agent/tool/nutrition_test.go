package tool

import (
	"strings"
	"testing"

	"github.com/pattarin/bloodlens/agent/biomarker"
)

func TestComposeNutritionEmptyReadingsFallback(t *testing.T) {
	t.Parallel()

	got := ComposeNutrition(nil)
	if got != "No recognizable markers found for nutrition analysis." {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestComposeNutritionBelowRange(t *testing.T) {
	t.Parallel()

	got := ComposeNutrition(biomarker.Find("Hemoglobin: 12.0", biomarker.DefaultTable()))

	if !strings.Contains(got, "Your Hemoglobin (12) is below the normal range (13.5-17.5).") {
		t.Fatalf("missing traceable marker line in %q", got)
	}
	if !strings.Contains(got, "iron and B12") {
		t.Fatalf("missing deficiency advice in %q", got)
	}
}

func TestComposeNutritionAboveRange(t *testing.T) {
	t.Parallel()

	got := ComposeNutrition(biomarker.Find("Cholesterol: 210", biomarker.DefaultTable()))

	if !strings.Contains(got, "Your Cholesterol (210) is above the normal range (125-200).") {
		t.Fatalf("missing traceable marker line in %q", got)
	}
	if !strings.Contains(got, "saturated fats") {
		t.Fatalf("missing reduction advice in %q", got)
	}
}

func TestComposeNutritionWithinRange(t *testing.T) {
	t.Parallel()

	got := ComposeNutrition(biomarker.Find("Cholesterol: 180", biomarker.DefaultTable()))
	if got != "Your Cholesterol (180) is within the normal range (125-200)." {
		t.Fatalf("unexpected within line: %q", got)
	}
}

func TestComposeNutritionJoinsWithBlankLines(t *testing.T) {
	t.Parallel()

	readings := biomarker.Find("Hemoglobin: 14.0\nCholesterol: 180", biomarker.DefaultTable())
	got := ComposeNutrition(readings)

	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 blank-line separated paragraphs, got %d: %q", len(parts), got)
	}
	// Table-definition order: hemoglobin first.
	if !strings.HasPrefix(parts[0], "Your Hemoglobin") {
		t.Fatalf("expected hemoglobin paragraph first, got %q", parts[0])
	}
}

func TestComposeNutritionIsIdempotent(t *testing.T) {
	t.Parallel()

	readings := biomarker.Find("Hemoglobin: 12.0, Cholesterol: 250", biomarker.DefaultTable())
	if ComposeNutrition(readings) != ComposeNutrition(readings) {
		t.Fatal("expected identical output for identical input")
	}
}
