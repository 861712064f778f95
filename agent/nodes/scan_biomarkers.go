package crewnode

import (
	"github.com/pattarin/bloodlens/agent/biomarker"
)

// ScanBiomarkers classifies the known markers once so composers and the
// assembled result share one set of readings. Finding nothing is normal.
func ScanBiomarkers(in *GraphState, table biomarker.Table) (*GraphState, error) {
	in.Readings = biomarker.Find(in.ReportText, table)
	return in, nil
}
