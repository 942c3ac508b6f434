// file: internals/features/exams/allocation/report.go
package allocation

// UnitResult: hasil satu unit kerja (satu grade, satu session, satu ruang).
// Batch tidak berhenti di unit gagal; operator cukup retry unit yang failed.
type UnitResult struct {
	Unit      string `json:"unit"`
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
}

type BatchReport struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Units     []UnitResult `json:"units"`
}

func NewBatchReport() *BatchReport {
	return &BatchReport{Units: []UnitResult{}}
}

// Add mencatat hasil satu unit; err nil berarti sukses.
func (r *BatchReport) Add(unit string, err error) {
	r.Total++
	if err == nil {
		r.Succeeded++
		r.Units = append(r.Units, UnitResult{Unit: unit, Success: true})
		return
	}
	r.Failed++
	code := ErrorCode(err)
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	r.Units = append(r.Units, UnitResult{
		Unit:      unit,
		ErrorCode: code,
		Message:   err.Error(),
	})
}

func (r *BatchReport) AllFailed() bool {
	return r.Total > 0 && r.Failed == r.Total
}
