package analysis

import (
	"math"

	"github.com/flowpulse/flowpulse/pkg/models"
)

// Summary holds the headline counts and rates for a set of executions.
// Rates are percentages with two decimal places, computed over the terminal
// window (total minus running); a zero denominator yields zero rates with
// the insufficient-data marker set instead of a division error.
type Summary struct {
	Total            int     `json:"total"`
	Succeeded        int     `json:"succeeded"`
	Failed           int     `json:"failed"`
	Running          int     `json:"running"`
	Waiting          int     `json:"waiting"`
	Unknown          int     `json:"unknown"`
	SuccessRate      float64 `json:"success_rate"`
	FailureRate      float64 `json:"failure_rate"`
	InsufficientData bool    `json:"insufficient_data,omitempty"`
}

// Timing holds duration statistics in milliseconds, computed only over
// executions with a defined duration. A nil Timing means no execution in the
// window had one; the fields are absent, not zero.
type Timing struct {
	AvgDurationMS float64 `json:"avg_duration_ms"`
	MinDurationMS int64   `json:"min_duration_ms"`
	MaxDurationMS int64   `json:"max_duration_ms"`
	Measured      int     `json:"measured"`
}

// KPIs aggregates counts, rates, timing, and mode distribution over a set of
// executions.
type KPIs struct {
	Summary Summary                      `json:"summary"`
	Timing  *Timing                      `json:"timing,omitempty"`
	Modes   map[models.ExecutionMode]int `json:"execution_modes"`
}

// Aggregate computes KPIs over executions. The input is expected to already
// be truncated to the caller's window.
func Aggregate(executions []models.Execution) KPIs {
	kpis := KPIs{
		Modes: make(map[models.ExecutionMode]int),
	}

	var (
		durationSum   int64
		durationCount int
		minMS, maxMS  int64
	)

	for _, exec := range executions {
		kpis.Summary.Total++
		kpis.Modes[exec.Mode]++

		switch exec.Status {
		case models.ExecutionStatusSuccess:
			kpis.Summary.Succeeded++
		case models.ExecutionStatusError:
			kpis.Summary.Failed++
		case models.ExecutionStatusRunning:
			kpis.Summary.Running++
		case models.ExecutionStatusWaiting:
			kpis.Summary.Waiting++
		default:
			kpis.Summary.Unknown++
		}

		ms, defined := exec.DurationMS()
		if !defined {
			continue
		}

		if durationCount == 0 || ms < minMS {
			minMS = ms
		}

		if durationCount == 0 || ms > maxMS {
			maxMS = ms
		}

		durationSum += ms
		durationCount++
	}

	denominator := kpis.Summary.Total - kpis.Summary.Running
	if denominator > 0 {
		kpis.Summary.SuccessRate = round2(float64(kpis.Summary.Succeeded) / float64(denominator) * 100)
		kpis.Summary.FailureRate = round2(float64(kpis.Summary.Failed) / float64(denominator) * 100)
	} else {
		kpis.Summary.InsufficientData = true
	}

	if durationCount > 0 {
		kpis.Timing = &Timing{
			AvgDurationMS: round2(float64(durationSum) / float64(durationCount)),
			MinDurationMS: minMS,
			MaxDurationMS: maxMS,
			Measured:      durationCount,
		}
	}

	return kpis
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
