package tremor

import "fmt"

// Classification labels. These strings are part of the output contract;
// downstream report tooling matches on them verbatim.
const (
	LabelNoTremor  = "No significant tremor"
	LabelRest      = "Rest Tremor (Parkinsonian)"
	LabelEssential = "Essential Tremor (Postural)"
	LabelMixed     = "Mixed Tremor"
)

// ratioEpsilon keeps the ratio finite when the essential band is empty
const ratioEpsilon = 1e-10

// Classify applies the fixed decision table to the per-band PSD powers.
// Rules are evaluated in order:
//
//  1. both powers below powerThreshold: no significant tremor
//  2. rest/essential ratio above ratioThreshold: rest tremor
//  3. ratio below 1/ratioThreshold: essential tremor
//  4. otherwise: mixed tremor
//
// The no-tremor rule runs first so that two near-zero powers never
// produce a confident band verdict from a meaningless ratio.
func Classify(powerRest, powerEssential, powerThreshold, ratioThreshold float64) Classification {
	ratio := powerRest / (powerEssential + ratioEpsilon)

	switch {
	case powerRest < powerThreshold && powerEssential < powerThreshold:
		return Classification{Label: LabelNoTremor, Confidence: "N/A", Ratio: ratio}
	case ratio > ratioThreshold:
		return Classification{
			Label:      LabelRest,
			Confidence: fmt.Sprintf("High (ratio: %.2f)", ratio),
			Ratio:      ratio,
		}
	case ratio < 1/ratioThreshold:
		return Classification{
			Label:      LabelEssential,
			Confidence: fmt.Sprintf("High (ratio: %.2f)", ratio),
			Ratio:      ratio,
		}
	default:
		return Classification{
			Label:      LabelMixed,
			Confidence: fmt.Sprintf("Moderate (ratio: %.2f)", ratio),
			Ratio:      ratio,
		}
	}
}
