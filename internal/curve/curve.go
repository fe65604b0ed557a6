// Package curve computes pH/volume titration curves for a strong acid
// titrated with a strong base. The model is deliberately simple: excess
// hydronium before the equivalence point, excess hydroxide after it, and
// pH 7 exactly at equivalence.
package curve

import "math"

// Input describes one titration experiment as read from a spreadsheet.
type Input struct {
	// SampleVolume is the volume of the test solution in mL.
	SampleVolume float64
	// SampleConc is the acid concentration of the test solution in mol/L.
	SampleConc float64
	// TitrantConc is the base concentration of the measuring solution in mol/L.
	TitrantConc float64
	// TitrantVolumes are the added titrant volumes in mL, in measurement order.
	TitrantVolumes []float64
}

// Point is one computed measurement of the curve.
type Point struct {
	// Volume is the added titrant volume in mL (the x axis).
	Volume float64
	// TotalVolume is sample plus titrant volume in mL.
	TotalVolume float64
	// PH is the computed pH (the y axis).
	PH float64
	// POH is 14 - PH.
	POH float64
	// AcidMoles is the initial amount of H3O+ in mol.
	AcidMoles float64
	// BaseMoles is the added amount of OH- in mol.
	BaseMoles float64
	// HydroniumConc is c(H3O+) in mol/L; zero at and past equivalence.
	HydroniumConc float64
	// HydroxideConc is c(OH-) in mol/L; zero at and before equivalence.
	HydroxideConc float64
}

// Output is an immutable computed curve. Points preserve the measurement
// order of the input volumes. Values handed to the UI are never mutated,
// so an Output may be read concurrently with further worker activity.
type Output struct {
	Points []Point
}

// Compute evaluates the titration model for every titrant volume.
func (in Input) Compute() *Output {
	points := make([]Point, 0, len(in.TitrantVolumes))
	acid := in.SampleVolume / 1000 * in.SampleConc
	for _, v := range in.TitrantVolumes {
		base := v / 1000 * in.TitrantConc
		total := in.SampleVolume + v
		p := Point{
			Volume:      v,
			TotalVolume: total,
			AcidMoles:   acid,
			BaseMoles:   base,
		}
		switch {
		case base < acid:
			p.HydroniumConc = (acid - base) / (total / 1000)
			p.PH = -math.Log10(p.HydroniumConc)
		case base > acid:
			p.HydroxideConc = (base - acid) / (total / 1000)
			p.PH = 14 + math.Log10(p.HydroxideConc)
		default:
			p.PH = 7
		}
		p.POH = 14 - p.PH
		points = append(points, p)
	}
	return &Output{Points: points}
}

// MaxVolume returns the largest titrant volume of the curve, or zero for
// an empty curve. The diagram uses it to size the x axis.
func (o *Output) MaxVolume() float64 {
	max := 0.0
	for _, p := range o.Points {
		if p.Volume > max {
			max = p.Volume
		}
	}
	return max
}
