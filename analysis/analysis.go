package analysis

import "math"

// DataSet is the processed outcome of one training run
type DataSet interface{}

// Analyzer compresses the loss curves of one run of one experiment into a
// DataSet for comparison
type Analyzer func(run int, name string, result map[string][]float64) DataSet

// Comparator consumes the datasets of all experiments of one run
type Comparator func(run int, names []string, datasets []DataSet)

// LossSeries returns the raw loss curve stored under the key
func LossSeries(key string) Analyzer {
	return func(run int, name string, result map[string][]float64) DataSet {
		return append([]float64(nil), result[key]...)
	}
}

// SmoothedLossSeries returns the loss curve averaged over a trailing window
func SmoothedLossSeries(key string, window int) Analyzer {
	if window < 1 {
		window = 1
	}
	return func(run int, name string, result map[string][]float64) DataSet {
		losses := result[key]
		smoothed := make([]float64, len(losses))
		sum := 0.0
		for i, v := range losses {
			sum += v
			if i >= window {
				sum -= losses[i-window]
			}
			n := i + 1
			if n > window {
				n = window
			}
			smoothed[i] = sum / float64(n)
		}
		return smoothed
	}
}

// FinalLoss returns the last value of the loss curve, or NaN when the curve
// is empty
func FinalLoss(key string) Analyzer {
	return func(run int, name string, result map[string][]float64) DataSet {
		losses := result[key]
		if len(losses) == 0 {
			return math.NaN()
		}
		return losses[len(losses)-1]
	}
}
