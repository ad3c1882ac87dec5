package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KONPEITO1205/machina/util"
)

// LossPlotter draws one loss curve per experiment and saves a plot per run
func LossPlotter(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, datasets []DataSet) {
		p := plot.New()
		p.Title.Text = "Dynamics model loss"
		p.X.Label.Text = "Update"
		p.Y.Label.Text = "Loss"
		for i := 0; i < len(names); i++ {
			losses, ok := datasets[i].([]float64)
			if !ok {
				continue
			}
			points := make(plotter.XYs, len(losses))
			for j, v := range losses {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_dm_loss.png"))
	}
}

// FinalLossPrinter prints each experiment's final loss
func FinalLossPrinter() Comparator {
	return func(run int, names []string, datasets []DataSet) {
		for i, name := range names {
			v, ok := datasets[i].(float64)
			if !ok {
				continue
			}
			fmt.Printf("Final loss: %f for experiment: %s\n", v, name)
		}
	}
}

// LossRecorder appends each experiment's curve as a JSON line under the
// record path
func LossRecorder(recordPath string) Comparator {
	if _, err := os.Stat(recordPath); err != nil {
		os.MkdirAll(recordPath, os.ModePerm)
	}
	return func(run int, names []string, datasets []DataSet) {
		for i, name := range names {
			bs, err := json.Marshal(datasets[i])
			if err != nil {
				continue
			}
			util.AppendToFile(path.Join(recordPath, name+"_losses.jsonl"), string(bs))
		}
	}
}
