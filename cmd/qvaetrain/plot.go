package main

import (
	"bytes"
	"os"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/carbocation/crcomics/qvae"
)

func plotLosses(filename string, losses []float64) error {
	xs := make([]float64, len(losses))
	for i := range xs {
		xs[i] = float64(i + 1)
	}

	graph := chart.Chart{
		Width:  512,
		Height: 256,
		XAxis: chart.XAxis{
			Name: "epoch",
		},
		YAxis: chart.YAxis{
			Name: "MSE",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: losses,
			},
		},
	}

	// Render to a byte buffer
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return err
	}

	outFile, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer outFile.Close()

	if _, err := buffer.WriteTo(outFile); err != nil {
		return err
	}

	return nil
}

func printErrorHistogram(m *qvae.Autoencoder, data *qvae.Dataset) error {
	errs := make([]float64, 0, data.Samples())
	for _, x := range data.X {
		loss, err := m.Loss(x)
		if err != nil {
			return err
		}
		errs = append(errs, loss)
	}

	hist := histogram.Hist(10, errs)

	return histogram.Fprint(os.Stdout, hist, histogram.Linear(40))
}
