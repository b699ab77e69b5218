// qvaetrain trains a hybrid quantum-classical autoencoder on omics
// feature vectors, reporting mean squared reconstruction loss per epoch.
// With -csv it reads a consolidated table (the output of the consolidate
// tool); without it, a deterministic synthetic dataset is generated from
// -seed.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/carbocation/crcomics"
	"github.com/carbocation/crcomics/qvae"
	"github.com/montanaflynn/stats"

	_ "github.com/carbocation/crcomics/compileinfoprint"
)

func main() {
	var epochs, samples, features, qubits, qlayers, hidden int
	var seed int64
	var lr float64
	var csvPath, plotPath string
	var errHist bool

	flag.IntVar(&epochs, "epochs", 0, "Number of full passes over the dataset. Required.")
	flag.StringVar(&csvPath, "csv", "", "(Optional) Consolidated CSV to train on; synthetic data is generated when absent")
	flag.Int64Var(&seed, "seed", 1789, "Seed for synthetic data, weight initialization, and the SPSA perturbations")
	flag.IntVar(&samples, "samples", 64, "Synthetic sample count (ignored with -csv)")
	flag.IntVar(&features, "features", 8, "Feature width; a -csv file must match this width")
	flag.IntVar(&qubits, "qubits", 4, "Qubits in the variational circuit; also the latent width")
	flag.IntVar(&qlayers, "qlayers", 2, "Variational layers in the circuit")
	flag.IntVar(&hidden, "hidden", 8, "Hidden width of the decoder")
	flag.Float64Var(&lr, "lr", 0.05, "Learning rate for the SPSA updates")
	flag.StringVar(&plotPath, "plot", "", "(Optional) Write a PNG of the loss curve to this path")
	flag.BoolVar(&errHist, "errhist", false, "Print a histogram of final per-sample reconstruction error")
	flag.Parse()

	if epochs < 1 {
		flag.PrintDefaults()
		log.Fatalln("Please provide -epochs (a positive integer)")
	}

	if err := runAll(epochs, samples, features, qubits, qlayers, hidden, seed, lr, csvPath, plotPath, errHist); err != nil {
		log.Fatalln(err)
	}
}

func runAll(epochs, samples, features, qubits, qlayers, hidden int, seed int64, lr float64, csvPath, plotPath string, errHist bool) error {
	var data *qvae.Dataset

	if csvPath != "" {
		var err error
		data, err = qvae.LoadCSV(crcomics.ExpandHome(csvPath), features)
		if err != nil {
			return err
		}
		data.Standardize()
		log.Printf("Loaded %d samples x %d features from %s\n", data.Samples(), data.Features(), csvPath)
	} else {
		data = qvae.Synthetic(samples, features, seed)
		log.Printf("Generated %d synthetic samples x %d features (seed %d)\n", data.Samples(), data.Features(), seed)
	}

	circuit, err := qvae.NewStateVectorCircuit(qubits, qlayers)
	if err != nil {
		return err
	}

	model, err := qvae.NewAutoencoder(qvae.Config{
		Features: features,
		Hidden:   hidden,
		Circuit:  circuit,
	}, seed)
	if err != nil {
		return err
	}

	losses, err := qvae.Train(model, data, qvae.TrainConfig{
		Epochs:       epochs,
		LearningRate: lr,
		Seed:         seed,
	}, func(epoch int, loss float64) {
		fmt.Printf("epoch %d loss %.6f\n", epoch, loss)
	})
	if err != nil {
		return err
	}

	summarize(losses)

	if plotPath != "" {
		if err := plotLosses(plotPath, losses); err != nil {
			return err
		}
		log.Println("Loss curve written to", plotPath)
	}

	if errHist {
		if err := printErrorHistogram(model, data); err != nil {
			return err
		}
	}

	return nil
}

func summarize(losses []float64) {
	min, _ := stats.Min(losses)
	mean, _ := stats.Mean(losses)
	median, _ := stats.Median(losses)

	log.Printf("Loss over %d epochs: min %.6f, mean %.6f, median %.6f\n", len(losses), min, mean, median)
}
