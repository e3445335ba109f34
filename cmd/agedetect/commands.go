package main

import (
	"log"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/aashish24/bayesian-age-detection/agedetect"
)

var (
	nrFolds     int
	numClasses  int
	divisor     float64
	modelPath   string
	outputPath  string
	exactScores bool
)

func AllCommands() *commander.Command {
	return &commander.Command{
		UsageLine: os.Args[0],
		Subcommands: []*commander.Command{
			CvCmd(),
			TrainCmd(),
			PredictCmd(),
		},
		Flag: *flag.NewFlagSet("agedetect", flag.ExitOnError),
	}
}

func CvCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       cvCommand,
		UsageLine: "cv [options] <x_path> <y_path>",
		Short:     "cross-validated age bracket prediction",
		Long: `
runs stratified n-fold cross validation over a labelled follow dataset

	$ ./agedetect cv [-nfolds <n>] [-divisor <d>] [-exact] [-o <preds file>] <x_path> <y_path>

`,
		Flag: *flag.NewFlagSet("cv", flag.ExitOnError),
	}
	cmd.Flag.IntVar(&nrFolds, "nfolds", 3, "number of stratified folds")
	cmd.Flag.Float64Var(&divisor, "divisor", agedetect.DefaultSmoothingDivisor, "smoothing strength divisor")
	cmd.Flag.BoolVar(&exactScores, "exact", false, "score with the exact Bernoulli likelihood")
	cmd.Flag.StringVar(&outputPath, "o", "", "write held-out predictions to this file")
	return cmd
}

func cvCommand(cmd *commander.Command, args []string) error {
	if len(args) != 2 {
		log.Fatalf("usage: %s", cmd.UsageLine)
	}

	prob := readProblemOrExit(args[0], args[1])
	numClass := maxLabel(prob.Y)
	log.Printf("n_classes: %d", numClass)

	detector, err := agedetect.NewAgeDetector(numClass, buildParameter())
	if err != nil {
		log.Fatalf("Error while constructing detector, err=%v", err)
	}

	predictions, err := agedetect.RunCVPred(prob, detector, nrFolds)
	if err != nil {
		log.Fatalf("Error while cross validating, err=%v", err)
	}

	log.Printf("Cross Validation Accuracy = %g%%", 100.0*agedetect.Accuracy(prob.Y, predictions))

	if outputPath != "" {
		writePredictionsOrExit(outputPath, predictions)
	}
	return nil
}

func TrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       trainCommand,
		UsageLine: "train [options] -m <model file> <x_path> <y_path>",
		Short:     "train an age bracket model",
		Long: `
fits the smoothed follow-probability table and saves it

	$ ./agedetect train -m <model file> [-nclasses <k>] [-divisor <d>] [-exact] <x_path> <y_path>

`,
		Flag: *flag.NewFlagSet("train", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&modelPath, "m", "", "model output file")
	cmd.Flag.IntVar(&numClasses, "nclasses", 0, "number of age brackets; 0 = infer from labels")
	cmd.Flag.Float64Var(&divisor, "divisor", agedetect.DefaultSmoothingDivisor, "smoothing strength divisor")
	cmd.Flag.BoolVar(&exactScores, "exact", false, "score with the exact Bernoulli likelihood")
	return cmd
}

func trainCommand(cmd *commander.Command, args []string) error {
	if len(args) != 2 || modelPath == "" {
		log.Fatalf("usage: %s", cmd.UsageLine)
	}

	prob := readProblemOrExit(args[0], args[1])
	numClass := numClasses
	if numClass == 0 {
		numClass = maxLabel(prob.Y)
	}
	log.Printf("n_classes: %d", numClass)

	detector, err := agedetect.NewAgeDetector(numClass, buildParameter())
	if err != nil {
		log.Fatalf("Error while constructing detector, err=%v", err)
	}
	if err := detector.Fit(prob); err != nil {
		log.Fatalf("Error while fitting, err=%v", err)
	}

	f, err := os.Create(modelPath)
	if err != nil {
		log.Fatalf("Error while creating model file %s, err=%v", modelPath, err)
	}
	defer f.Close()

	if err := agedetect.SaveModel(f, detector.Model()); err != nil {
		log.Fatalf("Error while saving model, err=%v", err)
	}
	log.Printf("model saved to %s", modelPath)
	return nil
}

func PredictCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       predictCommand,
		UsageLine: "predict [options] -m <model file> <x_path>",
		Short:     "predict age brackets with a trained model",
		Long: `
classifies unlabelled follow rows against a saved model

	$ ./agedetect predict -m <model file> [-o <preds file>] <x_path>

`,
		Flag: *flag.NewFlagSet("predict", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&modelPath, "m", "", "model input file")
	cmd.Flag.StringVar(&outputPath, "o", "", "predictions output file; default stdout")
	return cmd
}

func predictCommand(cmd *commander.Command, args []string) error {
	if len(args) != 1 || modelPath == "" {
		log.Fatalf("usage: %s", cmd.UsageLine)
	}

	mf, err := os.Open(modelPath)
	if err != nil {
		log.Fatalf("Error while opening model file %s, err=%v", modelPath, err)
	}
	defer mf.Close()

	model, err := agedetect.LoadModel(mf)
	if err != nil {
		log.Fatalf("Error while loading model, err=%v", err)
	}

	xf, err := os.Open(args[0])
	if err != nil {
		log.Fatalf("Error while opening file %s, err=%v", args[0], err)
	}
	defer xf.Close()

	x, _, err := agedetect.ReadFeatures(xf)
	if err != nil {
		log.Fatalf("Error while reading features, err=%v", err)
	}

	predictions, err := agedetect.Predict(model, x)
	if err != nil {
		log.Fatalf("Error while predicting, err=%v", err)
	}

	if outputPath == "" {
		if err := agedetect.WritePredictions(os.Stdout, predictions); err != nil {
			log.Fatalf("Error while writing predictions, err=%v", err)
		}
		return nil
	}
	writePredictionsOrExit(outputPath, predictions)
	return nil
}

func buildParameter() *agedetect.Parameter {
	mode := agedetect.SparseApprox
	if exactScores {
		mode = agedetect.ExactBernoulli
	}
	return agedetect.NewParameter(mode, divisor, agedetect.DefaultLaplaceTerm)
}

func readProblemOrExit(xPath string, yPath string) *agedetect.Problem {
	xf, err := os.Open(xPath)
	if err != nil {
		log.Fatalf("Error while opening file %s, err=%v", xPath, err)
	}
	defer xf.Close()

	yf, err := os.Open(yPath)
	if err != nil {
		log.Fatalf("Error while opening file %s, err=%v", yPath, err)
	}
	defer yf.Close()

	prob, err := agedetect.ReadProblem(xf, yf)
	if err != nil {
		log.Fatalf("Error while reading problem, err=%v", err)
	}
	return prob
}

func writePredictionsOrExit(path string, predictions []int) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Error while creating predictions file %s, err=%v", path, err)
	}
	defer f.Close()

	if err := agedetect.WritePredictions(f, predictions); err != nil {
		log.Fatalf("Error while writing predictions, err=%v", err)
	}
}

func maxLabel(y []int) int {
	m := 0
	for _, label := range y {
		if label > m {
			m = label
		}
	}
	return m
}
