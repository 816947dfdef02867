package main

import (
	"flag"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"ticket-triage/backend/internal/model"
	"ticket-triage/backend/internal/train"
)

func main() {
	var (
		modelsDir  = flag.String("models", filepath.FromSlash("models"), "Directory to write model artifacts")
		corpusPath = flag.String("data", "", "Optional CSV corpus (description,category,priority) replacing the built-in examples")
	)
	flag.Parse()

	corpus := train.DefaultCorpus()
	if *corpusPath != "" {
		loaded, err := train.LoadCorpusCSV(*corpusPath)
		if err != nil {
			logrus.Fatalf("load corpus: %v", err)
		}
		corpus = loaded
		logrus.WithFields(logrus.Fields{
			"path":     *corpusPath,
			"examples": len(corpus),
		}).Info("using external training corpus")
	}

	artifacts, err := train.Train(corpus)
	if err != nil {
		logrus.Fatalf("train models: %v", err)
	}

	if err := train.WriteArtifacts(*modelsDir, artifacts); err != nil {
		logrus.Fatalf("write artifacts: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"category_model": filepath.Join(*modelsDir, model.CategoryFile),
		"priority_model": filepath.Join(*modelsDir, model.PriorityFile),
	}).Info("model artifacts written")
}
