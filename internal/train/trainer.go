package train

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"ticket-triage/backend/internal/classify"
	"ticket-triage/backend/internal/feature"
	"ticket-triage/backend/internal/model"
	"ticket-triage/backend/internal/text"
	"ticket-triage/backend/internal/util"
)

// Artifacts holds the two fitted bundles produced by one training run.
type Artifacts struct {
	Category *model.Bundle
	Priority *model.Bundle
}

// Train fits the vectorizer over the normalized corpus, then both
// classifiers on the resulting vectors. Purely in-memory; use
// WriteArtifacts to persist.
func Train(corpus []Example) (*Artifacts, error) {
	if len(corpus) < 2 {
		return nil, errors.New("training corpus needs at least two examples")
	}

	timer := util.StartTimer()
	cleaned := make([]string, len(corpus))
	categories := make([]string, len(corpus))
	priorities := make([]string, len(corpus))
	for i, ex := range corpus {
		cleaned[i] = text.Normalize(ex.Description)
		if cleaned[i] == "" {
			return nil, fmt.Errorf("example %d normalizes to empty text: %q", i, ex.Description)
		}
		categories[i] = ex.Category
		priorities[i] = ex.Priority
	}

	vectorizer := feature.Fit(cleaned)
	vectors := make([][]float64, len(cleaned))
	for i, doc := range cleaned {
		vectors[i] = vectorizer.Transform(doc)
	}

	softmax, err := classify.TrainSoftmax(vectors, categories, vectorizer.Dims)
	if err != nil {
		return nil, fmt.Errorf("train category model: %w", err)
	}
	svm, err := classify.TrainKernelSVM(vectors, priorities, vectorizer.Dims)
	if err != nil {
		return nil, fmt.Errorf("train priority model: %w", err)
	}

	now := time.Now().UTC()
	artifacts := &Artifacts{
		Category: &model.Bundle{
			Task:       "category",
			Algorithm:  model.AlgorithmSoftmax,
			TrainedAt:  now,
			Samples:    len(corpus),
			Vectorizer: vectorizer,
			Softmax:    softmax,
		},
		Priority: &model.Bundle{
			Task:       "priority",
			Algorithm:  model.AlgorithmSVMRBF,
			TrainedAt:  now,
			Samples:    len(corpus),
			Vectorizer: vectorizer,
			SVM:        svm,
		},
	}

	logrus.WithFields(logrus.Fields{
		"samples":     len(corpus),
		"vocabulary":  len(vectorizer.Vocabulary),
		"categories":  len(softmax.Classes),
		"priorities":  len(svm.Classes),
		"duration_ms": timer.ElapsedMs(),
	}).Info("trained category and priority models")

	return artifacts, nil
}

// WriteArtifacts persists both bundles into dir under their fixed filenames.
func WriteArtifacts(dir string, a *Artifacts) error {
	if a == nil || a.Category == nil || a.Priority == nil {
		return errors.New("artifacts incomplete")
	}
	if err := model.Save(filepath.Join(dir, model.CategoryFile), a.Category); err != nil {
		return err
	}
	return model.Save(filepath.Join(dir, model.PriorityFile), a.Priority)
}
