package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"ticket-triage/backend/internal/extract"
	"ticket-triage/backend/internal/model"
	"ticket-triage/backend/internal/text"
	"ticket-triage/backend/internal/ticket"
)

// Description length bounds enforced before inference.
const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000
)

// ValidationError reports input rejected before inference was attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid description: " + e.Reason
}

// Pipeline is the caller-owned inference handle: two loaded bundles plus the
// identifier counter. Construct once at startup; the loaded artifacts are
// read-only afterwards, so concurrent Process calls need no locking.
type Pipeline struct {
	category *model.Bundle
	priority *model.Bundle
	ids      *ticket.IDGenerator
}

// New wraps already-loaded bundles, primarily for training-in-memory callers
// and tests.
func New(category, priority *model.Bundle) *Pipeline {
	return &Pipeline{
		category: category,
		priority: priority,
		ids:      ticket.NewIDGenerator(),
	}
}

// Load reads both artifacts from the models directory and validates them.
func Load(modelsDir string) (*Pipeline, error) {
	category, err := model.Load(filepath.Join(modelsDir, model.CategoryFile))
	if err != nil {
		return nil, fmt.Errorf("category model: %w", err)
	}
	priority, err := model.Load(filepath.Join(modelsDir, model.PriorityFile))
	if err != nil {
		return nil, fmt.Errorf("priority model: %w", err)
	}
	return New(category, priority), nil
}

// SeedCounter advances the ticket-number counter, used to continue a
// persisted sequence after restart.
func (p *Pipeline) SeedCounter(n int) {
	p.ids.Seed(n)
}

// Categories returns the category label set in model order.
func (p *Pipeline) Categories() []string {
	return p.category.Classes()
}

// Priorities returns the priority label set in model order.
func (p *Pipeline) Priorities() []string {
	return p.priority.Classes()
}

// ModelInfo summarizes one loaded artifact for status surfaces.
type ModelInfo struct {
	Task      string    `json:"task"`
	Algorithm string    `json:"algorithm"`
	TrainedAt time.Time `json:"trained_at"`
	Samples   int       `json:"samples"`
}

// Models describes both loaded artifacts.
func (p *Pipeline) Models() []ModelInfo {
	infos := make([]ModelInfo, 0, 2)
	for _, b := range []*model.Bundle{p.category, p.priority} {
		infos = append(infos, ModelInfo{
			Task:      b.Task,
			Algorithm: b.Algorithm,
			TrainedAt: b.TrainedAt,
			Samples:   b.Samples,
		})
	}
	return infos
}

// Process runs one description through the full pipeline: validation,
// normalization, per-bundle vectorization, both predictions, entity
// extraction over the raw text, and assembly. Input that normalizes to
// nothing still yields a ticket, classified on an all-zero vector.
func (p *Pipeline) Process(description string) (ticket.Ticket, error) {
	trimmed := strings.TrimSpace(description)
	if len(trimmed) < MinDescriptionLength {
		return ticket.Ticket{}, &ValidationError{Reason: fmt.Sprintf("must be at least %d characters", MinDescriptionLength)}
	}
	if len(description) > MaxDescriptionLength {
		return ticket.Ticket{}, &ValidationError{Reason: fmt.Sprintf("cannot exceed %d characters", MaxDescriptionLength)}
	}

	cleaned := text.Normalize(description)
	if cleaned == "" {
		logrus.WithField("description_length", len(description)).
			Warn("description normalized to empty text, classifying zero vector")
	}

	category, catConf := p.category.Predict(p.category.Transform(cleaned))
	priority, priConf := p.priority.Predict(p.priority.Transform(cleaned))
	entities := extract.Extract(description)

	id, _ := p.ids.Next()
	return ticket.Assemble(id, description, cleaned, category, catConf, priority, priConf, entities), nil
}
