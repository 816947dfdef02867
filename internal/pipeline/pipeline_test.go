package pipeline

import (
	"errors"
	"sync"
	"testing"

	"ticket-triage/backend/internal/model"
	"ticket-triage/backend/internal/ticket"
	"ticket-triage/backend/internal/train"
)

var (
	trainOnce     sync.Once
	trainedModels *train.Artifacts
	trainErr      error
)

func trainedPipeline(t *testing.T) *Pipeline {
	t.Helper()
	trainOnce.Do(func() {
		trainedModels, trainErr = train.Train(train.DefaultCorpus())
	})
	if trainErr != nil {
		t.Fatalf("train: %v", trainErr)
	}
	return New(trainedModels.Category, trainedModels.Priority)
}

func TestProcessLoginScenario(t *testing.T) {
	p := trainedPipeline(t)
	tk, err := p.Process("I am unable to login to the company portal. I get error code 0x80070005 after resetting my password on my laptop. This is urgent!")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if tk.Category != "Access" {
		t.Errorf("category %q, want Access", tk.Category)
	}
	if tk.Priority != "High" {
		t.Errorf("priority %q, want High", tk.Priority)
	}
	if !containsString(tk.Entities.ErrorCodes, "0x80070005") {
		t.Errorf("error_codes %v missing 0x80070005", tk.Entities.ErrorCodes)
	}
	if !containsString(tk.Entities.Devices, "laptop") {
		t.Errorf("devices %v missing laptop", tk.Entities.Devices)
	}
	if tk.Status != ticket.DefaultStatus {
		t.Errorf("status %q, want %q", tk.Status, ticket.DefaultStatus)
	}
}

func TestProcessNetworkScenario(t *testing.T) {
	p := trainedPipeline(t)
	tk, err := p.Process("Cannot connect to WiFi, error says network unreachable")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if tk.Category != "Network" {
		t.Errorf("category %q, want Network", tk.Category)
	}
}

func TestProcessConfidenceBounds(t *testing.T) {
	p := trainedPipeline(t)
	inputs := []string{
		"Printer not printing from my computer",
		"Disk space critically low on C drive",
		"Something entirely unrelated to anything trained",
	}
	for _, in := range inputs {
		tk, err := p.Process(in)
		if err != nil {
			t.Fatalf("process %q: %v", in, err)
		}
		for _, conf := range []float64{tk.CategoryConfidence, tk.PriorityConfidence, tk.AvgConfidence} {
			if conf < 0 || conf > 1 {
				t.Errorf("confidence %v outside [0,1] for %q", conf, in)
			}
		}
		if tk.AvgConfidence != (tk.CategoryConfidence+tk.PriorityConfidence)/2 {
			t.Errorf("avg_confidence %v not the mean for %q", tk.AvgConfidence, in)
		}
	}
}

func TestProcessValidation(t *testing.T) {
	p := trainedPipeline(t)

	var verr *ValidationError
	if _, err := p.Process("too short"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for 9-character input, got %v", err)
	}

	long := make([]byte, MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := p.Process(string(long)); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for oversized input, got %v", err)
	}
}

func TestProcessDegenerateInput(t *testing.T) {
	p := trainedPipeline(t)
	tk, err := p.Process("the and of to a an the and")
	if err != nil {
		t.Fatalf("degenerate input must still produce a ticket, got %v", err)
	}
	if tk.CleanedDescription != "" {
		t.Errorf("cleaned description %q, want empty", tk.CleanedDescription)
	}
	if tk.Category == "" || tk.Priority == "" {
		t.Errorf("degenerate ticket missing predictions: %+v", tk)
	}
}

func TestProcessTicketIDsIncrease(t *testing.T) {
	p := trainedPipeline(t)
	first, err := p.Process("WiFi connection keeps dropping intermittently")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	second, err := p.Process("Monitor display showing black screen")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if first.TicketID == second.TicketID {
		t.Fatalf("ticket ids must differ, both %q", first.TicketID)
	}
	if first.TicketID != "INC-1001" || second.TicketID != "INC-1002" {
		t.Fatalf("ids %q, %q", first.TicketID, second.TicketID)
	}
}

func TestLoadMissingArtifacts(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, model.ErrMissing) {
		t.Fatalf("err = %v, want model.ErrMissing", err)
	}
	if errors.Is(err, model.ErrCorrupt) {
		t.Fatal("missing artifacts must be distinguishable from corrupt ones")
	}
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
