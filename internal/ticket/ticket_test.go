package ticket

import (
	"strings"
	"testing"
	"time"

	"ticket-triage/backend/internal/extract"
)

func TestAssembleAverageConfidence(t *testing.T) {
	tests := []struct {
		cat, pri float64
	}{
		{0.9234, 0.8756},
		{1, 1},
		{0, 0},
		{0.5, 0.7},
	}
	for _, tc := range tests {
		tk := Assemble("INC-1001", "raw text here", "raw text", "Access", tc.cat, "High", tc.pri, extract.Extract(""))
		want := (tk.CategoryConfidence + tk.PriorityConfidence) / 2
		if tk.AvgConfidence != want {
			t.Errorf("avg %v, want exact mean %v", tk.AvgConfidence, want)
		}
	}
}

func TestAssembleDefaults(t *testing.T) {
	tk := Assemble("INC-1001", "Printer is not printing anything.", "printer not print anything", "Hardware", 0.8, "Low", 0.6, extract.Extract(""))
	if tk.Status != DefaultStatus {
		t.Errorf("status %q, want %q", tk.Status, DefaultStatus)
	}
	if tk.TicketID != "INC-1001" {
		t.Errorf("ticket id %q", tk.TicketID)
	}
	if _, err := time.Parse(TimestampLayout, tk.CreatedAt); err != nil {
		t.Errorf("created_at %q not in layout %q: %v", tk.CreatedAt, TimestampLayout, err)
	}
	if tk.Title != "Printer is not printing anything" {
		t.Errorf("title %q", tk.Title)
	}
}

func TestTitleFromDescription(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"first sentence", "Unable to login. Tried twice already.", "Unable to login"},
		{"capitalized", "my laptop screen is flickering", "My laptop screen is flickering"},
		{"empty", "   ", "Support Ticket"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TitleFromDescription(tc.in); got != tc.want {
				t.Fatalf("TitleFromDescription(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	long := TitleFromDescription(strings.Repeat("word ", 30))
	if len(long) > maxTitleLength+3 {
		t.Fatalf("long title %q exceeds limit", long)
	}
	if !strings.HasSuffix(long, "...") {
		t.Fatalf("long title %q missing ellipsis", long)
	}
}

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator()
	first, n1 := gen.Next()
	second, n2 := gen.Next()
	if first != "INC-1001" || second != "INC-1002" {
		t.Fatalf("ids %q, %q", first, second)
	}
	if n2 != n1+1 {
		t.Fatalf("numbers %d, %d not sequential", n1, n2)
	}

	gen.Seed(4200)
	id, _ := gen.Next()
	if id != "INC-4201" {
		t.Fatalf("seeded id %q, want INC-4201", id)
	}
	gen.Seed(10)
	id, _ = gen.Next()
	if id != "INC-4202" {
		t.Fatalf("lower seed must be ignored, got %q", id)
	}
}
