package ticket

import (
	"strings"
	"time"

	"ticket-triage/backend/internal/extract"
)

const (
	// DefaultStatus is the fixed status every new ticket starts with.
	DefaultStatus = "Open"
	// TimestampLayout is the human-readable creation timestamp format.
	TimestampLayout = "2006-01-02 15:04:05"

	maxTitleLength = 50
)

// Ticket is the structured record produced by one inference call. It is the
// external JSON contract; never mutated after assembly by the core.
type Ticket struct {
	TicketID           string           `json:"ticket_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	CleanedDescription string           `json:"cleaned_description"`
	Category           string           `json:"category"`
	CategoryConfidence float64          `json:"category_confidence"`
	Priority           string           `json:"priority"`
	PriorityConfidence float64          `json:"priority_confidence"`
	AvgConfidence      float64          `json:"avg_confidence"`
	Entities           extract.Entities `json:"entities"`
	Status             string           `json:"status"`
	CreatedAt          string           `json:"created_at"`
}

// Assemble combines pipeline outputs into a Ticket. Confidences are rounded
// to four decimals; the average is the exact arithmetic mean of the stored
// pair. The creation timestamp is taken here, at assembly time.
func Assemble(id, raw, cleaned, category string, catConf float64, priority string, priConf float64, ents extract.Entities) Ticket {
	t := Ticket{
		TicketID:           id,
		Title:              TitleFromDescription(raw),
		Description:        raw,
		CleanedDescription: cleaned,
		Category:           category,
		CategoryConfidence: round4(catConf),
		Priority:           priority,
		PriorityConfidence: round4(priConf),
		Entities:           ents,
		Status:             DefaultStatus,
		CreatedAt:          time.Now().Format(TimestampLayout),
	}
	t.AvgConfidence = (t.CategoryConfidence + t.PriorityConfidence) / 2
	return t
}

// TitleFromDescription derives a short title from the first sentence of the
// description, truncated at a word boundary.
func TitleFromDescription(description string) string {
	title := strings.TrimSpace(description)
	if idx := strings.IndexByte(title, '.'); idx >= 0 {
		title = title[:idx]
	}
	if len(title) > maxTitleLength {
		cut := title[:maxTitleLength]
		if sp := strings.LastIndexByte(cut, ' '); sp > 0 {
			cut = cut[:sp]
		}
		title = cut + "..."
	}
	if title == "" {
		return "Support Ticket"
	}
	return strings.ToUpper(title[:1]) + title[1:]
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}
