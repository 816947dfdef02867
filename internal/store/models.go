package store

import (
	"encoding/json"
	"strings"
	"time"

	"ticket-triage/backend/internal/extract"
)

// Ticket persists one classified support ticket for history and export.
type Ticket struct {
	ID                 uint   `gorm:"primaryKey"`
	TicketID           string `gorm:"size:32;uniqueIndex"`
	Number             int    `gorm:"index"`
	Title              string `gorm:"size:128"`
	Description        string `gorm:"type:text"`
	CleanedDescription string `gorm:"type:text"`
	Category           string `gorm:"size:32;index"`
	CategoryConfidence float64
	Priority           string `gorm:"size:16;index"`
	PriorityConfidence float64
	AvgConfidence      float64
	EntitiesJSON       string `gorm:"type:text"`
	Status             string `gorm:"size:16;index"`
	BatchID            string `gorm:"size:64;index"`
	ProcessingTimeMs   int64
	CreatedAt          time.Time `gorm:"autoCreateTime"`
}

// SetEntities stores the extracted entities as JSON.
func (t *Ticket) SetEntities(e extract.Entities) {
	payload, _ := json.Marshal(e)
	t.EntitiesJSON = string(payload)
}

// Entities returns the decoded entity lists. Rows written before an entity
// category existed decode to empty lists.
func (t *Ticket) Entities() extract.Entities {
	e := extract.Empty()
	if strings.TrimSpace(t.EntitiesJSON) == "" {
		return e
	}
	_ = json.Unmarshal([]byte(t.EntitiesJSON), &e)
	return e
}
