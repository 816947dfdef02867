package api

import (
	"ticket-triage/backend/internal/extract"
	"ticket-triage/backend/internal/store"
	"ticket-triage/backend/internal/ticket"
)

// CreateTicketRequest is the single-description classification payload.
type CreateTicketRequest struct {
	Description string `json:"description" binding:"required"`
}

// TicketDTO is the API representation of a ticket; it matches the core
// ticket JSON contract with the status made mutable by the caller.
type TicketDTO struct {
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

// TicketsResponse is the paginated history listing.
type TicketsResponse struct {
	Items []TicketDTO `json:"items"`
	Total int64       `json:"total"`
}

// BatchResponse reports the outcome of a CSV batch classification.
type BatchResponse struct {
	BatchID  string      `json:"batch_id"`
	RowCount int         `json:"row_count"`
	Created  int         `json:"created"`
	Failed   int         `json:"failed"`
	Errors   []RowError  `json:"errors,omitempty"`
	Items    []TicketDTO `json:"items"`
}

// RowError describes one rejected batch row.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// UpdateStatusRequest changes a ticket's status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// FromTicket converts the assembled core record into the DTO.
func FromTicket(t ticket.Ticket) TicketDTO {
	return TicketDTO(t)
}

// FromModel converts a persisted row into the DTO representation.
func FromModel(t store.Ticket) TicketDTO {
	return TicketDTO{
		TicketID:           t.TicketID,
		Title:              t.Title,
		Description:        t.Description,
		CleanedDescription: t.CleanedDescription,
		Category:           t.Category,
		CategoryConfidence: t.CategoryConfidence,
		Priority:           t.Priority,
		PriorityConfidence: t.PriorityConfidence,
		AvgConfidence:      t.AvgConfidence,
		Entities:           t.Entities(),
		Status:             t.Status,
		CreatedAt:          t.CreatedAt.Format(ticket.TimestampLayout),
	}
}

// ToModel converts an assembled ticket into its persistence row.
func ToModel(t ticket.Ticket, number int, batchID string, processingMs int64) store.Ticket {
	row := store.Ticket{
		TicketID:           t.TicketID,
		Number:             number,
		Title:              t.Title,
		Description:        t.Description,
		CleanedDescription: t.CleanedDescription,
		Category:           t.Category,
		CategoryConfidence: t.CategoryConfidence,
		Priority:           t.Priority,
		PriorityConfidence: t.PriorityConfidence,
		AvgConfidence:      t.AvgConfidence,
		Status:             t.Status,
		BatchID:            batchID,
		ProcessingTimeMs:   processingMs,
	}
	row.SetEntities(t.Entities)
	return row
}
