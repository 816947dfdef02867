package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ticket-triage/backend/internal/model"
	"ticket-triage/backend/internal/pipeline"
	"ticket-triage/backend/internal/store"
	"ticket-triage/backend/internal/ticket"
	"ticket-triage/backend/internal/util"
)

const batchMaxRows = 1000

var allowedStatuses = map[string]struct{}{
	"Open":        {},
	"In Progress": {},
	"Resolved":    {},
	"Closed":      {},
}

func (s *Server) handleCreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description is required"})
		return
	}

	timer := util.StartTimer()
	tk, err := s.pipe.Process(req.Description)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}

	row := ToModel(tk, ticketNumber(tk.TicketID), "", timer.ElapsedMs())
	if err := s.db.SaveTicket(&row); err != nil {
		logrus.WithError(err).WithField("ticket_id", tk.TicketID).Error("persist ticket")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist ticket"})
		return
	}

	dto := FromTicket(tk)
	s.notifier.Broadcast(TicketEvent{Type: "ticket", Ticket: &dto})
	logrus.WithFields(logrus.Fields{
		"ticket_id":   tk.TicketID,
		"category":    tk.Category,
		"priority":    tk.Priority,
		"duration_ms": timer.ElapsedMs(),
	}).Info("ticket created")

	c.JSON(http.StatusCreated, dto)
}

func (s *Server) handleBatchUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file required in field 'file'"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
		return
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid csv: %v", err)})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv is empty"})
		return
	}

	descCol := 0
	rows := records
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "description") {
			descCol = i
			rows = records[1:]
			break
		}
	}
	if len(rows) > batchMaxRows {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("batch exceeds %d rows", batchMaxRows)})
		return
	}

	batchID := uuid.NewString()
	resp := BatchResponse{BatchID: batchID, RowCount: len(rows), Items: []TicketDTO{}}
	for i, record := range rows {
		if descCol >= len(record) {
			resp.Failed++
			resp.Errors = append(resp.Errors, RowError{Row: i + 1, Reason: "missing description column"})
			continue
		}
		timer := util.StartTimer()
		tk, err := s.pipe.Process(record[descCol])
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, RowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		row := ToModel(tk, ticketNumber(tk.TicketID), batchID, timer.ElapsedMs())
		if err := s.db.SaveTicket(&row); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, RowError{Row: i + 1, Reason: "persist failed"})
			continue
		}
		resp.Created++
		resp.Items = append(resp.Items, FromTicket(tk))
	}

	s.notifier.Broadcast(TicketEvent{
		Type:    "batch",
		BatchID: batchID,
		Created: resp.Created,
		Failed:  resp.Failed,
		Message: fileHeader.Filename,
	})
	logrus.WithFields(logrus.Fields{
		"batch_id": batchID,
		"rows":     resp.RowCount,
		"created":  resp.Created,
		"failed":   resp.Failed,
	}).Info("batch classified")

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListTickets(c *gin.Context) {
	filter := listFilter(c)
	tickets, total, err := s.db.ListTickets(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	items := make([]TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, FromModel(t))
	}
	c.JSON(http.StatusOK, TicketsResponse{Items: items, Total: total})
}

func (s *Server) handleGetTicket(c *gin.Context) {
	row, err := s.db.GetTicket(c.Param("ticket_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ticket"})
		return
	}
	c.JSON(http.StatusOK, FromModel(*row))
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if _, ok := allowedStatuses[req.Status]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", req.Status)})
		return
	}
	if err := s.db.UpdateTicketStatus(c.Param("ticket_id"), req.Status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket_id": c.Param("ticket_id"), "status": req.Status})
}

func (s *Server) handleExport(c *gin.Context) {
	tickets, _, err := s.db.ListTickets(listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export tickets"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="tickets.csv"`)
	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{
		"ticket_id", "title", "category", "category_confidence",
		"priority", "priority_confidence", "avg_confidence", "status", "created_at",
	})
	for _, t := range tickets {
		_ = writer.Write([]string{
			t.TicketID,
			t.Title,
			t.Category,
			strconv.FormatFloat(t.CategoryConfidence, 'f', 4, 64),
			t.Priority,
			strconv.FormatFloat(t.PriorityConfidence, 'f', 4, 64),
			strconv.FormatFloat(t.AvgConfidence, 'f', 4, 64),
			t.Status,
			t.CreatedAt.Format(ticket.TimestampLayout),
		})
	}
	writer.Flush()
}

// respondPipelineError maps the error taxonomy onto HTTP statuses:
// validation -> 400, missing artifact -> 503, corrupt artifact -> 500.
func (s *Server) respondPipelineError(c *gin.Context, err error) {
	var verr *pipeline.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, model.ErrMissing):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrCorrupt):
		logrus.WithError(err).Error("model artifact corrupt")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).Error("classify ticket")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "classification failed"})
	}
}

func listFilter(c *gin.Context) (filter store.TicketFilter) {
	filter.Category = strings.TrimSpace(c.Query("category"))
	filter.Priority = strings.TrimSpace(c.Query("priority"))
	filter.Status = strings.TrimSpace(c.Query("status"))
	filter.BatchID = strings.TrimSpace(c.Query("batch_id"))
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "100")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v > 0 {
		filter.Offset = v
	}
	return filter
}

// ticketNumber recovers the numeric suffix from an "INC-1234" identifier.
func ticketNumber(ticketID string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(ticketID, ticket.IDPrefix+"-"))
	return n
}
