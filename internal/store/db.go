package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Ticket{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveTicket inserts a classified ticket row.
func (d *Database) SaveTicket(t *Ticket) error {
	if t == nil {
		return errors.New("ticket is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(t).Error
}

// GetTicket fetches one ticket by its public identifier.
func (d *Database) GetTicket(ticketID string) (*Ticket, error) {
	var t Ticket
	err := d.gorm.Where("ticket_id = ?", strings.TrimSpace(ticketID)).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TicketFilter narrows history listings.
type TicketFilter struct {
	Category string
	Priority string
	Status   string
	BatchID  string
	Limit    int
	Offset   int
}

// ListTickets returns matching rows, newest first, plus the unpaginated total.
func (d *Database) ListTickets(filter TicketFilter) ([]Ticket, int64, error) {
	query := d.gorm.Model(&Ticket{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.BatchID != "" {
		query = query.Where("batch_id = ?", filter.BatchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("number DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var tickets []Ticket
	if err := query.Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// UpdateTicketStatus changes the status of one ticket.
func (d *Database) UpdateTicketStatus(ticketID, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	result := d.gorm.Model(&Ticket{}).
		Where("ticket_id = ?", strings.TrimSpace(ticketID)).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MaxTicketNumber returns the highest persisted ticket number, zero when the
// table is empty. Used to seed the identifier counter at startup.
func (d *Database) MaxTicketNumber() (int, error) {
	var max int64
	err := d.gorm.Model(&Ticket{}).Select("COALESCE(MAX(number), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return int(max), nil
}
