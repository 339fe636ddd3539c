package gateway

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuditEntry indexes one built or simulated instruction so operators can
// answer "what did the backend ask us to assemble" without trawling logs.
type AuditEntry struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	Operation string    `gorm:"index"`
	Memo      string
	Amount    uint64
	Status    string
	Code      uint32
	Data      string // base64 instruction payload, empty on rejects
}

// Audit wraps the SQL index of gateway activity.
type Audit struct {
	db *gorm.DB
}

// OpenAudit opens the sqlite audit index at path and migrates the schema.
func OpenAudit(path string) (*Audit, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&AuditEntry{}); err != nil {
		return nil, err
	}
	return &Audit{db: db}, nil
}

// Record writes one audit row. Failures are returned, not fatal; the
// caller decides whether audit loss should fail the request.
func (a *Audit) Record(entry AuditEntry) error {
	if a == nil || a.db == nil {
		return nil
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return a.db.Create(&entry).Error
}

// recordAudit indexes one entry; audit loss is logged, never fatal to
// the request, and a nil audit disables the index entirely.
func (s *Server) recordAudit(entry AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(entry); err != nil {
		s.log.Warn("audit record failed", "error", err)
	}
}

// Recent returns the newest limit entries, newest first.
func (a *Audit) Recent(limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []AuditEntry
	err := a.db.Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}
