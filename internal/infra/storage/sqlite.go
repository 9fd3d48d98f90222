package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"ticksplit/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists one trading day's reconstructed tables. Each day
// gets its own database file, mirroring the one-file-per-day layout of
// the upstream feed; order numbers are only meaningful within a day,
// so cross-day tables would invite invalid joins.
type Storage struct {
	db   *gorm.DB
	path string
}

// Open creates or opens the result database for one trading day
// (date in YYYYMMDD form) under dir.
func Open(dir, date string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_ticksplit.db", date))

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.OrderRecord{}, &domain.TradeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Storage) Path() string {
	return s.path
}

// Close releases the underlying connection.
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ======================================================================================
// Write Operations
// ======================================================================================

// WriteOrders inserts the reconstructed order table. Records must
// already carry the (SecurityID, TickTime, BizIndex) emission order;
// insertion preserves it.
func (s *Storage) WriteOrders(records []domain.OrderRecord, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.db.CreateInBatches(records, batchSize).Error; err != nil {
		return fmt.Errorf("failed to write order records: %w", err)
	}
	return nil
}

// WriteTrades inserts the normalized trade table.
func (s *Storage) WriteTrades(records []domain.TradeRecord, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.db.CreateInBatches(records, batchSize).Error; err != nil {
		return fmt.Errorf("failed to write trade records: %w", err)
	}
	return nil
}

// ======================================================================================
// Read / Summary Operations
// ======================================================================================

// OrdersBySecurity loads one security's order records in emission order.
func (s *Storage) OrdersBySecurity(securityID string) ([]domain.OrderRecord, error) {
	var records []domain.OrderRecord
	err := s.db.
		Where("security_id = ?", securityID).
		Order("tick_time, biz_index").
		Find(&records).Error
	return records, err
}

// TradesBySecurity loads one security's trade records in emission order.
func (s *Storage) TradesBySecurity(securityID string) ([]domain.TradeRecord, error) {
	var records []domain.TradeRecord
	err := s.db.
		Where("security_id = ?", securityID).
		Order("tick_time, biz_index").
		Find(&records).Error
	return records, err
}

// Summary aggregates table counts for batch reporting.
type Summary struct {
	Orders       int64
	Trades       int64
	NewOrders    int64
	CancelOrders int64
	TakerOrders  int64 // New with is_aggressive = true
	MakerOrders  int64 // New with is_aggressive = false
}

// Summarize counts the persisted tables. IsAggressive is null exactly
// on Cancel rows, so the taker/maker split only scans New rows.
func (s *Storage) Summarize() (*Summary, error) {
	var sum Summary

	if err := s.db.Model(&domain.OrderRecord{}).Count(&sum.Orders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&domain.TradeRecord{}).Count(&sum.Trades).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&domain.OrderRecord{}).
		Where("ord_type = ?", domain.OrdTypeNew).Count(&sum.NewOrders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&domain.OrderRecord{}).
		Where("ord_type = ?", domain.OrdTypeCancel).Count(&sum.CancelOrders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&domain.OrderRecord{}).
		Where("ord_type = ? AND is_aggressive = ?", domain.OrdTypeNew, true).
		Count(&sum.TakerOrders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&domain.OrderRecord{}).
		Where("ord_type = ? AND is_aggressive = ?", domain.OrdTypeNew, false).
		Count(&sum.MakerOrders).Error; err != nil {
		return nil, err
	}

	return &sum, nil
}
