package kv

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is the row backing one named slot when the store runs on SQL
// (Postgres in production, sqlite in tests).
type Slot struct {
	Slot      string         `gorm:"column:slot;primaryKey" json:"slot"`
	Value     datatypes.JSON `gorm:"column:value;type:json" json:"value"`
	UpdatedAt time.Time      `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Slot) TableName() string {
	return "Slots"
}

// GormStore persists slots in the Slots table, one row per slot.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var rec Slot
	if err := s.DB.WithContext(ctx).Where("slot = ?", slot).First(&rec).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(rec.Value), nil
}

func (s *GormStore) Set(ctx context.Context, slot string, value []byte) error {
	rec := Slot{Slot: slot, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updatedAt"}),
	}).Create(&rec).Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
