// Package journal persists chat lines and gameplay events seen on the
// socket so a session can be audited after it ends.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ChatRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Session    string `gorm:"index;not null"`
	EntityType string `gorm:"not null"`
	Sender     string
	Message    string
	CreatedAt  time.Time
}

type GameEventRecord struct {
	ID              uint   `gorm:"primaryKey"`
	Session         string `gorm:"index;not null"`
	GameID          string `gorm:"index"`
	Nickname        string
	EventType       string
	Score           int32
	Cumulative      int32
	MillisRemaining int32
	CreatedAt       time.Time
}

type Repository interface {
	SaveChat(ctx context.Context, rec *ChatRecord) error
	SaveGameEvent(ctx context.Context, rec *GameEventRecord) error
	// ListChat returns the newest limit lines of a session, oldest first.
	ListChat(ctx context.Context, session string, limit int) ([]ChatRecord, error)
	Close() error
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Open connects to Postgres through the pgx stdlib driver and migrates the
// journal tables.
func Open(dsn string) (*GormRepository, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	sqlDB := stdlib.OpenDB(*cfg)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.AutoMigrate(&ChatRecord{}, &GameEventRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return NewGormRepository(db), nil
}

func (r *GormRepository) SaveChat(ctx context.Context, rec *ChatRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *GormRepository) SaveGameEvent(ctx context.Context, rec *GameEventRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *GormRepository) ListChat(ctx context.Context, session string, limit int) ([]ChatRecord, error) {
	var recs []ChatRecord
	err := r.db.WithContext(ctx).
		Where("session = ?", session).
		Order("id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
