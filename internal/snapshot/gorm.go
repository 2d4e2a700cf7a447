package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/cesarmodas/storefront-cart/internal/cart"
	"github.com/cesarmodas/storefront-cart/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB mirrors snapshots to a cart_snapshots row per session via GORM.
type DB struct {
	conn *gorm.DB
}

// NewDB builds a database snapshot store and ensures its table exists.
func NewDB(conn *gorm.DB) (*DB, error) {
	if conn == nil {
		return nil, fmt.Errorf("gorm connection required")
	}
	if err := conn.AutoMigrate(&models.CartSnapshot{}); err != nil {
		return nil, fmt.Errorf("migrating cart_snapshots: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (d *DB) Load(ctx context.Context, key string) ([]cart.LineItem, error) {
	var row models.CartSnapshot
	err := d.conn.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cart snapshot: %w", err)
	}
	return decode([]byte(row.Payload))
}

func (d *DB) Save(ctx context.Context, key string, items []cart.LineItem) error {
	payload, err := encode(items)
	if err != nil {
		return err
	}

	row := models.CartSnapshot{Key: key, Payload: string(payload)}
	err = d.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing cart snapshot: %w", err)
	}
	return nil
}
