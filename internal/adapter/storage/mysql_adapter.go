package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

// MySQLAdapter is the inventory movement journal.
type MySQLAdapter struct {
	db *sqlx.DB
}

func NewMySQLAdapter(db *sqlx.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

var _ port.JournalRepository = (*MySQLAdapter)(nil)

// MySQLDSN normalizes dsn for the journal: DATETIME columns scan into
// time.Time in UTC whatever the caller's DSN says.
func MySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// OpenMySQL connects to the journal database with a normalized DSN.
func OpenMySQL(ctx context.Context, dsn string) (*sqlx.DB, error) {
	dsn, err := MySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	return sqlx.ConnectContext(ctx, "mysql", dsn)
}

func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS inventory_movements (
			id CHAR(36) PRIMARY KEY,
			inventory_id VARCHAR(255) NOT NULL,
			product_id VARCHAR(255) NOT NULL,
			kind VARCHAR(16) NOT NULL,
			delta INT NOT NULL,
			quantity_after INT NOT NULL,
			reference VARCHAR(255) NOT NULL DEFAULT '',
			occurred_at DATETIME(6) NOT NULL,
			seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
			INDEX idx_movements_product (product_id, seq)
		)`,
	}

	for _, stmt := range migrations {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (m *MySQLAdapter) Record(ctx context.Context, mv domain.Movement) error {
	_, err := m.db.NamedExecContext(ctx, `
		INSERT INTO inventory_movements
			(id, inventory_id, product_id, kind, delta, quantity_after, reference, occurred_at)
		VALUES
			(:id, :inventory_id, :product_id, :kind, :delta, :quantity_after, :reference, :occurred_at)`,
		mv,
	)
	if err != nil {
		return domain.Unavailable("record movement", err)
	}
	return nil
}

// ListByProduct returns movements in commit order.
func (m *MySQLAdapter) ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	var out []domain.Movement
	err := m.db.SelectContext(ctx, &out, `
		SELECT id, inventory_id, product_id, kind, delta, quantity_after, reference, occurred_at
		FROM inventory_movements
		WHERE product_id = ?
		ORDER BY seq`, productID,
	)
	if err != nil {
		return nil, domain.Unavailable("list movements", err)
	}
	return out, nil
}
