package sqldb

import (
	"context"
	"database/sql"
	"fmt"
)

// sqliteSchema sets up the SQLite schema. Decimals are stored as exact text.
// users must be created before billings due to the owner foreign key.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    document TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS billings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT,
    amount TEXT NOT NULL,
    discount TEXT,
    total TEXT NOT NULL,
    email TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    owner_id TEXT NOT NULL,
    status INTEGER NOT NULL DEFAULT 0,
    version INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS pays (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    billing_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (billing_id) REFERENCES billings(id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_billings_owner_id ON billings(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pays_billing_id ON pays(billing_id)`,
}

// mysqlSchema mirrors sqliteSchema for MySQL/InnoDB.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id VARCHAR(36) NOT NULL PRIMARY KEY,
    email VARCHAR(180) NOT NULL UNIQUE,
    display_name VARCHAR(255) NOT NULL DEFAULT '',
    phone VARCHAR(64) NOT NULL DEFAULT '',
    document VARCHAR(64) NOT NULL DEFAULT '',
    password_hash VARCHAR(255) NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
) DEFAULT CHARACTER SET utf8mb4 ENGINE = InnoDB`,
	`CREATE TABLE IF NOT EXISTS billings (
    id BIGINT AUTO_INCREMENT NOT NULL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    description VARCHAR(255),
    amount DECIMAL(20,6) NOT NULL,
    discount DECIMAL(9,6),
    total DECIMAL(20,6) NOT NULL,
    email VARCHAR(180) NOT NULL,
    token VARCHAR(255) NOT NULL UNIQUE,
    owner_id VARCHAR(36) NOT NULL,
    status TINYINT(1) NOT NULL DEFAULT 0,
    version BIGINT NOT NULL DEFAULT 1,
    created_at BIGINT NOT NULL,
    INDEX idx_billings_owner_id (owner_id),
    CONSTRAINT fk_billings_owner FOREIGN KEY (owner_id) REFERENCES users (id)
) DEFAULT CHARACTER SET utf8mb4 ENGINE = InnoDB`,
	`CREATE TABLE IF NOT EXISTS pays (
    id BIGINT AUTO_INCREMENT NOT NULL PRIMARY KEY,
    billing_id BIGINT NOT NULL,
    amount DECIMAL(20,6) NOT NULL,
    created_at BIGINT NOT NULL,
    INDEX idx_pays_billing_id (billing_id),
    CONSTRAINT fk_pays_billing FOREIGN KEY (billing_id) REFERENCES billings (id)
) DEFAULT CHARACTER SET utf8mb4 ENGINE = InnoDB`,
}

// runMigrations executes the schema setup for the driver.
func runMigrations(ctx context.Context, db *sql.DB, driver string) error {
	schema := sqliteSchema
	if driver == DriverMySQL {
		schema = mysqlSchema
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
