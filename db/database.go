package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MePlay/config"
	"MePlay/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// DB holds the catalog connection. Likes and playlists go through GormDB.
var DB *sql.DB

// DSN builds the MySQL data source name shared by both connections.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	var err error
	DB, err = sql.Open("mysql", DSN(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = DB.PingContext(ctx); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB.SetMaxIdleConns(10)
	DB.SetMaxOpenConns(50)
	DB.SetConnMaxLifetime(time.Hour)

	logger.Info("Successfully connected to the database", logger.String("host", cfg.DBHost), logger.String("db", cfg.DBName))
	return nil
}

// CloseDB closes the catalog connection.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

// InitDB creates the catalog table if it does not exist.
func InitDB(ctx context.Context) error {
	if err := createSongsTable(ctx); err != nil {
		return err
	}
	logger.Info("Database initialization completed")
	return nil
}

func createSongsTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS songs (
		id INT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist VARCHAR(255) NOT NULL,
		album VARCHAR(255),
		genre VARCHAR(100),
		duration VARCHAR(16) DEFAULT '0:00',
		file_path VARCHAR(767) NOT NULL,
		cover_path VARCHAR(767),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_songs_genre (genre),
		INDEX idx_songs_created_at (created_at)
	);
	`
	if _, err := DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create songs table: %w", err)
	}
	logger.Info("Songs table initialized successfully (or already exists)")
	return nil
}
