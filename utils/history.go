package utils

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
)

// PredictionRecord is one stored prediction request and its ranked result
type PredictionRecord struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Features   map[string]float64 `json:"features"`
	TopCrop    string             `json:"top_crop"`
	Confidence float64            `json:"confidence"`
	Rankings   json.RawMessage    `json:"rankings"`
}

// HistoryStore persists prediction records in SQLite
type HistoryStore struct {
	db   *sql.DB
	path string
	cron *cron.Cron
}

// NewHistoryStore opens (or creates) the history database at dbPath
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	hs := &HistoryStore{
		db:   db,
		path: dbPath,
	}

	if err := hs.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return hs, nil
}

// initSchema creates the database schema
func (hs *HistoryStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		features TEXT NOT NULL,
		top_crop TEXT NOT NULL,
		confidence REAL NOT NULL,
		rankings TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
	CREATE INDEX IF NOT EXISTS idx_predictions_top_crop ON predictions(top_crop);
	`

	if _, err := hs.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SavePrediction stores one prediction record and returns its generated ID
func (hs *HistoryStore) SavePrediction(features map[string]float64, topCrop string, confidence float64, rankings any) (string, error) {
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("failed to marshal features: %w", err)
	}

	rankingsJSON, err := json.Marshal(rankings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rankings: %w", err)
	}

	id := uuid.New().String()
	_, err = hs.db.Exec(
		`INSERT INTO predictions (id, created_at, features, top_crop, confidence, rankings) VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), string(featuresJSON), topCrop, confidence, string(rankingsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert prediction: %w", err)
	}

	return id, nil
}

// Recent returns the most recent prediction records, newest first
func (hs *HistoryStore) Recent(limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := hs.db.Query(
		`SELECT id, created_at, features, top_crop, confidence, rankings
		 FROM predictions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	records := []PredictionRecord{}
	for rows.Next() {
		var rec PredictionRecord
		var featuresJSON, rankingsJSON string

		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &featuresJSON, &rec.TopCrop, &rec.Confidence, &rankingsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}

		if err := json.Unmarshal([]byte(featuresJSON), &rec.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
		rec.Rankings = json.RawMessage(rankingsJSON)

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Cleanup deletes records older than the retention window
func (hs *HistoryStore) Cleanup(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	result, err := hs.db.Exec(`DELETE FROM predictions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old predictions: %w", err)
	}

	return result.RowsAffected()
}

// StartRetentionJob schedules periodic cleanup of old records
func (hs *HistoryStore) StartRetentionJob(cronExpr string, retentionDays int) error {
	if hs.cron != nil {
		return fmt.Errorf("retention job already started")
	}

	c := cron.New()
	_, err := c.AddFunc(cronExpr, func() {
		deleted, err := hs.Cleanup(retentionDays)
		if err != nil {
			GetLogger().Error("History cleanup failed", err, Component("history"))
			return
		}
		if deleted > 0 {
			GetLogger().Info("History cleanup completed",
				Int("deleted", int(deleted)),
				Component("history"))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention job: %w", err)
	}

	c.Start()
	hs.cron = c
	return nil
}

// Close stops the retention job and closes the database
func (hs *HistoryStore) Close() error {
	if hs.cron != nil {
		hs.cron.Stop()
		hs.cron = nil
	}
	return hs.db.Close()
}
