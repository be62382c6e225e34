// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package audit fire-and-forget logs search queries to MySQL when
// configured, never adding latency to the request path it observes.
package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/antgroup/fzfserve/internal/config"
	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

const (
	channelBuffer = 1024
	insertTimeout = 5 * time.Second

	createTableSQL = `CREATE TABLE IF NOT EXISTS search_audit (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		distro VARCHAR(128) NOT NULL,
		query VARCHAR(512) NOT NULL,
		result_count INT NOT NULL,
		truncated TINYINT(1) NOT NULL,
		elapsed_ms INT NOT NULL,
		created_at DATETIME NOT NULL
	)`

	insertSQL = `INSERT INTO search_audit (distro, query, result_count, truncated, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
)

// Record is one completed search, queued for audit logging.
type Record struct {
	Distro      string
	Query       string
	ResultCount int
	Truncated   bool
	Elapsed     time.Duration
	At          time.Time
}

// Sink asynchronously writes Records to MySQL. A nil *Sink is valid and
// silently drops every Record — used when audit.database is unset.
type Sink struct {
	db      *sql.DB
	records chan Record
	done    chan struct{}
}

// New opens a connection pool per cfg and starts the background writer.
func New(cfg *config.Database) (*Sink, error) {
	dsnCfg, err := cfg.MakeConfig()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &Sink{db: db, records: make(chan Record, channelBuffer), done: make(chan struct{})}
	go s.loop()
	return s, nil
}

func (s *Sink) loop() {
	defer close(s.done)
	for r := range s.records {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		_, err := s.db.ExecContext(ctx, insertSQL, r.Distro, r.Query, r.ResultCount, r.Truncated, r.Elapsed.Milliseconds(), r.At)
		cancel()
		if err != nil {
			logrus.Errorf("audit: insert record failed: %v", err)
		}
	}
}

// Log enqueues r without blocking the caller. If the queue is full the
// record is dropped and a warning logged — audit is best-effort.
func (s *Sink) Log(r Record) {
	if s == nil {
		return
	}
	select {
	case s.records <- r:
	default:
		logrus.Warnf("audit: queue full, dropping record for distro %q", r.Distro)
	}
}

// Close drains the queue and closes the database connection.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	close(s.records)
	<-s.done
	return s.db.Close()
}
