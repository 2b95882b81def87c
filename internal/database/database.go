package database

import (
	"database/sql"
	"fmt"
	"time"

	"memepool/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the local activity journal. It records submitted vault
// operations and their outcomes for history display; ledger truth is never
// cached here.
type Database struct {
	db *sql.DB
}

// New creates a new Database instance and initializes the schema
func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %v", err)
	}

	return &Database{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pub_key TEXT NOT NULL,
			type TEXT NOT NULL,
			amount REAL NOT NULL,
			signature TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_operations_pub_key ON operations(pub_key)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query: %v\nQuery: %s", err, query)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// RecordOperation journals a new write in pending state and returns its id.
func (d *Database) RecordOperation(pubKey string, opType model.OperationType, amount float64) (int64, error) {
	stmt, err := d.db.Prepare("INSERT INTO operations (pub_key, type, amount, status, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(pubKey, string(opType), amount, model.OperationStatusPending, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishOperation stores the submission signature and final status of a
// journaled write.
func (d *Database) FinishOperation(id int64, signature, status string) error {
	stmt, err := d.db.Prepare("UPDATE operations SET signature = ?, status = ? WHERE id = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	res, err := stmt.Exec(signature, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("operation %d not found", id)
	}
	return nil
}

// GetOperations returns a page of a user's journaled operations, newest
// first.
func (d *Database) GetOperations(pubKey string, page, pageSize int) (*model.OperationHistory, error) {
	var total int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM operations WHERE pub_key = ?", pubKey).Scan(&total); err != nil {
		return nil, err
	}

	stmt, err := d.db.Prepare(`SELECT id, pub_key, type, amount, signature, status, created_at
		FROM operations WHERE pub_key = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.Query(pubKey, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	operations := make([]model.Operation, 0, pageSize)
	for rows.Next() {
		var op model.Operation
		var signature sql.NullString
		var opType string
		if err := rows.Scan(&op.ID, &op.PubKey, &opType, &op.Amount, &signature, &op.Status, &op.CreatedAt); err != nil {
			return nil, err
		}
		op.Type = model.OperationType(opType)
		if signature.Valid {
			op.Signature = signature.String
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.OperationHistory{
		Operations: operations,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
