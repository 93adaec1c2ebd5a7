package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Scan represents one loaded directory of SES files and the shape of the
// cube it produced.
type Scan struct {
	ScanID       string    `json:"scan_id"`
	Directory    string    `json:"directory"`
	Pattern      string    `json:"pattern"`
	FileCount    int       `json:"file_count"`
	SkippedCount int       `json:"skipped_count"`
	EnergyPoints int       `json:"energy_points"`
	AngleCount   int       `json:"angle_count"`
	PixelCount   int       `json:"pixel_count"`
	EnergyMin    float64   `json:"energy_min"`
	EnergyMax    float64   `json:"energy_max"`
	AngleMin     float64   `json:"angle_min"`
	AngleMax     float64   `json:"angle_max"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScanFile records the per-file outcome within a scan.
type ScanFile struct {
	ID       int64    `json:"id"`
	ScanID   string   `json:"scan_id"`
	FileName string   `json:"file_name"`
	Angle    *float64 `json:"angle"`
	Status   string   `json:"status"`
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
}

// RecordScan inserts a new scan row.
func (db *DB) RecordScan(scan *Scan) error {
	query := `
		INSERT INTO scans (
			scan_id, directory, pattern, file_count, skipped_count,
			energy_points, angle_count, pixel_count,
			energy_min, energy_max, angle_min, angle_max, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.DB.Exec(
		query,
		scan.ScanID,
		scan.Directory,
		scan.Pattern,
		scan.FileCount,
		scan.SkippedCount,
		scan.EnergyPoints,
		scan.AngleCount,
		scan.PixelCount,
		scan.EnergyMin,
		scan.EnergyMax,
		scan.AngleMin,
		scan.AngleMax,
		scan.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}

	return nil
}

const scanColumns = `
	scan_id, directory, pattern, file_count, skipped_count,
	energy_points, angle_count, pixel_count,
	energy_min, energy_max, angle_min, angle_max, notes,
	created_at
`

func scanScanRow(row interface{ Scan(...any) error }) (*Scan, error) {
	var s Scan
	var createdAtUnix int64

	err := row.Scan(
		&s.ScanID,
		&s.Directory,
		&s.Pattern,
		&s.FileCount,
		&s.SkippedCount,
		&s.EnergyPoints,
		&s.AngleCount,
		&s.PixelCount,
		&s.EnergyMin,
		&s.EnergyMax,
		&s.AngleMin,
		&s.AngleMax,
		&s.Notes,
		&createdAtUnix,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = time.Unix(createdAtUnix, 0)
	return &s, nil
}

// GetScan retrieves a scan by its ID. Returns sql.ErrNoRows when absent.
func (db *DB) GetScan(scanID string) (*Scan, error) {
	query := "SELECT " + scanColumns + " FROM scans WHERE scan_id = ?"

	s, err := scanScanRow(db.DB.QueryRow(query, scanID))
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	return s, nil
}

// ListScans returns scans newest first. A non-positive limit returns all
// of them.
func (db *DB) ListScans(limit int) ([]Scan, error) {
	query := "SELECT " + scanColumns + " FROM scans ORDER BY created_at DESC, scan_id DESC"

	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		s, err := scanScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scans, nil
}

// DeleteScan removes a scan; its scan_files rows cascade.
func (db *DB) DeleteScan(scanID string) error {
	result, err := db.DB.Exec("DELETE FROM scans WHERE scan_id = ?", scanID)
	if err != nil {
		return fmt.Errorf("failed to delete scan: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// UpdateScanNotes sets (or clears, with nil) the free-text notes on a scan.
func (db *DB) UpdateScanNotes(scanID string, notes *string) error {
	result, err := db.DB.Exec("UPDATE scans SET notes = ? WHERE scan_id = ?", notes, scanID)
	if err != nil {
		return fmt.Errorf("failed to update scan notes: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// RecordScanFiles inserts the per-file results for a scan in one transaction.
func (db *DB) RecordScanFiles(scanID string, files []ScanFile) error {
	tx, err := db.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO scan_files (scan_id, file_name, angle, status, rows, cols)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range files {
		if _, err := stmt.Exec(scanID, f.FileName, f.Angle, f.Status, f.Rows, f.Cols); err != nil {
			return fmt.Errorf("failed to insert scan file %s: %w", f.FileName, err)
		}
	}

	return tx.Commit()
}

// ScanFiles returns the per-file results for a scan in file-name order.
func (db *DB) ScanFiles(scanID string) ([]ScanFile, error) {
	query := `
		SELECT id, scan_id, file_name, angle, status, rows, cols
		FROM scan_files
		WHERE scan_id = ?
		ORDER BY file_name
	`

	rows, err := db.DB.Query(query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan files: %w", err)
	}
	defer rows.Close()

	var files []ScanFile
	for rows.Next() {
		var f ScanFile
		if err := rows.Scan(&f.ID, &f.ScanID, &f.FileName, &f.Angle, &f.Status, &f.Rows, &f.Cols); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return files, nil
}
