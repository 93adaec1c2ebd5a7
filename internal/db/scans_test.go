package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScan() *Scan {
	return &Scan{
		ScanID:       uuid.New().String(),
		Directory:    "/data/MgB2",
		Pattern:      "S313_MgB2_*.txt",
		FileCount:    3,
		SkippedCount: 1,
		EnergyPoints: 700,
		AngleCount:   3,
		PixelCount:   1064,
		EnergyMin:    19.5,
		EnergyMax:    21.2,
		AngleMin:     -5.0,
		AngleMax:     -4.0,
	}
}

func TestRecordAndGetScan(t *testing.T) {
	database := newTestDB(t)

	scan := sampleScan()
	require.NoError(t, database.RecordScan(scan))

	got, err := database.GetScan(scan.ScanID)
	require.NoError(t, err)

	assert.Equal(t, scan.ScanID, got.ScanID)
	assert.Equal(t, scan.Directory, got.Directory)
	assert.Equal(t, scan.Pattern, got.Pattern)
	assert.Equal(t, 3, got.FileCount)
	assert.Equal(t, 1, got.SkippedCount)
	assert.Equal(t, 700, got.EnergyPoints)
	assert.Equal(t, 1064, got.PixelCount)
	assert.Equal(t, 19.5, got.EnergyMin)
	assert.Equal(t, -4.0, got.AngleMax)
	assert.Nil(t, got.Notes)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetScanNotFound(t *testing.T) {
	database := newTestDB(t)

	_, err := database.GetScan("no-such-scan")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListScansNewestFirst(t *testing.T) {
	database := newTestDB(t)

	first := sampleScan()
	second := sampleScan()
	require.NoError(t, database.RecordScan(first))
	require.NoError(t, database.RecordScan(second))

	scans, err := database.ListScans(0)
	require.NoError(t, err)
	require.Len(t, scans, 2)

	ids := []string{scans[0].ScanID, scans[1].ScanID}
	assert.Contains(t, ids, first.ScanID)
	assert.Contains(t, ids, second.ScanID)

	limited, err := database.ListScans(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUpdateScanNotes(t *testing.T) {
	database := newTestDB(t)

	scan := sampleScan()
	require.NoError(t, database.RecordScan(scan))

	notes := "dark counts elevated after 14:00"
	require.NoError(t, database.UpdateScanNotes(scan.ScanID, &notes))

	got, err := database.GetScan(scan.ScanID)
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)

	require.NoError(t, database.UpdateScanNotes(scan.ScanID, nil))
	got, err = database.GetScan(scan.ScanID)
	require.NoError(t, err)
	assert.Nil(t, got.Notes)

	err = database.UpdateScanNotes("no-such-scan", &notes)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestScanFilesRoundTrip(t *testing.T) {
	database := newTestDB(t)

	scan := sampleScan()
	require.NoError(t, database.RecordScan(scan))

	angle := -5.0
	files := []ScanFile{
		{FileName: "S313_MgB2_0002.txt", Status: "skipped_no_marker"},
		{FileName: "S313_MgB2_0001.txt", Angle: &angle, Status: "loaded", Rows: 700, Cols: 1064},
	}
	require.NoError(t, database.RecordScanFiles(scan.ScanID, files))

	got, err := database.ScanFiles(scan.ScanID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// ordered by file name
	assert.Equal(t, "S313_MgB2_0001.txt", got[0].FileName)
	require.NotNil(t, got[0].Angle)
	assert.Equal(t, -5.0, *got[0].Angle)
	assert.Equal(t, "loaded", got[0].Status)
	assert.Equal(t, 700, got[0].Rows)
	assert.Equal(t, 1064, got[0].Cols)

	assert.Equal(t, "S313_MgB2_0002.txt", got[1].FileName)
	assert.Nil(t, got[1].Angle)
}

func TestDeleteScanCascades(t *testing.T) {
	database := newTestDB(t)

	scan := sampleScan()
	require.NoError(t, database.RecordScan(scan))
	require.NoError(t, database.RecordScanFiles(scan.ScanID, []ScanFile{
		{FileName: "S313_MgB2_0001.txt", Status: "loaded"},
	}))

	require.NoError(t, database.DeleteScan(scan.ScanID))

	_, err := database.GetScan(scan.ScanID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	files, err := database.ScanFiles(scan.ScanID)
	require.NoError(t, err)
	assert.Empty(t, files)

	err = database.DeleteScan(scan.ScanID)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
