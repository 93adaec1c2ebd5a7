// Package export renders assembled cubes into interchange formats: Arrow
// IPC for analysis environments and TSV for spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/beamline-data/spectra.report/internal/cube"
)

// Cube dimension counts ride along in the schema metadata so the long-format
// table can be folded back into a cube without guessing axis lengths.
const (
	metaEnergyCount = "energy_count"
	metaKxCount     = "kx_count"
	metaKyCount     = "ky_count"
)

// Codec serializes cubes to Arrow IPC streams and back. The table is long
// format: one row per (energy, kx, ky) cell, row order energy-major then kx
// then ky.
type Codec struct {
	allocator memory.Allocator
}

// NewCodec creates a Codec on the default allocator.
func NewCodec() *Codec {
	return &Codec{allocator: memory.DefaultAllocator}
}

func cubeSchema(nE, nX, nY int) *arrow.Schema {
	meta := arrow.NewMetadata(
		[]string{metaEnergyCount, metaKxCount, metaKyCount},
		[]string{strconv.Itoa(nE), strconv.Itoa(nX), strconv.Itoa(nY)},
	)
	return arrow.NewSchema(
		[]arrow.Field{
			{Name: "energy", Type: arrow.PrimitiveTypes.Float64},
			{Name: "kx", Type: arrow.PrimitiveTypes.Float64},
			{Name: "ky", Type: arrow.PrimitiveTypes.Float64},
			{Name: "intensity", Type: arrow.PrimitiveTypes.Float64},
		},
		&meta,
	)
}

// SerializeCube writes the cube as a single-record Arrow IPC stream.
func (c *Codec) SerializeCube(cb *cube.Cube) ([]byte, error) {
	nE, nX, nY := cb.Dims()
	schema := cubeSchema(nE, nX, nY)

	builder := array.NewRecordBuilder(c.allocator, schema)
	defer builder.Release()

	energyBuilder := builder.Field(0).(*array.Float64Builder)
	kxBuilder := builder.Field(1).(*array.Float64Builder)
	kyBuilder := builder.Field(2).(*array.Float64Builder)
	intensityBuilder := builder.Field(3).(*array.Float64Builder)

	n := nE * nX * nY
	energyBuilder.Reserve(n)
	kxBuilder.Reserve(n)
	kyBuilder.Reserve(n)
	intensityBuilder.Reserve(n)

	for e := 0; e < nE; e++ {
		for x := 0; x < nX; x++ {
			for y := 0; y < nY; y++ {
				energyBuilder.Append(cb.Energy[e])
				kxBuilder.Append(cb.Kx[x])
				kyBuilder.Append(cb.Ky[y])
				intensityBuilder.Append(cb.At(e, x, y))
			}
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(schema))

	if err := writer.Write(record); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return buf.Bytes(), nil
}

// DeserializeCube folds a long-format IPC stream produced by SerializeCube
// back into a cube.
func (c *Codec) DeserializeCube(data []byte) (*cube.Cube, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(c.allocator))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if reader.Err() != nil {
			return nil, reader.Err()
		}
		return nil, fmt.Errorf("no records in IPC data")
	}

	record := reader.Record()
	record.Retain()
	defer record.Release()

	nE, nX, nY, err := dimsFromMetadata(record.Schema().Metadata())
	if err != nil {
		return nil, err
	}
	if int64(nE*nX*nY) != record.NumRows() {
		return nil, fmt.Errorf("row count %d does not match dims %dx%dx%d", record.NumRows(), nE, nX, nY)
	}

	energyCol := record.Column(0).(*array.Float64)
	kxCol := record.Column(1).(*array.Float64)
	kyCol := record.Column(2).(*array.Float64)
	intensityCol := record.Column(3).(*array.Float64)

	cb := &cube.Cube{
		Energy: make([]float64, nE),
		Kx:     make([]float64, nX),
		Ky:     make([]float64, nY),
		Data:   make([][][]float64, nE),
	}

	// rows are energy-major, so each axis repeats with a fixed stride
	for e := 0; e < nE; e++ {
		cb.Energy[e] = energyCol.Value(e * nX * nY)
	}
	for x := 0; x < nX; x++ {
		cb.Kx[x] = kxCol.Value(x * nY)
	}
	for y := 0; y < nY; y++ {
		cb.Ky[y] = kyCol.Value(y)
	}

	for e := 0; e < nE; e++ {
		cb.Data[e] = make([][]float64, nX)
		for x := 0; x < nX; x++ {
			row := make([]float64, nY)
			base := (e*nX + x) * nY
			for y := 0; y < nY; y++ {
				row[y] = intensityCol.Value(base + y)
			}
			cb.Data[e][x] = row
		}
	}

	return cb, nil
}

func dimsFromMetadata(meta arrow.Metadata) (nE, nX, nY int, err error) {
	get := func(key string) (int, error) {
		idx := meta.FindKey(key)
		if idx < 0 {
			return 0, fmt.Errorf("missing %s in schema metadata", key)
		}
		return strconv.Atoi(meta.Values()[idx])
	}

	if nE, err = get(metaEnergyCount); err != nil {
		return 0, 0, 0, err
	}
	if nX, err = get(metaKxCount); err != nil {
		return 0, 0, 0, err
	}
	if nY, err = get(metaKyCount); err != nil {
		return 0, 0, 0, err
	}
	return nE, nX, nY, nil
}
