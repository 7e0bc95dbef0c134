package models

import (
	"time"

	"github.com/hplc-lab/trace-viewer/chromatogram"
	"github.com/hplc-lab/trace-viewer/internal/tracedb"
)

// ExportFile is one instrument export read from the ingest directory.
type ExportFile struct {
	Path    string
	Name    string
	ModTime time.Time
	Content []byte
}

// TraceRow captures a parsed trace ready for DB operations.
type TraceRow struct {
	FileName  string
	Name      string
	Injection *int32
	Checksum  string
	Summary   chromatogram.Summary
	Points    []chromatogram.Point
	Resorted  bool
}

// Record converts the row into the shared trace write record.
func (r TraceRow) Record() tracedb.Record {
	return tracedb.Record{
		Name:      r.Name,
		FileName:  r.FileName,
		Injection: r.Injection,
		Checksum:  r.Checksum,
		Points:    r.Points,
	}
}

// StoredTrace is the identity and checksum of a trace already in the database.
type StoredTrace struct {
	ID       int64
	Checksum string
}
