package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/rocketsim/internal/sim"
)

type ExportRecord struct {
	Time      float64 `json:"time"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityX float64 `json:"vx"`
	VelocityY float64 `json:"vy"`
	Fuel      float64 `json:"fuel"`
	Mass      float64 `json:"mass"`
}

type ExportData struct {
	RunMetadata
	Records []ExportRecord `json:"records"`
}

func NewExportData(meta RunMetadata, recs []sim.Record) ExportData {
	data := ExportData{
		RunMetadata: meta,
		Records:     make([]ExportRecord, len(recs)),
	}
	for i, r := range recs {
		data.Records[i] = ExportRecord{
			Time:      r.Time,
			X:         r.State.X,
			Y:         r.State.Y,
			VelocityX: r.State.VelocityX,
			VelocityY: r.State.VelocityY,
			Fuel:      r.State.Fuel,
			Mass:      r.Mass,
		}
	}
	return data
}

// ExportJSON writes the metadata and trajectory of runID to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	recs, err := s.LoadRecords(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(*meta, recs))
}
