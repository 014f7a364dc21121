package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	States []Row `json:"states"`
}

// ExportJSON writes a run's metadata and states as one indented document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	rows, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: *meta, States: rows})
}
