package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Alexandroide/IS4234-Graph-SupTech/pkg/algorithms"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts json, yaml/yml and csv, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteYAML writes r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// CSVHeader is the column layout of WriteCSV.
var CSVHeader = []string{"run_id", "section", "rank", "node_id", "score"}

// WriteCSV flattens the ranked sections of r into one row per node:
// influence, systemic, cascade and blast_radius.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	row := func(section string, rank int, id string, score float64) error {
		return cw.Write([]string{
			r.RunID,
			section,
			strconv.Itoa(rank),
			id,
			strconv.FormatFloat(score, 'g', -1, 64),
		})
	}
	ranked := func(section string, nodes []algorithms.RankedNode) error {
		for i, rn := range nodes {
			if err := row(section, i+1, rn.NodeID, rn.Score); err != nil {
				return err
			}
		}
		return nil
	}

	if err := ranked("influence", r.Influence.Top); err != nil {
		return err
	}
	if err := ranked("systemic", r.Systemic); err != nil {
		return err
	}
	if r.Cascade != nil {
		for i, imp := range r.Cascade.Impacts {
			if err := row("cascade", i+1, imp.NodeID, imp.Impact); err != nil {
				return err
			}
		}
	}
	for i, e := range r.BlastRadius {
		if err := row("blast_radius", i+1, e.NodeID, e.TotalImpact); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
