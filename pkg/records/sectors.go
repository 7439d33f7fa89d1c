package records

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// naicsEntry is one row of the published NAICS code table.
type naicsEntry struct {
	Code  SectorCode `json:"2022 NAICS US Code"`
	Title string     `json:"2022 NAICS US Title"`
}

// ReadSectorNames decodes a NAICS code table (a JSON array of objects with
// "2022 NAICS US Code" and "2022 NAICS US Title") into code → title. Codes
// may be strings or numbers; the first title for a code wins.
func ReadSectorNames(r io.Reader) (map[string]string, error) {
	var entries []naicsEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode sector table: %w", err)
	}

	names := make(map[string]string, len(entries))
	for _, e := range entries {
		key := strings.TrimSpace(string(e.Code))
		if key == "" {
			continue
		}
		if _, seen := names[key]; !seen {
			names[key] = strings.TrimSpace(e.Title)
		}
	}
	return names, nil
}
