package osm

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"id", "lat", "lon", "name", "category", "tags"}

// WriteCSV writes pois as CSV, one row per POI after the header.
// Missing coordinates, names and categories become empty cells.
func WriteCSV(w io.Writer, pois []POI) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range pois {
		row := []string{
			strconv.FormatInt(p.ID, 10),
			formatCoordinate(p.Lat),
			formatCoordinate(p.Lon),
			p.Name,
			p.Category,
			p.TagsJSON(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write poi %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
