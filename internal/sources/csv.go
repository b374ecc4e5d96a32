package sources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jengzang/ecorisk-backend-go/internal/models"
)

// ErrInvalidSourceData rejects an uploaded source set as a whole
var ErrInvalidSourceData = errors.New("invalid source data")

// MaxSources bounds the size of an uploaded set
const MaxSources = 10000

// Column names and their accepted aliases
const (
	colName           = "name"
	colLat            = "lat"
	colLon            = "lon"
	colPollutionLevel = "pollution_level"
	colDangerLevel    = "danger_level"
	colObjectType     = "object_type"
)

var aliases = map[string]string{
	"name":            colName,
	"lat":             colLat,
	"latitude":        colLat,
	"lon":             colLon,
	"lng":             colLon,
	"longitude":       colLon,
	"pollution_level": colPollutionLevel,
	"pollutionlevel":  colPollutionLevel,
	"danger_level":    colDangerLevel,
	"dangerlevel":     colDangerLevel,
	"object_type":     colObjectType,
	"objecttype":      colObjectType,
}

var required = []string{colName, colLat, colLon, colPollutionLevel, colDangerLevel, colObjectType}

// ParseCSV decodes a source table. Any malformed row fails the whole set so a
// bad upload never partially replaces the active sources.
func ParseCSV(r io.Reader) ([]models.PollutionSource, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidSourceData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidSourceData, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var set []models.PollutionSource
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSourceData, line, err)
		}
		if isBlank(record) {
			continue
		}

		source, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSourceData, line, err)
		}

		set = append(set, source)
		if len(set) > MaxSources {
			return nil, fmt.Errorf("%w: more than %d sources", ErrInvalidSourceData, MaxSources)
		}
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no sources", ErrInvalidSourceData)
	}

	return set, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if col, ok := aliases[key]; ok {
			if _, dup := index[col]; dup {
				return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidSourceData, h)
			}
			index[col] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrInvalidSourceData, strings.Join(missing, ", "))
	}

	return index, nil
}

func parseRecord(record []string, index map[string]int) (models.PollutionSource, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	s := models.PollutionSource{
		Name:        field(colName),
		DangerLevel: field(colDangerLevel),
		ObjectType:  field(colObjectType),
	}
	if s.Name == "" {
		return s, errors.New("empty name")
	}
	if s.ObjectType == "" {
		return s, errors.New("empty object_type")
	}

	var err error
	if s.Lat, err = parseFloat(field(colLat), colLat); err != nil {
		return s, err
	}
	if s.Lon, err = parseFloat(field(colLon), colLon); err != nil {
		return s, err
	}
	if s.PollutionLevel, err = parseFloat(field(colPollutionLevel), colPollutionLevel); err != nil {
		return s, err
	}

	return s, Validate(s)
}

func parseFloat(v, col string) (float64, error) {
	// Accept decimal commas from spreadsheet exports
	f, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", col, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %q is not finite", col, v)
	}
	return f, nil
}

// Validate checks a single source for values the risk model cannot use
func Validate(s models.PollutionSource) error {
	switch {
	case s.Lat < -90 || s.Lat > 90:
		return fmt.Errorf("lat %v out of range", s.Lat)
	case s.Lon < -180 || s.Lon > 180:
		return fmt.Errorf("lon %v out of range", s.Lon)
	case s.PollutionLevel < 0:
		return fmt.Errorf("pollution_level %v is negative", s.PollutionLevel)
	}
	return nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
