package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"communitygraph/internal/logger"
	"communitygraph/pkg/models"
)

const utf8BOM = "\ufeff"

// Columns maps canonical fields to CSV header names.
type Columns struct {
	Initiator   string `yaml:"initiator"`
	Participant string `yaml:"participant"`
	Topic       string `yaml:"topic"`
	Venue       string `yaml:"venue"`
	Time        string `yaml:"time"`
}

// DefaultColumns returns the headers written by the event export sheet.
func DefaultColumns() Columns {
	return Columns{
		Initiator:   "发起人姓名",
		Participant: "参与人姓名",
		Topic:       "活动主题",
		Venue:       "活动场地",
		Time:        "活动时间",
	}
}

// Header returns the configured header for a canonical field.
func (c Columns) Header(field string) string {
	switch field {
	case models.FieldInitiator:
		return c.Initiator
	case models.FieldParticipant:
		return c.Participant
	case models.FieldTopic:
		return c.Topic
	case models.FieldVenue:
		return c.Venue
	case models.FieldTime:
		return c.Time
	default:
		return ""
	}
}

// Reader loads attendance rows from a CSV file.
type Reader struct {
	path    string
	columns Columns
}

// NewReader creates a CSV file reader.
func NewReader(path string, columns Columns) *Reader {
	return &Reader{path: path, columns: columns}
}

// ReadRows opens the file and parses all data rows.
func (r *Reader) ReadRows(ctx context.Context) ([]models.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, &models.InputFormatError{Err: fmt.Errorf("%w: %w", models.ErrUnreadableSource, err)}
	}
	defer f.Close()

	rows, err := ReadRows(f, r.columns)
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded %d rows from %s", len(rows), r.path)
	return rows, nil
}

// ReadRows parses CSV with a header row into canonical rows.
// A header lacking a required column fails before any row is read. Data rows
// shorter than the header omit their trailing fields.
func ReadRows(in io.Reader, columns Columns) ([]models.Row, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.InputFormatError{Err: fmt.Errorf("%w: missing header row", models.ErrUnreadableSource)}
	}
	if err != nil {
		return nil, &models.InputFormatError{Err: fmt.Errorf("%w: %w", models.ErrUnreadableSource, err)}
	}

	index, err := resolveHeader(header, columns)
	if err != nil {
		return nil, err
	}

	var rows []models.Row
	for n := 1; ; n++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &models.InputFormatError{Row: n, Err: fmt.Errorf("%w: %w", models.ErrUnreadableSource, err)}
		}

		row := make(models.Row, len(index))
		for field, i := range index {
			if i < len(record) {
				row[field] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// resolveHeader finds each required field by its configured header, falling
// back to the canonical field name.
func resolveHeader(header []string, columns Columns) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	index := make(map[string]int, len(models.RequiredFields))
	for _, field := range models.RequiredFields {
		i, ok := positions[columns.Header(field)]
		if !ok || columns.Header(field) == "" {
			i, ok = positions[field]
		}
		if !ok {
			return nil, &models.InputFormatError{Field: field, Err: models.ErrMissingColumn}
		}
		index[field] = i
	}
	return index, nil
}
