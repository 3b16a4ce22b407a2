// Package mockdata generates synthetic attendance rows for demos and fixtures.
package mockdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"communitygraph/internal/input/csvfile"
	"communitygraph/pkg/models"
)

// TimeLayout is the minute-resolution label written to the time column.
const TimeLayout = "2006-01-02 15:04"

var (
	initiators = []string{"Alice", "Bob", "Charlie", "Diana", "Ethan", "Fiona", "George", "Hannah"}

	participants = []string{"Ivan", "Judy", "Kevin", "Laura", "Mike", "Nina", "Oscar", "Paula", "Quinn", "Rita"}

	topics = []string{
		"Web3 and Society", "Intro to Blockchain", "DIY Hardware Wallet", "Tauri for Desktop Apps",
		"Agent CLI Deep Dive", "Co-Learning Kickoff", "Global Hackathon Trends", "Crypto in Argentina",
		"Holacracy in Startups", "Creative Coding Jam",
	}

	venues = []string{"Cafe", "Online Zoom Room", "Makerspace A1", "Community Hall", "Library Room 3", "Virtual Discord"}

	quarterHours = []int{0, 15, 30, 45}
)

// Generator produces random rows. The same seed and start time yield the same rows.
type Generator struct {
	rng   *rand.Rand
	start time.Time
}

// NewGenerator creates a generator scheduling events within 30 days of start.
func NewGenerator(seed int64, start time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), start: start}
}

// Rows returns n random rows.
func (g *Generator) Rows(n int) []models.Row {
	rows := make([]models.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Row{
			models.FieldInitiator:   pick(g.rng, initiators),
			models.FieldParticipant: pick(g.rng, participants),
			models.FieldTopic:       pick(g.rng, topics),
			models.FieldVenue:       pick(g.rng, venues),
			models.FieldTime:        g.eventTime().Format(TimeLayout),
		})
	}
	return rows
}

// eventTime picks a day in [start, start+30d] and a quarter hour between 09:00 and 20:45.
func (g *Generator) eventTime() time.Time {
	offset := time.Duration(g.rng.Float64() * float64(30*24*time.Hour))
	day := g.start.Add(offset)
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	hour := 9 + g.rng.Intn(12)
	minute := quarterHours[g.rng.Intn(len(quarterHours))]
	return midnight.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

// WriteCSV writes rows with a header built from columns, in the export sheet's column order.
func WriteCSV(w io.Writer, rows []models.Row, columns csvfile.Columns) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(models.RequiredFields))
	for _, field := range models.RequiredFields {
		header = append(header, columns.Header(field))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, 0, len(models.RequiredFields))
		for _, field := range models.RequiredFields {
			record = append(record, row[field])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to a CSV file, creating parent directories.
func WriteFile(path string, rows []models.Row, columns csvfile.Columns) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := WriteCSV(f, rows, columns); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
