package csvfile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitygraph/pkg/models"
)

const sample = `发起人姓名,参与人姓名,活动主题,活动场地,活动时间
Alice,Oscar,Intro to Blockchain,Library Room 3,2025-09-24 09:45
Charlie, Quinn ,Tauri for Desktop Apps,Cafe 706,2025-09-17 19:30
`

func TestReadRowsMapsDefaultHeaders(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sample), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, models.Row{
		models.FieldInitiator:   "Alice",
		models.FieldParticipant: "Oscar",
		models.FieldTopic:       "Intro to Blockchain",
		models.FieldVenue:       "Library Room 3",
		models.FieldTime:        "2025-09-24 09:45",
	}, rows[0])
	assert.Equal(t, "Quinn", rows[1][models.FieldParticipant])
}

func TestReadRowsAcceptsEnglishAliasesInAnyOrder(t *testing.T) {
	in := "time,venue,topic,participant,initiator\n2024-06-01 10:00,Cafe,Intro,Ivan,Alice\n"
	rows, err := ReadRows(strings.NewReader(in), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0][models.FieldInitiator])
	assert.Equal(t, "Cafe", rows[0][models.FieldVenue])
	assert.Equal(t, "2024-06-01 10:00", rows[0][models.FieldTime])
}

func TestReadRowsUsesConfiguredHeaders(t *testing.T) {
	cols := Columns{Initiator: "Host", Participant: "Guest", Topic: "Title", Venue: "Where", Time: "When"}
	in := "Host,Guest,Title,Where,When\nAlice,Ivan,Intro,Cafe,t1\n"
	rows, err := ReadRows(strings.NewReader(in), cols)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", rows[0][models.FieldParticipant])
}

func TestReadRowsStripsBOM(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("\ufeff"+sample), DefaultColumns())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadRowsFailsFastOnMissingColumn(t *testing.T) {
	in := "发起人姓名,活动主题,活动场地,活动时间\nAlice,Intro,Cafe,t1\n"
	_, err := ReadRows(strings.NewReader(in), DefaultColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrMissingColumn))

	var inputErr *models.InputFormatError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, models.FieldParticipant, inputErr.Field)
	assert.Zero(t, inputErr.Row)
}

func TestReadRowsShortRowOmitsTrailingFields(t *testing.T) {
	in := "initiator,participant,topic,venue,time\nAlice,Ivan,Intro,Cafe,t1\nBob,Judy,Intro\n"
	rows, err := ReadRows(strings.NewReader(in), DefaultColumns())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, ok := rows[1][models.FieldVenue]
	assert.False(t, ok)
	field, missing := rows[1].Missing()
	assert.True(t, missing)
	assert.Equal(t, models.FieldVenue, field)
}

func TestReadRowsKeepsEmptyCells(t *testing.T) {
	in := "initiator,participant,topic,venue,time\n,Ivan,Intro,Cafe,t1\n"
	rows, err := ReadRows(strings.NewReader(in), DefaultColumns())
	require.NoError(t, err)

	v, ok := rows[0][models.FieldInitiator]
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestReadRowsRejectsEmptyInput(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""), DefaultColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnreadableSource))
}

func TestReadRowsReportsMalformedRow(t *testing.T) {
	in := "initiator,participant,topic,venue,time\nAlice,Ivan,Intro,Cafe,t1\nBob,\"Judy,Intro,Cafe,t2\n"
	_, err := ReadRows(strings.NewReader(in), DefaultColumns())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnreadableSource))
}

func TestReaderReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	rows, err := NewReader(path, DefaultColumns()).ReadRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReaderMissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "absent.csv"), DefaultColumns()).ReadRows(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, errors.Is(err, models.ErrUnreadableSource))

	var inputErr *models.InputFormatError
	assert.ErrorAs(t, err, &inputErr)
}
