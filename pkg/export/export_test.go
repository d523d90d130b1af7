package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterPadsShortRows(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Date", "Slot", "Room"},
		Rows:    [][]string{{"2024-01-08", "1"}, {"2024-01-22", "2", "Lab, A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Date,Slot,Room\n2024-01-08,1,\n2024-01-22,2,\"Lab, A\"\n", string(out))
}

func TestCSVExporterRejectsWideRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Headers: []string{"Date"}, Rows: [][]string{{"a", "b"}}})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersManyPages(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"2024-01-08", "Monday", "07:30-09:50", "SE1801"})
	}
	out, err := NewPDFExporter().Render(Dataset{
		Title:   "SE1801 timetable",
		Headers: []string{"Date", "Weekday", "Time", "Class"},
		Rows:    rows,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
