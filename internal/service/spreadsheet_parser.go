package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	appErrors "github.com/noah-isme/class-schedule-api/pkg/errors"
)

const (
	columnClass    = "class"
	columnSubject  = "subject"
	columnLecturer = "lecturer"
	columnSlot     = "slot"
	columnDay      = "dayofweek"
	columnRoom     = "room"
)

var headerAliases = map[string]string{
	"class":         columnClass,
	"classname":     columnClass,
	"subject":       columnSubject,
	"subjectcode":   columnSubject,
	"lecturer":      columnLecturer,
	"lecturercode":  columnLecturer,
	"lectureremail": columnLecturer,
	"slot":          columnSlot,
	"slots":         columnSlot,
	"dayofweek":     columnDay,
	"day":           columnDay,
	"weekday":       columnDay,
	"room":          columnRoom,
	"roomname":      columnRoom,
}

var requiredColumns = []string{columnClass, columnLecturer, columnSlot, columnDay, columnRoom}

// SpreadsheetParser reads schedule import rows from the first sheet of an xlsx workbook.
type SpreadsheetParser struct {
	maxRows int
}

// NewSpreadsheetParser constructs a parser; maxRows <= 0 disables the row cap.
func NewSpreadsheetParser(maxRows int) *SpreadsheetParser {
	return &SpreadsheetParser{maxRows: maxRows}
}

// Parse returns one ImportRow per non-blank data row. Row numbers are the sheet's own, so the
// first data row under the header is row 2.
func (p *SpreadsheetParser) Parse(reader io.Reader) ([]dto.ImportRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read spreadsheet")
	}
	defer f.Close()

	sheetRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read first sheet")
	}
	if len(sheetRows) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "spreadsheet has no data rows")
	}

	index := headerIndex(sheetRows[0])
	var missing []string
	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "spreadsheet is missing columns: "+strings.Join(missing, ", "))
	}

	cell := func(row []string, column string) string {
		idx, ok := index[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rows := make([]dto.ImportRow, 0, len(sheetRows)-1)
	for i := 1; i < len(sheetRows); i++ {
		raw := sheetRows[i]
		row := dto.ImportRow{
			RowNumber:   i + 1,
			ClassName:   cell(raw, columnClass),
			SubjectCode: cell(raw, columnSubject),
			LecturerRef: cell(raw, columnLecturer),
			Slot:        cell(raw, columnSlot),
			DayOfWeek:   cell(raw, columnDay),
			RoomName:    cell(raw, columnRoom),
		}
		if row == (dto.ImportRow{RowNumber: row.RowNumber}) {
			continue
		}
		rows = append(rows, row)
		if p.maxRows > 0 && len(rows) > p.maxRows {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("spreadsheet exceeds %d rows", p.maxRows))
		}
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "spreadsheet has no data rows")
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, title := range header {
		key := strings.ToLower(strings.TrimSpace(title))
		key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
		if column, ok := headerAliases[key]; ok {
			if _, seen := index[column]; !seen {
				index[column] = i
			}
		}
	}
	return index
}
