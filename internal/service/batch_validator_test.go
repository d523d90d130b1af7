package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
)

func strict() ValidatorOptions { return ValidatorOptions{StrictDaySlot: true} }

func TestValidateBatchDaySlotConflictAcrossRooms(t *testing.T) {
	resolver := NewIdentifierResolver(resolverTables())
	rows := []dto.ImportRow{
		{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "2", DayOfWeek: "3", RoomName: "101"},
		{RowNumber: 3, ClassName: "SE1802", LecturerRef: "anguyen", Slot: "2", DayOfWeek: "3", RoomName: "102"},
	}

	result := ValidateBatch(rows, resolver, strict())

	require.Len(t, result, 2)
	for _, row := range result {
		assert.True(t, row.DaySlotConflict, "row %d", row.RowNumber)
		assert.False(t, row.DuplicateInFile, "row %d", row.RowNumber)
		assert.False(t, row.ValidMapping, "row %d", row.RowNumber)
		_, resolved := row.Resolved()
		assert.True(t, resolved)
	}
}

func TestValidateBatchLenientDaySlotAllowsDistinctRooms(t *testing.T) {
	resolver := NewIdentifierResolver(resolverTables())
	rows := []dto.ImportRow{
		{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "2", DayOfWeek: "3", RoomName: "101"},
		{RowNumber: 3, ClassName: "SE1802", LecturerRef: "anguyen", Slot: "2", DayOfWeek: "3", RoomName: "102"},
		{RowNumber: 4, ClassName: "SE1802", LecturerRef: "anguyen", Slot: "3", DayOfWeek: "3", RoomName: "101"},
		{RowNumber: 5, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "3", DayOfWeek: "3", RoomName: "101"},
	}

	result := ValidateBatch(rows, resolver, ValidatorOptions{StrictDaySlot: false})

	require.Len(t, result, 4)
	assert.True(t, result[0].ValidMapping)
	assert.True(t, result[1].ValidMapping)
	assert.True(t, result[2].DaySlotConflict)
	assert.True(t, result[3].DaySlotConflict)
}

func TestValidateBatchLenientDaySlotMatchesLecturerByResolvedID(t *testing.T) {
	resolver := NewIdentifierResolver(resolverTables())
	rows := []dto.ImportRow{
		{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith@fpt.edu.vn", Slot: "2", DayOfWeek: "3", RoomName: "101"},
		{RowNumber: 3, ClassName: "SE1802", LecturerRef: "JS01", Slot: "2", DayOfWeek: "3", RoomName: "102"},
	}

	result := ValidateBatch(rows, resolver, ValidatorOptions{StrictDaySlot: false})

	require.Len(t, result, 2)
	for _, row := range result {
		assert.True(t, row.DaySlotConflict, "row %d", row.RowNumber)
		assert.False(t, row.ValidMapping, "row %d", row.RowNumber)
	}
}

func TestValidateBatchDuplicateInFile(t *testing.T) {
	resolver := NewIdentifierResolver(resolverTables())
	rows := []dto.ImportRow{
		{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "1", DayOfWeek: "2", RoomName: "101"},
		{RowNumber: 3, ClassName: "se1801 ", LecturerRef: "JS01", Slot: "1", DayOfWeek: "2", RoomName: " 101"},
		{RowNumber: 4, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "1", DayOfWeek: "4", RoomName: "101"},
	}

	result := ValidateBatch(rows, resolver, strict())

	require.Len(t, result, 3)
	assert.True(t, result[0].DuplicateInFile)
	assert.True(t, result[1].DuplicateInFile)
	assert.False(t, result[2].DuplicateInFile)
	assert.False(t, result[0].ValidMapping)
	assert.True(t, result[2].ValidMapping)
}

func TestValidateBatchExpandsMultiSlotCells(t *testing.T) {
	resolver := NewIdentifierResolver(resolverTables())
	rows := []dto.ImportRow{
		{RowNumber: 7, ClassName: "SE1801", SubjectCode: "PRF192", LecturerRef: "jsmith@fpt.edu.vn", Slot: "2, 4", DayOfWeek: "5", RoomName: "Lab A"},
	}

	result := ValidateBatch(rows, resolver, strict())

	require.Len(t, result, 2)
	assert.Equal(t, 2, result[0].Slot)
	assert.Equal(t, 4, result[1].Slot)
	for _, row := range result {
		assert.Equal(t, 7, row.RowNumber)
		assert.Equal(t, "PRF192", row.SubjectCode)
		assert.True(t, row.ValidMapping)
		resolved, ok := row.Resolved()
		require.True(t, ok)
		assert.Equal(t, int64(11), resolved.ClassID)
		assert.Equal(t, int64(501), resolved.SubjectID)
		assert.Equal(t, int64(3), resolved.LecturerID)
		assert.Equal(t, int64(210), resolved.RoomID)
	}
	first, _ := result[0].Resolved()
	second, _ := result[1].Resolved()
	assert.Equal(t, int64(41), first.SlotID)
	assert.Equal(t, int64(40), second.SlotID)
}

func TestValidateBatchReportsMissingFields(t *testing.T) {
	resolver := NewIdentifierResolver(resolverTables())
	rows := []dto.ImportRow{
		{RowNumber: 2, ClassName: "SE9999", LecturerRef: "ghost", Slot: "x", DayOfWeek: "9", RoomName: "Basement"},
	}

	result := ValidateBatch(rows, resolver, strict())

	require.Len(t, result, 1)
	assert.False(t, result[0].ValidMapping)
	assert.Equal(t, []string{
		models.FieldClass, models.FieldLecturer, models.FieldSlot, models.FieldRoom, models.FieldDayOfWeek,
	}, result[0].MissingFields())
	assert.False(t, result[0].DaySlotConflict)
	assert.False(t, result[0].DuplicateInFile)
}

func TestValidateBatchVerdictIsOrderIndependent(t *testing.T) {
	resolver := NewIdentifierResolver(resolverTables())
	rows := []dto.ImportRow{
		{RowNumber: 2, ClassName: "SE1801", LecturerRef: "jsmith", Slot: "1,2", DayOfWeek: "2", RoomName: "101"},
		{RowNumber: 3, ClassName: "SE1802", LecturerRef: "anguyen", Slot: "2", DayOfWeek: "2", RoomName: "102"},
		{RowNumber: 4, ClassName: "SE1802", LecturerRef: "anguyen", Slot: "3", DayOfWeek: "6", RoomName: "102"},
		{RowNumber: 5, ClassName: "SE1802", LecturerRef: "nobody", Slot: "3", DayOfWeek: "7", RoomName: "102"},
	}
	reversed := make([]dto.ImportRow, len(rows))
	for i := range rows {
		reversed[len(rows)-1-i] = rows[i]
	}

	verdicts := func(result []models.ValidatedRow) map[[2]int]bool {
		out := make(map[[2]int]bool, len(result))
		for _, row := range result {
			out[[2]int{row.RowNumber, row.Slot}] = row.ValidMapping
		}
		return out
	}

	forward := verdicts(ValidateBatch(rows, resolver, strict()))
	backward := verdicts(ValidateBatch(reversed, resolver, strict()))
	assert.Equal(t, forward, backward)
	assert.True(t, forward[[2]int{2, 1}])
	assert.False(t, forward[[2]int{2, 2}])
	assert.False(t, forward[[2]int{3, 2}])
	assert.True(t, forward[[2]int{4, 3}])
	assert.False(t, forward[[2]int{5, 3}])
	assert.Equal(t, 2, CountValid(ValidateBatch(rows, resolver, strict())))
}
