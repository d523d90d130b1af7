package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

func resolverTables() models.LookupTables {
	return models.LookupTables{
		Classes: []models.Class{
			{ID: 11, Name: "SE1801", SemesterID: 1, SubjectID: 501},
			{ID: 12, Name: "SE1802", SemesterID: 1, SubjectID: 502},
		},
		Rooms: []models.Room{
			{ID: 101, Name: "101"},
			{ID: 102, Name: "102"},
			{ID: 210, Name: "Lab A"},
		},
		Lecturers: []models.Lecturer{
			{ID: 3, Code: "JS01", Email: "jsmith@fpt.edu.vn"},
			{ID: 4, Code: "anguyen", Email: "an.nguyen@fpt.edu.vn"},
		},
		TimeSlots: []models.TimeSlot{
			{ID: 40, StartTime: "12:30:00", EndTime: "14:50:00"},
			{ID: 7, StartTime: "07:30:00", EndTime: "09:50:00"},
			{ID: 9, StartTime: "10:00:00", EndTime: "12:20:00"},
			{ID: 41, StartTime: "9:00", EndTime: "9:45"},
		},
	}
}

func TestResolverLecturerEmailAndPrefixMatchSameID(t *testing.T) {
	r := NewIdentifierResolver(resolverTables())

	byEmail, ok := r.ResolveLecturer("jsmith@fpt.edu.vn")
	require.True(t, ok)
	byPrefix, ok := r.ResolveLecturer("  JSmith ")
	require.True(t, ok)
	assert.Equal(t, int64(3), byEmail)
	assert.Equal(t, byEmail, byPrefix)

	byCode, ok := r.ResolveLecturer("js01")
	require.True(t, ok)
	assert.Equal(t, int64(3), byCode)

	_, ok = r.ResolveLecturer("nobody@fpt.edu.vn")
	assert.False(t, ok)
	_, ok = r.ResolveLecturer("   ")
	assert.False(t, ok)
}

func TestResolverNormalisesNames(t *testing.T) {
	r := NewIdentifierResolver(resolverTables())

	class, ok := r.ResolveClass(" se1801 ")
	require.True(t, ok)
	assert.Equal(t, int64(11), class.ID)
	assert.Equal(t, int64(501), class.SubjectID)

	room, ok := r.ResolveRoom("LAB a")
	require.True(t, ok)
	assert.Equal(t, int64(210), room)

	_, ok = r.ResolveClass("SE1899")
	assert.False(t, ok)
}

func TestResolverSlotNumbersFollowStartTime(t *testing.T) {
	r := NewIdentifierResolver(resolverTables())

	expected := map[int]int64{1: 7, 2: 41, 3: 9, 4: 40}
	for number, id := range expected {
		got, ok := r.ResolveSlot(number)
		require.True(t, ok, "slot %d", number)
		assert.Equal(t, id, got, "slot %d", number)
	}
	_, ok := r.ResolveSlot(5)
	assert.False(t, ok)
	_, ok = r.ResolveSlot(0)
	assert.False(t, ok)
}

func TestNumberTimeSlotsDoesNotMutateInput(t *testing.T) {
	input := resolverTables().TimeSlots
	numbered := NumberTimeSlots(input)

	assert.Equal(t, int64(40), input[0].ID)
	assert.Zero(t, input[0].Number)
	assert.Equal(t, int64(7), numbered[0].ID)
	assert.Equal(t, 1, numbered[0].Number)
}
