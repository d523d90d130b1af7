package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// IdentifierResolver maps spreadsheet values to internal IDs. It is built from the lookup
// tables passed to it and holds no other state, so it is safe for concurrent use.
type IdentifierResolver struct {
	classes        map[string]models.Class
	rooms          map[string]int64
	lecturerEmails map[string]int64
	lecturerCodes  map[string]int64
	slots          map[int]int64
}

// NewIdentifierResolver builds the four lookup maps.
func NewIdentifierResolver(tables models.LookupTables) *IdentifierResolver {
	r := &IdentifierResolver{
		classes:        make(map[string]models.Class, len(tables.Classes)),
		rooms:          make(map[string]int64, len(tables.Rooms)),
		lecturerEmails: make(map[string]int64, len(tables.Lecturers)),
		lecturerCodes:  make(map[string]int64, len(tables.Lecturers)),
		slots:          make(map[int]int64, len(tables.TimeSlots)),
	}
	for _, class := range tables.Classes {
		key := NormalizeKey(class.Name)
		if _, exists := r.classes[key]; !exists && key != "" {
			r.classes[key] = class
		}
	}
	for _, room := range tables.Rooms {
		key := NormalizeKey(room.Name)
		if _, exists := r.rooms[key]; !exists && key != "" {
			r.rooms[key] = room.ID
		}
	}
	for _, lecturer := range tables.Lecturers {
		if key := LecturerKey(lecturer.Email); key != "" {
			if _, exists := r.lecturerEmails[key]; !exists {
				r.lecturerEmails[key] = lecturer.ID
			}
		}
		if key := NormalizeKey(lecturer.Code); key != "" {
			if _, exists := r.lecturerCodes[key]; !exists {
				r.lecturerCodes[key] = lecturer.ID
			}
		}
	}
	for _, slot := range NumberTimeSlots(tables.TimeSlots) {
		r.slots[slot.Number] = slot.ID
	}
	return r
}

// ResolveClass looks a class up by name.
func (r *IdentifierResolver) ResolveClass(name string) (models.Class, bool) {
	class, ok := r.classes[NormalizeKey(name)]
	return class, ok
}

// ResolveRoom looks a room up by name.
func (r *IdentifierResolver) ResolveRoom(name string) (int64, bool) {
	id, ok := r.rooms[NormalizeKey(name)]
	return id, ok
}

// ResolveLecturer accepts an email or a bare key and matches it against email prefixes, then codes.
func (r *IdentifierResolver) ResolveLecturer(raw string) (int64, bool) {
	key := LecturerKey(raw)
	if key == "" {
		return 0, false
	}
	if id, ok := r.lecturerEmails[key]; ok {
		return id, true
	}
	id, ok := r.lecturerCodes[key]
	return id, ok
}

// ResolveSlot maps a 1-based slot number to the time slot ID.
func (r *IdentifierResolver) ResolveSlot(number int) (int64, bool) {
	id, ok := r.slots[number]
	return id, ok
}

// NormalizeKey trims and case-folds a lookup key.
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// LecturerKey keeps the part before '@' when the value looks like an email.
func LecturerKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, "@"); idx >= 0 {
		raw = raw[:idx]
	}
	return NormalizeKey(raw)
}

// NumberTimeSlots returns a copy of slots ordered by start time with Number set to the
// 1-based position. Ties keep the lower ID first.
func NumberTimeSlots(slots []models.TimeSlot) []models.TimeSlot {
	sorted := make([]models.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := clockMinutes(sorted[i].StartTime), clockMinutes(sorted[j].StartTime)
		if a == b {
			return sorted[i].ID < sorted[j].ID
		}
		return a < b
	})
	for i := range sorted {
		sorted[i].Number = i + 1
	}
	return sorted
}

// clockMinutes parses "H:MM" or "HH:MM:SS"; unparsable values sort last.
func clockMinutes(raw string) int {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 {
		return 1 << 30
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 1 << 30
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 1 << 30
	}
	return hours*60 + minutes
}
