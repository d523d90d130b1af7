package service

import (
	"strconv"
	"strings"

	"github.com/noah-isme/class-schedule-api/internal/dto"
	"github.com/noah-isme/class-schedule-api/internal/models"
)

// ValidatorOptions tunes the in-batch checks.
type ValidatorOptions struct {
	// StrictDaySlot rejects any two rows sharing weekday and slot. When false only rows that
	// also share a class, room or lecturer (by resolved id where possible) are flagged.
	StrictDaySlot bool
}

type duplicateKey struct {
	class   string
	weekday int
	slot    int
	room    string
}

type daySlotKey struct {
	weekday int
	slot    int
}

// ValidateBatch expands multi-slot rows, resolves identifiers and flags in-batch collisions.
// Every flag is computed in one pass and merged in a final reduction, so the verdict does not
// depend on row order.
func ValidateBatch(rows []dto.ImportRow, resolver *IdentifierResolver, opts ValidatorOptions) []models.ValidatedRow {
	expanded := make([]models.ValidatedRow, 0, len(rows))
	for _, row := range rows {
		expanded = append(expanded, expandRow(row, resolver)...)
	}

	duplicates := make(map[duplicateKey]int)
	daySlots := make(map[daySlotKey][]int)
	for i, row := range expanded {
		if row.Weekday == 0 || row.Slot == 0 {
			continue
		}
		duplicates[rowDuplicateKey(row)]++
		key := daySlotKey{weekday: row.Weekday, slot: row.Slot}
		daySlots[key] = append(daySlots[key], i)
	}

	for i := range expanded {
		row := &expanded[i]
		if row.Weekday != 0 && row.Slot != 0 {
			row.DuplicateInFile = duplicates[rowDuplicateKey(*row)] > 1
			peers := daySlots[daySlotKey{weekday: row.Weekday, slot: row.Slot}]
			row.DaySlotConflict = daySlotClash(expanded, i, peers, opts.StrictDaySlot, resolver)
		}
		_, resolved := row.Resolved()
		row.ValidMapping = resolved && !row.DuplicateInFile && !row.DaySlotConflict
	}
	return expanded
}

// CountValid returns how many rows carry a valid mapping.
func CountValid(rows []models.ValidatedRow) int {
	valid := 0
	for _, row := range rows {
		if row.ValidMapping {
			valid++
		}
	}
	return valid
}

func expandRow(row dto.ImportRow, resolver *IdentifierResolver) []models.ValidatedRow {
	slots := parseSlotCell(row.Slot)
	weekday, weekdayOK := parseWeekday(row.DayOfWeek)

	out := make([]models.ValidatedRow, 0, len(slots))
	for _, slot := range slots {
		validated := models.ValidatedRow{
			RowNumber:   row.RowNumber,
			ClassName:   strings.TrimSpace(row.ClassName),
			SubjectCode: strings.TrimSpace(row.SubjectCode),
			LecturerRef: strings.TrimSpace(row.LecturerRef),
			Weekday:     weekday,
			Slot:        slot,
			RoomName:    strings.TrimSpace(row.RoomName),
		}
		validated.Resolution = resolveRow(validated, weekdayOK, resolver)
		out = append(out, validated)
	}
	return out
}

func resolveRow(row models.ValidatedRow, weekdayOK bool, resolver *IdentifierResolver) models.Resolution {
	var (
		missing  []string
		resolved models.Resolved
	)
	if class, ok := resolver.ResolveClass(row.ClassName); ok {
		resolved.ClassID = class.ID
		resolved.SubjectID = class.SubjectID
	} else {
		missing = append(missing, models.FieldClass)
	}
	if id, ok := resolver.ResolveLecturer(row.LecturerRef); ok {
		resolved.LecturerID = id
	} else {
		missing = append(missing, models.FieldLecturer)
	}
	if id, ok := resolver.ResolveSlot(row.Slot); ok {
		resolved.SlotID = id
	} else {
		missing = append(missing, models.FieldSlot)
	}
	if id, ok := resolver.ResolveRoom(row.RoomName); ok {
		resolved.RoomID = id
	} else {
		missing = append(missing, models.FieldRoom)
	}
	if !weekdayOK {
		missing = append(missing, models.FieldDayOfWeek)
	}
	if len(missing) > 0 {
		return models.Unresolved{MissingFields: missing}
	}
	return resolved
}

func rowDuplicateKey(row models.ValidatedRow) duplicateKey {
	return duplicateKey{
		class:   NormalizeKey(row.ClassName),
		weekday: row.Weekday,
		slot:    row.Slot,
		room:    NormalizeKey(row.RoomName),
	}
}

func daySlotClash(rows []models.ValidatedRow, self int, peers []int, strict bool, resolver *IdentifierResolver) bool {
	if len(peers) < 2 {
		return false
	}
	if strict {
		return true
	}
	row := rows[self]
	for _, idx := range peers {
		if idx == self {
			continue
		}
		if sharesResource(resolver, row, rows[idx]) {
			return true
		}
	}
	return false
}

// sharesResource compares resolved ids per dimension, falling back to the normalized text when
// either side does not resolve.
func sharesResource(resolver *IdentifierResolver, a, b models.ValidatedRow) bool {
	classA, okA := resolver.ResolveClass(a.ClassName)
	classB, okB := resolver.ResolveClass(b.ClassName)
	if sameIdentity(okA && okB, classA.ID == classB.ID, NormalizeKey(a.ClassName) == NormalizeKey(b.ClassName)) {
		return true
	}
	roomA, okA := resolver.ResolveRoom(a.RoomName)
	roomB, okB := resolver.ResolveRoom(b.RoomName)
	if sameIdentity(okA && okB, roomA == roomB, NormalizeKey(a.RoomName) == NormalizeKey(b.RoomName)) {
		return true
	}
	lecturerA, okA := resolver.ResolveLecturer(a.LecturerRef)
	lecturerB, okB := resolver.ResolveLecturer(b.LecturerRef)
	return sameIdentity(okA && okB, lecturerA == lecturerB, LecturerKey(a.LecturerRef) == LecturerKey(b.LecturerRef))
}

func sameIdentity(resolved, sameID, sameText bool) bool {
	if resolved {
		return sameID
	}
	return sameText
}

// parseSlotCell splits "2,4" into slot numbers. Entries that are not positive integers become 0
// so they surface as an unresolved slot instead of disappearing.
func parseSlotCell(raw string) []int {
	parts := strings.Split(raw, ",")
	slots := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			n = 0
		}
		slots = append(slots, n)
	}
	if len(slots) == 0 {
		slots = append(slots, 0)
	}
	return slots
}

func parseWeekday(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < models.WeekdayMonday || n > models.WeekdaySunday {
		return 0, false
	}
	return n, true
}
