package models

// LookupTables is the reference data one semester's scheduling is resolved against.
// Classes are scoped to Semester.
type LookupTables struct {
	Semester  Semester   `json:"semester"`
	Holidays  []Holiday  `json:"holidays"`
	Classes   []Class    `json:"classes"`
	Rooms     []Room     `json:"rooms"`
	Lecturers []Lecturer `json:"lecturers"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}
