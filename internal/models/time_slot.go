package models

// TimeSlot is a fixed daily teaching period. Number is the 1-based rank by start time
// used on spreadsheets and is never persisted.
type TimeSlot struct {
	ID        int64  `db:"id" json:"id"`
	StartTime string `db:"start_time" json:"startTime"`
	EndTime   string `db:"end_time" json:"endTime"`
	Number    int    `db:"-" json:"slotNumber"`
}
