package models

// Slot is one bookable interval of a provider's weekly template.
// Start and End are "HH:MM" times of day; Time is the "HH:MM - HH:MM" label
// used to address the slot.
type Slot struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
	Time  string `bson:"time" json:"time"`
	Held  bool   `bson:"held" json:"held"` // administrative hold, not a booking marker
}

// DayAvailability lists the slots offered on one weekday.
type DayAvailability struct {
	Day   string `bson:"day" json:"day"`
	Slots []Slot `bson:"slots" json:"slots"`
}

// AvailabilityInput is the raw range form accepted when a provider's week is configured.
type AvailabilityInput struct {
	Day         string `json:"day" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	SlotMinutes int    `json:"slotMinutes" binding:"required"`
}

// SlotView is a slot as seen for a concrete date.
type SlotView struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Time     string `json:"time"`
	IsBooked bool   `json:"isBooked"`
}

// DaySlots is the availability of a provider on a concrete date.
type DaySlots struct {
	Date  string     `json:"date"`
	Day   string     `json:"day"`
	Slots []SlotView `json:"slots"`
}
