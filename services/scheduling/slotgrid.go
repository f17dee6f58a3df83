package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"appointly/models"
	"appointly/utils"
)

const (
	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// CanonicalDay maps a weekday name in any case to its canonical form
// ("monday" -> "Monday").
func CanonicalDay(day string) (string, bool) {
	day = strings.TrimSpace(day)
	for _, d := range weekdays {
		if strings.EqualFold(d, day) {
			return d, true
		}
	}
	return "", false
}

// SlotLabel formats the "HH:MM - HH:MM" address of a slot.
func SlotLabel(start, end string) string {
	return start + " - " + end
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:MM", value)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatClock(offset time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(offset.Hours()), int(offset.Minutes())%60)
}

// GenerateSlots partitions [startTime, endTime) into contiguous slots of
// durationMinutes. A trailing remainder shorter than one slot is dropped.
func GenerateSlots(startTime, endTime string, durationMinutes int) ([]models.Slot, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return nil, utils.ValidationError("%v", err)
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil, utils.ValidationError("%v", err)
	}
	if durationMinutes <= 0 {
		return nil, utils.ValidationError("slot duration must be positive")
	}
	if end <= start {
		return nil, utils.ValidationError("end time must be after start time")
	}

	step := time.Duration(durationMinutes) * time.Minute
	slots := []models.Slot{}
	for cur := start; cur+step <= end; cur += step {
		s, e := formatClock(cur), formatClock(cur+step)
		slots = append(slots, models.Slot{Start: s, End: e, Time: SlotLabel(s, e)})
	}
	return slots, nil
}

// BuildWeek canonicalizes raw availability ranges into the stored weekly
// template. Days are emitted in calendar order; a day listed twice is rejected.
func BuildWeek(inputs []models.AvailabilityInput) ([]models.DayAvailability, error) {
	seen := make(map[string]bool, len(inputs))
	week := make([]models.DayAvailability, 0, len(inputs))
	for _, in := range inputs {
		day, ok := CanonicalDay(in.Day)
		if !ok {
			return nil, utils.ValidationError("unknown weekday %q", in.Day)
		}
		if seen[day] {
			return nil, utils.ValidationError("weekday %s listed more than once", day)
		}
		seen[day] = true

		slots, err := GenerateSlots(in.StartTime, in.EndTime, in.SlotMinutes)
		if err != nil {
			return nil, err
		}
		week = append(week, models.DayAvailability{Day: day, Slots: slots})
	}
	sort.SliceStable(week, func(i, j int) bool { return dayIndex(week[i].Day) < dayIndex(week[j].Day) })
	return week, nil
}

func dayIndex(day string) int {
	for i, d := range weekdays {
		if d == day {
			return i
		}
	}
	return len(weekdays)
}

// ParseDate parses an ISO calendar date in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, utils.ValidationError("invalid date %q, expected YYYY-MM-DD", date)
	}
	return d, nil
}

// NormalizeDates validates, deduplicates and sorts ISO dates.
func NormalizeDates(dates []string) ([]string, error) {
	set := make(map[string]struct{}, len(dates))
	for _, raw := range dates {
		d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
		if err != nil {
			return nil, utils.ValidationError("invalid date %q, expected YYYY-MM-DD", raw)
		}
		set[d.Format(dateLayout)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

// IsUnavailable reports whether date is on the provider's blocklist.
func IsUnavailable(p *models.Provider, date string) bool {
	for _, d := range p.UnavailableDates {
		if d == date {
			return true
		}
	}
	return false
}

// DaySlotsOf returns the weekly template entry for day, or nil.
func DaySlotsOf(p *models.Provider, day string) *models.DayAvailability {
	for i := range p.WeeklyAvailability {
		if strings.EqualFold(p.WeeklyAvailability[i].Day, day) {
			return &p.WeeklyAvailability[i]
		}
	}
	return nil
}

// FindSlot looks up the slot labelled slotTime on day.
func FindSlot(p *models.Provider, day, slotTime string) (models.Slot, bool) {
	entry := DaySlotsOf(p, day)
	if entry == nil {
		return models.Slot{}, false
	}
	for _, s := range entry.Slots {
		if s.Time == slotTime {
			return s, true
		}
	}
	return models.Slot{}, false
}

// SlotInterval converts a slot on a calendar day to instants.
func SlotInterval(day time.Time, slot models.Slot) (time.Time, time.Time, error) {
	start, err := parseClock(slot.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseClock(slot.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return atClock(day, start), atClock(day, end), nil
}

// atClock resolves a time of day on day's calendar date in day's location.
func atClock(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	h := int(offset / time.Hour)
	min := int(offset % time.Hour / time.Minute)
	return time.Date(y, m, d, h, min, 0, 0, day.Location()).UTC()
}

// SlotsForDate projects the provider's weekly template onto one date.
// A slot is booked when it is held or overlaps any of the live appointments.
func SlotsForDate(p *models.Provider, day time.Time, live []models.Appointment) models.DaySlots {
	date := day.Format(dateLayout)
	weekday := day.Weekday().String()
	view := models.DaySlots{Date: date, Day: weekday, Slots: []models.SlotView{}}
	if IsUnavailable(p, date) {
		return view
	}
	entry := DaySlotsOf(p, weekday)
	if entry == nil {
		return view
	}

	for _, s := range entry.Slots {
		booked := s.Held
		if !booked {
			start, end, err := SlotInterval(day, s)
			if err != nil {
				continue
			}
			for _, a := range live {
				if a.Status.IsLive() && Overlaps(a.Start, a.End, start, end) {
					booked = true
					break
				}
			}
		}
		view.Slots = append(view.Slots, models.SlotView{
			Start:    s.Start,
			End:      s.End,
			Time:     s.Time,
			IsBooked: booked,
		})
	}
	return view
}

// dayBounds returns [midnight, next midnight) of day in its location.
func dayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
