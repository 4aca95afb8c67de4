package scheduler

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	dayStartHour = 9
	dayEndHour   = 17
	scanDays     = 7
	maxSlots     = 5
)

// Slot is an offered start time, not yet booked.
type Slot struct {
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	DateTime time.Time `json:"datetime"`
}

type busyKey struct {
	date string
	time string
}

// freeSlots walks hourly wall-clock starts from 09:00 on weekdays of the next 7 days. A slot must end by
// 17:00, must not be in the past and must not collide with a busy date+time pair.
func freeSlots(now time.Time, start time.Time, durationMin int, busy map[busyKey]bool) []Slot {
	slots := []Slot{}
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	for offset := 0; offset < scanDays && len(slots) < maxSlots; offset++ {
		current := day.AddDate(0, 0, offset)
		if wd := current.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for hour := dayStartHour; hour < dayEndHour; hour++ {
			if hour*60+durationMin > dayEndHour*60 {
				break
			}
			at := time.Date(current.Year(), current.Month(), current.Day(), hour, 0, 0, 0, current.Location())
			if !at.After(now) {
				continue
			}
			slot := Slot{Date: at.Format(DateLayout), Time: at.Format(TimeLayout), DateTime: at}
			if busy[busyKey{slot.Date, slot.Time}] {
				continue
			}
			slots = append(slots, slot)
			if len(slots) == maxSlots {
				break
			}
		}
	}
	return slots
}
