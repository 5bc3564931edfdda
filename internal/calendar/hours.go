package calendar

import "fmt"

// Hours shown by week and day views when nothing else is configured
const (
	DefaultFirstHour = 6
	DefaultLastHour  = 23
)

// HourSlots returns labelled rows for hours from..to inclusive
func (l *Labeler) HourSlots(from, to int) ([]HourSlot, error) {
	if from < 0 || to > 23 || from > to {
		return nil, fmt.Errorf("hour range %d..%d not within 0..23: %w", from, to, ErrInvalidInput)
	}

	slots := make([]HourSlot, 0, to-from+1)
	for h := from; h <= to; h++ {
		label, err := l.FormatHour(h)
		if err != nil {
			return nil, err
		}
		slots = append(slots, HourSlot{Hour: h, Label: label})
	}
	return slots, nil
}

// HourSlots returns English labelled rows for hours from..to inclusive
func HourSlots(from, to int) ([]HourSlot, error) {
	return DefaultLabeler().HourSlots(from, to)
}

// DefaultHourSlots returns the 6 AM to 11 PM rows
func DefaultHourSlots() []HourSlot {
	slots, _ := HourSlots(DefaultFirstHour, DefaultLastHour)
	return slots
}
