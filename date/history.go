package date

import (
	"iter"
	"slices"
)

// History is a series of values indexed by unique dates, kept in chronological
// order.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of dates in the history.
func (h *History[T]) Len() int { return len(h.days) }

func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Append sets the value on a date, replacing the existing one if any.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Get returns the value on day.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// Values iterates over the date/value pairs in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Common returns the dates present in every history, in chronological order.
//
// It is the inner join of the histories' dates: a date missing from any of them
// is dropped. With no history at all, it returns nil.
func Common[T float32 | float64 | string](histories ...*History[T]) []Date {
	if len(histories) == 0 {
		return nil
	}
	var days []Date
next:
	for on := range Iterate(histories...) {
		for _, h := range histories {
			if _, ok := h.search(on); !ok {
				continue next
			}
		}
		days = append(days, on)
	}
	return days
}
