package clover

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"groompro-backend/utils"

	"github.com/tidwall/gjson"
)

// Window is a half-open [Start, End) time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w Window) overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Hours are the business hours used when an employee has no shift for the day.
type Hours struct {
	Open        string
	Close       string
	SlotMinutes int
	Location    *time.Location
}

// Shifts returns the employee's clocked or scheduled shifts that start within [from, to).
func (c *Client) Shifts(ctx context.Context, employeeID string, from, to time.Time) ([]Window, error) {
	query := url.Values{
		"filter": {
			"in_time>=" + strconv.FormatInt(from.UnixMilli(), 10),
			"in_time<" + strconv.FormatInt(to.UnixMilli(), 10),
		},
	}
	raw, err := c.get(ctx, "/employees/"+url.PathEscape(employeeID)+"/shifts", query)
	if err != nil {
		return nil, fmt.Errorf("shifts for %s: %w", employeeID, err)
	}

	var out []Window
	gjson.GetBytes(raw, "elements").ForEach(func(_, e gjson.Result) bool {
		in := firstInt(e, "overrideInTime", "inTime")
		outT := firstInt(e, "overrideOutTime", "outTime")
		if in == 0 {
			return true
		}
		w := Window{Start: time.UnixMilli(in)}
		if outT > in {
			w.End = time.UnixMilli(outT)
		}
		out = append(out, w)
		return true
	})
	return out, nil
}

func firstInt(r gjson.Result, keys ...string) int64 {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() && v.Int() > 0 {
			return v.Int()
		}
	}
	return 0
}

// Availability returns the free slots for employeeID on day. Working windows come
// from Clover shifts, or from business hours when there are none; booked windows
// are removed.
func (c *Client) Availability(ctx context.Context, employeeID string, day time.Time, hours Hours, booked []Window) ([]Window, error) {
	loc := hours.Location
	if loc == nil {
		loc = time.UTC
	}
	start := utils.BeginningOfDay(day.In(loc))
	end := start.AddDate(0, 0, 1)

	shifts, err := c.Shifts(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	working, err := workingWindows(start, end, shifts, hours)
	if err != nil {
		return nil, err
	}
	return FreeSlots(working, booked, time.Duration(hours.SlotMinutes)*time.Minute), nil
}

func workingWindows(dayStart, dayEnd time.Time, shifts []Window, hours Hours) ([]Window, error) {
	var out []Window
	for _, s := range shifts {
		// An open shift (still clocked in) runs to the end of business hours.
		if s.End.IsZero() {
			closeAt, err := utils.AtClock(dayStart, hours.Close)
			if err != nil {
				return nil, err
			}
			s.End = closeAt
		}
		if s.End.After(dayEnd) {
			s.End = dayEnd
		}
		if s.End.After(s.Start) {
			out = append(out, Window{Start: s.Start.In(dayStart.Location()), End: s.End.In(dayStart.Location())})
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	openAt, err := utils.AtClock(dayStart, hours.Open)
	if err != nil {
		return nil, err
	}
	closeAt, err := utils.AtClock(dayStart, hours.Close)
	if err != nil {
		return nil, err
	}
	if !closeAt.After(openAt) {
		return nil, fmt.Errorf("business hours close %s is not after open %s", hours.Close, hours.Open)
	}
	return []Window{{Start: openAt, End: closeAt}}, nil
}

// FreeSlots cuts each working window into slot-sized pieces and drops every piece
// that overlaps a booked window. Overlapping working windows are merged first.
func FreeSlots(working, booked []Window, slot time.Duration) []Window {
	if slot <= 0 {
		slot = 30 * time.Minute
	}
	merged := mergeWindows(working)

	var out []Window
	for _, w := range merged {
		for t := w.Start; !t.Add(slot).After(w.End); t = t.Add(slot) {
			candidate := Window{Start: t, End: t.Add(slot)}
			free := true
			for _, b := range booked {
				if candidate.overlaps(b) {
					free = false
					break
				}
			}
			if free {
				out = append(out, candidate)
			}
		}
	}
	return out
}

func mergeWindows(ws []Window) []Window {
	if len(ws) == 0 {
		return nil
	}
	sorted := append([]Window(nil), ws...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	out := []Window{sorted[0]}
	for _, w := range sorted[1:] {
		last := &out[len(out)-1]
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}
