package calendar

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/dori/focusboard/internal/model"
	"github.com/tidwall/gjson"
)

// Event is one calendar entry.
type Event struct {
	ID       string    `json:"id"`
	Summary  string    `json:"summary"`
	Location string    `json:"location,omitempty"`
	Link     string    `json:"link,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay,omitempty"`
}

// parseEvents reads the items array of an events.list response. Cancelled
// events and items without a start are skipped.
func parseEvents(body []byte) []Event {
	var out []Event
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		if item.Get("status").String() == "cancelled" {
			return true
		}
		start, allDay, ok := parseWhen(item.Get("start"))
		if !ok {
			return true
		}
		end, _, ok := parseWhen(item.Get("end"))
		if !ok {
			end = start
		}
		summary := item.Get("summary").String()
		if summary == "" {
			summary = "(no title)"
		}
		out = append(out, Event{
			ID:       item.Get("id").String(),
			Summary:  summary,
			Location: item.Get("location").String(),
			Link:     item.Get("htmlLink").String(),
			Start:    start,
			End:      end,
			AllDay:   allDay,
		})
		return true
	})
	return out
}

func parseWhen(v gjson.Result) (time.Time, bool, bool) {
	if dt := v.Get("dateTime").String(); dt != "" {
		t, err := time.Parse(time.RFC3339, dt)
		return t, false, err == nil
	}
	if d := v.Get("date").String(); d != "" {
		t, err := time.ParseInLocation("2006-01-02", d, time.Local)
		return t, true, err == nil
	}
	return time.Time{}, false, false
}

// KV is the key-value store events are cached in.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Cache is the persisted result of the last sync.
type Cache struct {
	SyncedAt time.Time `json:"syncedAt"`
	Events   []Event   `json:"events"`
}

// SaveCache stores events under the calendar-events key.
func SaveCache(kv KV, events []Event, at time.Time) error {
	data, err := json.Marshal(Cache{SyncedAt: at.UTC(), Events: events})
	if err != nil {
		return err
	}
	return kv.Set(model.CalendarEventsKey, string(data))
}

// LoadCache returns the last synced events. A missing cache is empty.
func LoadCache(kv KV) (Cache, error) {
	raw, ok, err := kv.Get(model.CalendarEventsKey)
	if err != nil || !ok {
		return Cache{}, err
	}
	var c Cache
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cache{}, err
	}
	sort.SliceStable(c.Events, func(i, j int) bool { return c.Events[i].Start.Before(c.Events[j].Start) })
	return c, nil
}

// Between returns the cached events starting within [from, to).
func (c Cache) Between(from, to time.Time) []Event {
	var out []Event
	for _, e := range c.Events {
		if !e.Start.Before(from) && e.Start.Before(to) {
			out = append(out, e)
		}
	}
	return out
}
