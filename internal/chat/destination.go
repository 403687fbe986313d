package chat

import (
	"encoding/json"

	"travelchat/internal/jsonutil"
)

// Destination is the destination guide carried by a destination_info message.
type Destination struct {
	Location string  `json:"location,omitempty"`
	Details  Details `json:"details"`
	Response string  `json:"response,omitempty"`
}

// Details holds the optional guide sections of a destination.
type Details struct {
	Attractions    Entry
	Cuisine        Entry
	BestTime       Entry
	Transportation Entry
	Tips           Entry
}

// Empty reports whether no section carries content.
func (d Details) Empty() bool {
	return d.Attractions.Empty() && d.Cuisine.Empty() && d.BestTime.Empty() &&
		d.Transportation.Empty() && d.Tips.Empty()
}

type wireDetails struct {
	Attractions    *Entry `json:"attractions,omitempty"`
	Cuisine        *Entry `json:"cuisine,omitempty"`
	BestTime       *Entry `json:"best_time,omitempty"`
	Transportation *Entry `json:"transportation,omitempty"`
	Tips           *Entry `json:"tips,omitempty"`
}

// MarshalJSON implements json.Marshaler. Empty entries are omitted.
func (d Details) MarshalJSON() ([]byte, error) {
	entry := func(e Entry) *Entry {
		if e.Empty() {
			return nil
		}
		return &e
	}
	return json.Marshal(wireDetails{
		Attractions:    entry(d.Attractions),
		Cuisine:        entry(d.Cuisine),
		BestTime:       entry(d.BestTime),
		Transportation: entry(d.Transportation),
		Tips:           entry(d.Tips),
	})
}

// UnmarshalJSON implements json.Unmarshaler. Anything but an object decodes
// to empty Details.
func (d *Details) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsonutil.UnmarshalWithContext(data, &raw, "decode details"); err != nil {
		return err
	}
	*d = detailsFromValue(raw)
	return nil
}

func detailsFromValue(raw interface{}) Details {
	obj, ok := jsonutil.AsObject(raw)
	if !ok {
		return Details{}
	}
	return Details{
		Attractions:    entryFromValue(obj["attractions"]),
		Cuisine:        entryFromValue(obj["cuisine"]),
		BestTime:       entryFromValue(obj["best_time"]),
		Transportation: entryFromValue(obj["transportation"]),
		Tips:           entryFromValue(obj["tips"]),
	}
}

// Entry is one details field: an ordered list of items or a single text block.
// The zero Entry is absent.
type Entry struct {
	Items  []string
	Text   string
	IsList bool
}

// ListEntry returns a list entry.
func ListEntry(items ...string) Entry {
	return Entry{Items: items, IsList: true}
}

// TextEntry returns a text entry.
func TextEntry(text string) Entry {
	return Entry{Text: text}
}

// Empty reports whether the entry has nothing to show: it is absent, an empty
// list, or empty text.
func (e Entry) Empty() bool {
	if e.IsList {
		return len(e.Items) == 0
	}
	return e.Text == ""
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.IsList {
		return json.Marshal(e.Items)
	}
	return json.Marshal(e.Text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsonutil.UnmarshalWithContext(data, &raw, "decode details entry"); err != nil {
		return err
	}
	*e = entryFromValue(raw)
	return nil
}

func entryFromValue(raw interface{}) Entry {
	if !jsonutil.Truthy(raw) {
		return Entry{}
	}
	if items, ok := jsonutil.AsSlice(raw); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, jsonutil.ToString(item))
		}
		return ListEntry(out...)
	}
	return TextEntry(jsonutil.ToString(raw))
}

// DecodeDestination decodes a destination from arbitrary JSON. It returns nil
// when data is not a JSON object (null, a string, an array, invalid JSON).
func DecodeDestination(data []byte) *Destination {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	obj, ok := jsonutil.AsObject(raw)
	if !ok {
		return nil
	}
	d := &Destination{
		Location: jsonutil.ToString(obj["location"]),
		Details:  detailsFromValue(obj["details"]),
	}
	if jsonutil.Truthy(obj["response"]) {
		d.Response = jsonutil.ToString(obj["response"])
	}
	return d
}
