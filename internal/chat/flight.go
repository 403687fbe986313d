package chat

import (
	"travelchat/internal/jsonutil"
)

// Flight is one flight option. Times are kept as the strings the provider
// sent; parsing happens at display time.
type Flight struct {
	ID            string   `json:"id,omitempty"`
	Departure     string   `json:"departure"`
	Arrival       string   `json:"arrival"`
	DepartureTime string   `json:"departure_time"`
	ArrivalTime   string   `json:"arrival_time"`
	Price         *float64 `json:"price,omitempty"`
	Airline       string   `json:"airline"`
}

// UnmarshalJSON implements json.Unmarshaler. Fields of the wrong type are
// left empty; a non-object decodes to the zero Flight.
func (f *Flight) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsonutil.UnmarshalWithContext(data, &raw, "decode flight"); err != nil {
		return err
	}
	*f = flightFromValue(raw)
	return nil
}

func flightFromValue(raw interface{}) Flight {
	obj, ok := jsonutil.AsObject(raw)
	if !ok {
		return Flight{}
	}
	f := Flight{
		Departure:     jsonutil.ToString(obj["departure"]),
		Arrival:       jsonutil.ToString(obj["arrival"]),
		DepartureTime: jsonutil.ToString(obj["departure_time"]),
		ArrivalTime:   jsonutil.ToString(obj["arrival_time"]),
		Airline:       jsonutil.ToString(obj["airline"]),
	}
	if jsonutil.Truthy(obj["id"]) {
		f.ID = jsonutil.ToString(obj["id"])
	}
	if p, ok := jsonutil.AsNumber(obj["price"]); ok {
		f.Price = &p
	}
	return f
}

// WithPrice sets the price and returns the flight.
func (f Flight) WithPrice(p float64) Flight {
	f.Price = &p
	return f
}
