// Package thingspeak fetches lake sensor readings from a ThingSpeak channel feed.
package thingspeak

import (
	"math"
	"strconv"
	"strings"
)

// FieldResponse is the body of a channel feed request
type FieldResponse struct {
	Channel Channel     `json:"channel"`
	Feeds   []FieldFeed `json:"feeds"`
}

// Channel describes the sensor channel
type Channel struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Field1      string `json:"field1"`
	Field2      string `json:"field2,omitempty"`
	Field3      string `json:"field3,omitempty"`
	Field4      string `json:"field4,omitempty"`
	Field5      string `json:"field5,omitempty"`
	Field6      string `json:"field6,omitempty"`
	Field7      string `json:"field7,omitempty"`
	Field8      string `json:"field8,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	LastEntryID int64  `json:"last_entry_id"`
}

// FieldFeed is one sample. Fields are strings and may be null.
type FieldFeed struct {
	CreatedAt string  `json:"created_at"`
	EntryID   int64   `json:"entry_id"`
	Field1    *string `json:"field1"`
	Field2    *string `json:"field2,omitempty"`
	Field3    *string `json:"field3,omitempty"`
	Field4    *string `json:"field4,omitempty"`
	Field5    *string `json:"field5,omitempty"`
	Field6    *string `json:"field6,omitempty"`
	Field7    *string `json:"field7,omitempty"`
	Field8    *string `json:"field8,omitempty"`
}

// Field returns the raw value of field n (1-8), or nil
func (f FieldFeed) Field(n int) *string {
	switch n {
	case 1:
		return f.Field1
	case 2:
		return f.Field2
	case 3:
		return f.Field3
	case 4:
		return f.Field4
	case 5:
		return f.Field5
	case 6:
		return f.Field6
	case 7:
		return f.Field7
	case 8:
		return f.Field8
	default:
		return nil
	}
}

// FieldValue parses field n. Empty, unparsable and non-finite values
// report false.
func (f FieldFeed) FieldValue(n int) (float64, bool) {
	raw := f.Field(n)
	if raw == nil {
		return 0, false
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// DayResponse is the feed for one day together with its raw body
type DayResponse struct {
	Day      string
	Response FieldResponse
	Raw      []byte
}
