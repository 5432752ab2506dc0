package almanac

import (
	"encoding/json"
	"fmt"
	"slices"
)

const metadataKey = "_metadata"

// Metadata records which days a run processed and which it missed.
type Metadata struct {
	StartDate  string   `json:"startDate,omitempty"`
	EndDate    string   `json:"endDate,omitempty"`
	MissedDays []string `json:"missedDays"`
}

// MarkProcessed widens the processed range to include day and clears it
// from the missed list.
func (m *Metadata) MarkProcessed(day string) {
	if m.StartDate == "" || day < m.StartDate {
		m.StartDate = day
	}
	if m.EndDate == "" || day > m.EndDate {
		m.EndDate = day
	}
	m.MissedDays = slices.DeleteFunc(m.MissedDays, func(d string) bool { return d == day })
}

// MarkMissed records day as missed, keeping the list sorted and unique.
func (m *Metadata) MarkMissed(day string) {
	i, found := slices.BinarySearch(m.MissedDays, day)
	if !found {
		m.MissedDays = slices.Insert(m.MissedDays, i, day)
	}
}

// Forget drops day from the missed list without marking it processed.
func (m *Metadata) Forget(day string) {
	m.MissedDays = slices.DeleteFunc(m.MissedDays, func(d string) bool { return d == day })
}

// Document is the persisted unit: the almanac plus its metadata, encoded as
// one JSON object keyed by year label with metadata under "_metadata".
type Document struct {
	Metadata Metadata
	Almanac  Almanac
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Almanac: Almanac{}}
}

func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Almanac)+1)
	for label, year := range d.Almanac {
		out[label] = year
	}

	meta := d.Metadata
	if meta.MissedDays == nil {
		meta.MissedDays = []string{}
	}
	out[metadataKey] = meta

	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	doc := Document{Almanac: make(Almanac, len(raw))}
	for key, body := range raw {
		if key == metadataKey {
			if err := json.Unmarshal(body, &doc.Metadata); err != nil {
				return fmt.Errorf("decoding %s: %w", metadataKey, err)
			}
			continue
		}
		var year AlmanacYear
		if err := json.Unmarshal(body, &year); err != nil {
			return fmt.Errorf("decoding year %s: %w", key, err)
		}
		doc.Almanac[key] = &year
	}
	slices.Sort(doc.Metadata.MissedDays)

	*d = doc
	return nil
}
