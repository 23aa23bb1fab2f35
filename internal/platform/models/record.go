package models

// RawRecord is one retailer listing in its native field names.
// Field order is kept as inserted.
type RawRecord struct {
	keys   []string
	values map[string]string
}

// NewRawRecord returns empty RawRecord with room for size fields.
func NewRawRecord(size int) RawRecord {
	return RawRecord{
		keys:   make([]string, 0, size),
		values: make(map[string]string, size),
	}
}

// RawFrom builds RawRecord from key, value pairs. A trailing key without value is ignored.
func RawFrom(pairs ...string) RawRecord {
	rec := NewRawRecord(len(pairs) / 2)
	for ix := 0; ix+1 < len(pairs); ix += 2 {
		rec.Set(pairs[ix], pairs[ix+1])
	}
	return rec
}

// Set sets value of the field, appending the field if it is new.
func (r *RawRecord) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns value of the field and whether the field exists.
func (r RawRecord) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns value of the field or empty string.
func (r RawRecord) Value(key string) string {
	return r.values[key]
}

// Keys returns field names in insertion order.
func (r RawRecord) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns number of fields.
func (r RawRecord) Len() int {
	return len(r.keys)
}

// SourceRecords is materialized raw output of one source.
type SourceRecords struct {
	Source  string
	Records []RawRecord
	// Err is set when collection of the source failed.
	Err error
}
