package models

// Canonical row field names.
const (
	FieldInitiator   = "initiator"
	FieldParticipant = "participant"
	FieldTopic       = "topic"
	FieldTime        = "time"
	FieldVenue       = "venue"
)

// RequiredFields lists the fields every row must carry, in column order.
var RequiredFields = []string{
	FieldInitiator,
	FieldParticipant,
	FieldTopic,
	FieldVenue,
	FieldTime,
}

// Row represents one attendance record keyed by canonical field name.
type Row map[string]string

// Field returns a field value and whether it is present.
func (r Row) Field(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[name]
	return v, ok
}

// Missing returns the first required field absent from the row.
func (r Row) Missing() (string, bool) {
	for _, name := range RequiredFields {
		if _, ok := r.Field(name); !ok {
			return name, true
		}
	}
	return "", false
}
