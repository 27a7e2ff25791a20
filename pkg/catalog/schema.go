// pkg/catalog/schema.go
package catalog

// Catalog is the on-disk seed format for the activity registry.
type Catalog struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity is one seeded extracurricular activity.
type Activity struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"maxParticipants"`
	Participants    []string `json:"participants"`
}

// documentSchema is checked with gojsonschema before decoding. Cross-entry
// invariants (unique names, roster within capacity) are checked in Validate.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["activities"],
  "properties": {
    "version": {"type": "string"},
    "lastUpdated": {"type": "string"},
    "activities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "description", "schedule", "maxParticipants", "participants"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1, "maxLength": 200},
          "description": {"type": "string"},
          "schedule": {"type": "string"},
          "maxParticipants": {"type": "integer", "minimum": 1},
          "participants": {
            "type": "array",
            "uniqueItems": true,
            "items": {"type": "string", "minLength": 1}
          }
        }
      }
    }
  }
}`
