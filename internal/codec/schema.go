package codec

// DefaultSchemaURL identifies the built-in document schema.
const DefaultSchemaURL = "https://github.com/nibzard/capplan-go/document.schema.json"

// DefaultSchema is the JSON Schema used when no schema file is configured.
const DefaultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/nibzard/capplan-go/document.schema.json",
  "$ref": "#/$defs/activity",
  "$defs": {
    "date": {"type": ["number", "null"]},
    "activity": {
      "type": "object",
      "required": ["activity_type"],
      "properties": {
        "activity_type": {"enum": ["task", "milestone", "serial", "parallel", "project"]},
        "title": {"type": ["string", "null"]},
        "duration": {"type": "number", "minimum": 0},
        "base_duration": {"type": "number", "minimum": 0},
        "progress": {"type": "number", "minimum": 0, "maximum": 1},
        "resources": {"type": ["array", "null"], "items": {"type": "string"}},
        "end": {"$ref": "#/$defs/date"},
        "start": {"$ref": "#/$defs/date"},
        "deadline": {"$ref": "#/$defs/date"},
        "next_task": {"type": "string"},
        "finished": {"type": "boolean"},
        "metadata": {"type": ["object", "null"]},
        "activities": {"type": "array", "items": {"$ref": "#/$defs/activity"}}
      },
      "allOf": [
        {
          "if": {"properties": {"activity_type": {"enum": ["task", "milestone"]}}},
          "then": {"not": {"required": ["activities"]}}
        },
        {
          "if": {"properties": {"activity_type": {"const": "project"}}},
          "then": {"required": ["activities"], "properties": {"activities": {"minItems": 1}}}
        }
      ]
    }
  }
}
`
