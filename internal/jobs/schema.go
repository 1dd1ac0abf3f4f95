package jobs

import "pdfextract-backend/internal/shared/storage/record"

// jobSchema encodes the lifecycle invariants: result only on success, error
// only on failure, started_at from running on, finished_at only when terminal.
const jobSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "upload_id", "engine", "status", "result", "error",
               "created_at", "started_at", "finished_at", "owner_id", "owner_display_name"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "upload_id": {"type": "string", "minLength": 1},
    "engine": {"type": "string", "minLength": 1},
    "status": {"enum": ["queued", "running", "succeeded", "failed"]},
    "result": {"type": ["string", "null"]},
    "error": {"type": ["string", "null"]},
    "created_at": {"type": "string", "format": "date-time"},
    "started_at": {"type": ["string", "null"], "format": "date-time"},
    "finished_at": {"type": ["string", "null"], "format": "date-time"},
    "owner_id": {"type": "string", "minLength": 1},
    "owner_display_name": {"type": "string"}
  },
  "allOf": [
    {
      "if": {"properties": {"status": {"const": "queued"}}},
      "then": {"properties": {"result": {"type": "null"}, "error": {"type": "null"},
                              "started_at": {"type": "null"}, "finished_at": {"type": "null"}}}
    },
    {
      "if": {"properties": {"status": {"const": "running"}}},
      "then": {"properties": {"result": {"type": "null"}, "error": {"type": "null"},
                              "started_at": {"type": "string"}, "finished_at": {"type": "null"}}}
    },
    {
      "if": {"properties": {"status": {"const": "succeeded"}}},
      "then": {"properties": {"result": {"type": "string"}, "error": {"type": "null"},
                              "started_at": {"type": "string"}, "finished_at": {"type": "string"}}}
    },
    {
      "if": {"properties": {"status": {"const": "failed"}}},
      "then": {"properties": {"result": {"type": "null"}, "error": {"type": "string"},
                              "started_at": {"type": "string"}, "finished_at": {"type": "string"}}}
    }
  ]
}`

var codec = record.MustCodec[Job]("job.schema.json", jobSchema)
