package uploads

import "pdfextract-backend/internal/shared/storage/record"

const uploadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "owner_id", "owner_display_name", "filename", "storage_path", "size_bytes", "created_at"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "owner_id": {"type": "string", "minLength": 1},
    "owner_display_name": {"type": "string"},
    "filename": {"type": "string", "minLength": 1},
    "storage_path": {"type": "string", "minLength": 1},
    "size_bytes": {"type": "integer", "minimum": 0},
    "created_at": {"type": "string", "format": "date-time"}
  }
}`

var codec = record.MustCodec[Upload]("upload.schema.json", uploadSchema)
