package airtable

import (
	"fmt"

	"github.com/aretw0/airfetch/pkg/core"
)

// listResponse is the body of GET /v0/{base}/{table}.
type listResponse struct {
	Records []wireRecord `json:"records"`
	Offset  string       `json:"offset,omitempty"`
}

type wireRecord struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// toRecord splits the open field map into known fields and Extra.
// Title, SubFolder and Extension accept any scalar (formula fields often
// yield numbers). A known field holding an unexpected type is treated as
// absent and kept in Extra.
func (w wireRecord) toRecord() core.Record {
	rec := core.Record{ID: w.ID}
	extra := make(map[string]any)

	for name, v := range w.Fields {
		if v == nil {
			continue
		}
		switch name {
		case FieldTitle:
			if s, ok := scalarString(v); ok {
				rec.Fields.Title = s
				continue
			}
		case FieldMD:
			if s, ok := v.(string); ok {
				rec.Fields.MD = s
				continue
			}
		case FieldSubFolder:
			if s, ok := scalarString(v); ok {
				rec.Fields.SubFolder = s
				continue
			}
		case FieldUpdatedIn:
			if f, ok := v.(float64); ok {
				rec.Fields.UpdatedIn = &f
				continue
			}
		case FieldExtension:
			if s, ok := scalarString(v); ok {
				rec.Fields.Extension = &s
				continue
			}
		}
		extra[name] = v
	}

	if len(extra) > 0 {
		rec.Fields.Extra = extra
	}
	return rec
}

// scalarString renders JSON strings, numbers and booleans as text.
func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64, bool:
		return fmt.Sprint(v), true
	}
	return "", false
}
