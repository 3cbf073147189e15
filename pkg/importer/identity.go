package importer

import (
	"github.com/google/uuid"
)

// resolveTableID determines a table's UUID. Each source is tried only when
// the previous one failed: the document's top-level id, a legacy
// "tableUuid" custom property, a legacy metadata tableUuid key, and
// finally a UUID derived deterministically from the table name. The order
// matters: re-importing a document exported with an explicit id must
// reproduce the identical identity.
//
// derived is true when the last resort was taken; callers surface it as a
// warning, since cross-document relationships referencing a derived
// identity may be orphaned.
func resolveTableID(root, metadata map[string]any, tableName string) (id uuid.UUID, derived bool) {
	if root != nil {
		if raw := anyString(root["id"]); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				return id, false
			}
		}
		if props, ok := asSlice(root["customProperties"]); ok {
			for _, p := range props {
				pm, ok := asMap(p)
				if !ok || stringField(pm, "property") != "tableUuid" {
					continue
				}
				if id, err := uuid.Parse(anyString(pm["value"])); err == nil {
					return id, false
				}
			}
		}
	}
	if metadata != nil {
		if raw := anyString(metadata["tableUuid"]); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				return id, false
			}
		}
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(tableName)), true
}
