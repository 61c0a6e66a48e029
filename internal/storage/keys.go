// Package storage builds object storage keys.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// BuildKey constructs a collision-resistant storage key of the form
// [folder/][ownerID/]<unix-millis>-<filename>. The timestamp segment is
// mandatory: the gateway uploads with upsert disabled, so two uploads of the
// same filename must never share a key.
func BuildKey(folder, ownerID, filename string) string {
	if filename == "" {
		filename = "file"
	}
	// Filenames must not introduce extra path segments.
	filename = strings.ReplaceAll(filename, "/", "_")

	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filename)
	if ownerID != "" {
		key = strings.Trim(ownerID, "/") + "/" + key
	}
	if folder != "" {
		key = strings.Trim(folder, "/") + "/" + key
	}
	return key
}
