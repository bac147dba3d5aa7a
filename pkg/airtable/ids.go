// Package airtable retrieves records from the Airtable REST API.
package airtable

import (
	"regexp"

	"github.com/aretw0/airfetch/pkg/core"
)

var sourceURLPattern = regexp.MustCompile(`https?://airtable\.com/(app[^/]+)/(tbl[^/]+)(?:/(viw[^/?]+))?`)

// ExtractIDs pulls base, table and view identifiers out of a shared Airtable URL.
// URLs of any other shape yield empty identifiers, never an error.
func ExtractIDs(url string) core.RemoteIDs {
	m := sourceURLPattern.FindStringSubmatch(url)
	if m == nil {
		return core.RemoteIDs{}
	}
	return core.RemoteIDs{
		BaseID:  m[1],
		TableID: m[2],
		ViewID:  m[3],
	}
}
