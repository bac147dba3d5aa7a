package airtable

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/airfetch/pkg/core"
)

// DefaultAPIRoot is the Airtable REST endpoint.
const DefaultAPIRoot = "https://api.airtable.com/v0/"

// Field names the engine projects and filters on.
const (
	FieldTitle     = "Title"
	FieldMD        = "MD"
	FieldSubFolder = "SubFolder"
	FieldUpdatedIn = "UpdatedIn"
	FieldExtension = "Extension"
)

var projectedFields = []string{FieldTitle, FieldMD, FieldSubFolder, FieldUpdatedIn}

// BuildQuery returns the list-records URL for ids, ending in "offset=" so the
// pagination cursor can be appended as is.
func BuildQuery(apiRoot string, ids core.RemoteIDs, filter core.FilterOption) string {
	var b strings.Builder
	b.WriteString(apiRoot)
	b.WriteString(ids.BaseID)
	b.WriteString("/")
	b.WriteString(ids.TableID)
	b.WriteString("?view=")
	b.WriteString(ids.ViewID)

	for _, f := range projectedFields {
		b.WriteString("&fields%5B%5D=")
		b.WriteString(encodeComponent(f))
	}

	if !filter.All() {
		b.WriteString("&filterByFormula=")
		b.WriteString(encodeComponent(Formula(filter)))
	}

	b.WriteString("&offset=")
	return b.String()
}

// Formula is the filterByFormula clause for a filter window.
func Formula(filter core.FilterOption) string {
	return fmt.Sprintf("{%s} <= %d", FieldUpdatedIn, filter.Days)
}

// encodeComponent escapes s like a URI component: spaces become %20, not "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
