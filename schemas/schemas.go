// Package schemas embeds the JSON Schemas shipped with the binary.
package schemas

import "embed"

// CareerDocument is the schema file name for career documents
const CareerDocument = "career_document.schema.json"

// FS holds every *.schema.json in this directory
//
//go:embed *.schema.json
var FS embed.FS
