// Package schemas embeds the JSON Schema documents describing the service's structured artifacts.
package schemas

import "embed"

// ResumeRecordFile is the schema file for the parsed resume record.
const ResumeRecordFile = "resume_record.schema.json"

// Files holds every schema document in this directory.
//
//go:embed *.schema.json
var Files embed.FS
