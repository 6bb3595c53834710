// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run fields.
	FieldMode  = "mode"
	FieldJobs  = "jobs"
	FieldRange = "range"

	// Formatting fields.
	FieldOption   = "option"
	FieldValue    = "value"
	FieldLine     = "line"
	FieldColumn   = "column"
	FieldWarnings = "warnings"
	FieldErrors   = "errors"
	FieldGroups   = "groups"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"
	FieldDuration        = "duration"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
