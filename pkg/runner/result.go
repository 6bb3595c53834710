package runner

// FileOutcome wraps a PipelineResult with the path it belongs to.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// Nil if the file could not be processed.
	Result *PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files formatted without error.
	FilesProcessed int

	// FilesChanged is the number of files whose formatting differs.
	FilesChanged int

	// FilesWritten is the number of files rewritten in place.
	FilesWritten int

	// FilesSkipped is the number of files left alone, e.g. after a
	// concurrent modification.
	FilesSkipped int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// ParseErrors is the number of recovered syntax errors across all files.
	ParseErrors int

	// Warnings is the number of ignored option keys and values.
	Warnings int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains errors not tied to a file, such as configuration
	// warnings.
	Errors []error
}

// HasChanges reports whether any file needs formatting.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesChanged > 0
}

// HasFailures reports whether any file could not be processed.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.ParseErrors += len(pr.ParseErrors)
	r.Stats.Warnings += len(pr.Warnings)

	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Changed {
		r.Stats.FilesChanged++
	}
	if pr.Written {
		r.Stats.FilesWritten++
	}
}
