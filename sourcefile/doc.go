// Package sourcefile parses .env override files.
//
// Each line is split with shell quoting rules. Assignments look like
// NAME = value or NAME=value; comments, blank and malformed lines are skipped.
// Literal \n and \t in values become newline and tab.
//
// Example:
//
//	file, err := sourcefile.Load(".env", sourcefile.Options{})
//	if errors.Is(err, sourcefile.ErrNotFound) {
//	    // no .env here or in any parent directory
//	}
package sourcefile
