// SPDX-License-Identifier: EPL-2.0

package corpus

import "fmt"

// FileError is a file that failed to extract under SkipAndLog.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e FileError) Unwrap() error { return e.Err }

// LabelReport describes one cached label.
type LabelReport struct {
	Label   string
	Index   int
	Files   int // matrices written
	Skipped []FileError
	Key     string // store path of the label array
}

// Report is the outcome of a Transform run, labels in index order.
type Report struct {
	Labels []LabelReport
}

// Files is the number of matrices written across all labels.
func (r *Report) Files() int {
	n := 0
	for _, l := range r.Labels {
		n += l.Files
	}
	return n
}

// Skipped lists every skipped file across all labels.
func (r *Report) Skipped() []FileError {
	var out []FileError
	for _, l := range r.Labels {
		out = append(out, l.Skipped...)
	}
	return out
}
