// SPDX-License-Identifier: EPL-2.0

package corpus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy indicates a policy name other than "abort" or "skip"
var ErrUnknownPolicy = errors.New("unknown error policy")

// Policy decides what happens when a file fails to extract.
type Policy int

const (
	// AbortOnError stops the whole run at the first bad file. Nothing is
	// written for the label being processed.
	AbortOnError Policy = iota
	// SkipAndLog logs the file, records it in the report and moves on.
	SkipAndLog
)

func (p Policy) String() string {
	switch p {
	case AbortOnError:
		return "abort"
	case SkipAndLog:
		return "skip"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "abort" or "skip", case insensitive. An empty string
// is AbortOnError.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return AbortOnError, nil
	case "skip":
		return SkipAndLog, nil
	default:
		return AbortOnError, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
