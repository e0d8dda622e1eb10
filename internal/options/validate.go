// Package options provides shared validation of caller-supplied options.
package options

import "fmt"

// ExactlyOne reports an error unless exactly one of sources is set. what
// names the alternatives in the message, e.g. "file or content".
func ExactlyOne(what string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of %s must be provided (got %d)", what, count)
	}
	return nil
}
