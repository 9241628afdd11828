package scanner

import "strings"

// skipMatcher implements the single-substring skip predicate: a Dir or
// Files task is discarded if the substring is non-empty and the task's
// full path contains it. Raw-byte containment and string containment
// coincide for ASCII substrings, which covers the overwhelming common
// case; since Go strings are just byte slices this needs no POSIX/Windows
// split, unlike the original's raw-bytes-vs-UTF8 distinction.
type skipMatcher struct {
	substr string
}

func newSkipMatcher(substr string) skipMatcher {
	return skipMatcher{substr: substr}
}

func (m skipMatcher) shouldSkip(path string) bool {
	if m.substr == "" {
		return false
	}
	return strings.Contains(path, m.substr)
}
