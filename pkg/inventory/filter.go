package inventory

import "strings"

// ExcludeAttributes returns a copy of vars without the attributes whose names
// match any of the patterns. Supported patterns:
//   - "prefix*" matches names starting with "prefix"
//   - "*suffix" matches names ending with "suffix"
//   - "*contains*" matches names containing "contains"
//   - "exact" matches the name exactly
func ExcludeAttributes(vars HostVars, patterns []string) HostVars {
	result := make(HostVars, len(vars))

	for name, value := range vars {
		if !matchesAny(name, patterns) {
			result[name] = value
		}
	}

	return result
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchesPattern(name, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern checks if a name matches a wildcard pattern.
func matchesPattern(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	prefixed := strings.HasPrefix(pattern, "*")
	suffixed := strings.HasSuffix(pattern, "*")

	switch {
	case prefixed && suffixed:
		return strings.Contains(name, strings.Trim(pattern, "*"))
	case prefixed:
		return strings.HasSuffix(name, strings.TrimPrefix(pattern, "*"))
	case suffixed:
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
	}

	// wildcard in the middle is not supported
	return false
}
