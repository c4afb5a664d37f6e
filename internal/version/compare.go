// Package version implements the total order over framework monikers and
// package versions that C6 uses to pick "latest" (spec §4.8).
package version

import (
	"strconv"
	"strings"
)

// CompareFrameworks orders framework monikers newest-first: net{N}.0
// descending, then netcoreapp{N}.M descending, then netstandard{N}.M
// descending, then any other moniker case-insensitively and
// lexicographically. Returns >0 if a ranks above (newer than) b, <0 if
// below, 0 if equal. An empty moniker sorts after every defined value.
func CompareFrameworks(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	ba, ta := bucketOf(a)
	bb, tb := bucketOf(b)
	if ba != bb {
		// Lower bucket number means newer; newer ranks "above" (>0).
		if ba < bb {
			return 1
		}
		return -1
	}

	switch ba {
	case bucketNet, bucketNetCoreApp, bucketNetStandard:
		return compareNumericTuple(ta, tb)
	default:
		// Case-insensitive lexicographic.
		al, bl := strings.ToLower(a), strings.ToLower(b)
		switch {
		case al == bl:
			return 0
		case al > bl:
			return 1
		default:
			return -1
		}
	}
}

const (
	bucketNet = iota
	bucketNetCoreApp
	bucketNetStandard
	bucketOther
)

// bucketOf classifies a framework moniker and extracts its numeric tuple
// (for the three recognised buckets).
func bucketOf(moniker string) (int, []int) {
	lower := strings.ToLower(moniker)
	switch {
	case strings.HasPrefix(lower, "netcoreapp"):
		return bucketNetCoreApp, numericTuple(lower[len("netcoreapp"):])
	case strings.HasPrefix(lower, "netstandard"):
		return bucketNetStandard, numericTuple(lower[len("netstandard"):])
	case strings.HasPrefix(lower, "net") && len(lower) > 3 && isDigit(lower[3]):
		return bucketNet, numericTuple(lower[len("net"):])
	default:
		return bucketOther, nil
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// numericTuple parses a dotted run of digits (e.g. "8.0", "7") into ints,
// ignoring any trailing non-numeric suffix.
func numericTuple(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ".") {
		digits := strings.TrimFunc(part, func(r rune) bool { return r < '0' || r > '9' })
		if digits == "" {
			break
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			break
		}
		out = append(out, n)
	}
	return out
}

// compareNumericTuple compares two numeric tuples element-wise, treating a
// missing trailing element as 0; higher tuple sorts newer (>0).
func compareNumericTuple(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// CompareVersions orders package versions: split on '.' and '-', compare
// each numeric prefix numerically and remaining segments lexicographically;
// a version with no pre-release suffix sorts greater than one with a
// pre-release suffix of the same numeric prefix. Returns >0 if a is newer
// than b, <0 if older, 0 if equal. An empty version sorts after every
// defined value.
func CompareVersions(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	coreA, preA := splitPrerelease(a)
	coreB, preB := splitPrerelease(b)

	if c := compareDotted(coreA, coreB); c != 0 {
		return c
	}

	switch {
	case preA == "" && preB == "":
		return 0
	case preA == "" && preB != "":
		return 1
	case preA != "" && preB == "":
		return -1
	default:
		return compareDotted(preA, preB)
	}
}

// splitPrerelease splits a version string on the first '-' into its numeric
// core and pre-release suffix (suffix is empty if there is no '-').
func splitPrerelease(v string) (core, pre string) {
	if i := strings.IndexByte(v, '-'); i >= 0 {
		return v[:i], v[i+1:]
	}
	return v, ""
}

// compareDotted compares two dot-separated strings, segment by segment:
// numeric segments compare numerically, anything else compares
// lexicographically. Missing trailing segments compare as less than any
// present segment.
func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv string
		hasA := i < len(as)
		hasB := i < len(bs)
		if hasA {
			av = as[i]
		}
		if hasB {
			bv = bs[i]
		}
		if !hasA && !hasB {
			continue
		}
		if !hasA {
			return -1
		}
		if !hasB {
			return 1
		}
		if c := compareSegment(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

func compareSegment(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an > bn:
			return 1
		case an < bn:
			return -1
		default:
			return 0
		}
	}
	switch {
	case a == b:
		return 0
	case a > b:
		return 1
	default:
		return -1
	}
}
