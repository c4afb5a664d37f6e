// Package analyze implements ApiLens's custom text-analysis pipeline: the
// identifier tokenizer (C1, spec §4.1) that splits fully-qualified
// identifiers into searchable dotted/backtick/generic variants, and the
// per-field analyzer routing table (C2, spec §4.2) that decides which
// fields get tokenised versus matched as exact keywords.
package analyze

import "strings"

// Tokenize applies the C1 token-generation rules (spec §4.1) to a single
// whitespace-delimited token string and returns every emitted variant,
// lower-cased, in the order specified. It is a pure function: deterministic,
// side-effect free, safe to call concurrently from any goroutine.
func Tokenize(input string) []string {
	if input == "" {
		return nil
	}

	var raw []string
	switch {
	case strings.Contains(input, "<"):
		raw = genericTokens(input)
	case strings.Contains(input, "`"):
		raw = backtickTokens(input)
	default:
		raw = dottedTokens(input)
	}

	out := make([]string, len(raw))
	for i, t := range raw {
		out[i] = strings.ToLower(t)
	}
	return out
}

// genericTokens implements rule 1: angle-bracket generics. Contents inside
// the brackets are never parsed; only the base before '<' is decomposed.
func genericTokens(input string) []string {
	idx := strings.IndexByte(input, '<')
	base := input[:idx]
	suffix := input[idx:]
	return append([]string{input}, decomposeBase(base, suffix)...)
}

// backtickTokens implements rule 2: backtick generic-arity suffixes
// (e.g. `` `1 `` or ` ``1 `). Same dotted decomposition as rule 1, with the
// backtick run substituted for the angle-bracket suffix.
func backtickTokens(input string) []string {
	idx := strings.IndexByte(input, '`')
	base := input[:idx]
	suffix := input[idx:]
	return append([]string{input}, decomposeBase(base, suffix)...)
}

// decomposeBase implements the shared base-decomposition used by rules 1
// and 2: if base has no dots, emit base alone; otherwise emit each
// dot-separated segment, then lastSegment+suffix, then every contiguous
// multi-segment sub-run (emitting sub-run+suffix too when that sub-run
// reaches the end of base).
func decomposeBase(base, suffix string) []string {
	if !strings.Contains(base, ".") {
		return []string{base}
	}

	segments := strings.Split(base, ".")
	var out []string
	out = append(out, segments...)
	out = append(out, segments[len(segments)-1]+suffix)

	// Unlike dottedTokens, the full-base sub-run (length == n) is not
	// excluded here: §4.1 rule 1/2 says to emit every sub-run and, when it
	// reaches the end of base, sub-run+suffix too, with no carve-out for
	// the whole base. That duplicates `input` once more at length == n;
	// harmless, since these are alternate terms at the same position.
	n := len(segments)
	for length := 2; length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			joined := strings.Join(segments[start:start+length], ".")
			out = append(out, joined)
			if start+length == n {
				out = append(out, joined+suffix)
			}
		}
	}
	return out
}

// dottedTokens implements rule 3: plain dotted identifiers with no '<' and
// no backtick. Emits the full input, then each segment, then every
// multi-segment contiguous sub-run except the full input itself.
func dottedTokens(input string) []string {
	if !strings.Contains(input, ".") {
		return []string{input}
	}

	segments := strings.Split(input, ".")
	out := []string{input}
	out = append(out, segments...)

	n := len(segments)
	for length := 2; length < n; length++ {
		for start := 0; start+length <= n; start++ {
			out = append(out, strings.Join(segments[start:start+length], "."))
		}
	}
	return out
}
