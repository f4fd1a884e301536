package v8

// Unwrap strips an engine-added module wrapper from source text and
// rebases the snapshot's range offsets onto the unwrapped text. The
// engine evaluates CommonJS-style modules wrapped in a synthetic
// function, so raw offsets are shifted by the wrapper prefix before
// they can be matched against a parse of the bare module body.
//
// prefixLen and suffixLen are the wrapper lengths in bytes. Offsets are
// clamped to [0, len(unwrapped)]. Neither input is mutated.
func Unwrap(source string, cov ScriptCov, prefixLen, suffixLen int) (string, ScriptCov) {
	if prefixLen < 0 {
		prefixLen = 0
	}
	if suffixLen < 0 {
		suffixLen = 0
	}
	if prefixLen+suffixLen > len(source) {
		return source, cov
	}

	unwrapped := UnwrapSource(source, prefixLen, suffixLen)
	limit := uint32(len(unwrapped))
	shift := uint32(prefixLen)

	out := ScriptCov{
		ScriptID:  cov.ScriptID,
		URL:       cov.URL,
		Functions: make([]FunctionCov, len(cov.Functions)),
	}
	for i, fn := range cov.Functions {
		nf := cloneFunctionCov(fn)
		for j, r := range nf.Ranges {
			nf.Ranges[j].StartOffset = rebase(r.StartOffset, shift, limit)
			nf.Ranges[j].EndOffset = rebase(r.EndOffset, shift, limit)
		}
		out.Functions[i] = nf
	}
	return unwrapped, out
}

// UnwrapSource strips the wrapper from the source text alone. All
// snapshots of one script share the same unwrapped text, so callers
// rebasing several snapshots unwrap the text once with this.
func UnwrapSource(source string, prefixLen, suffixLen int) string {
	if prefixLen < 0 {
		prefixLen = 0
	}
	if suffixLen < 0 {
		suffixLen = 0
	}
	if prefixLen+suffixLen > len(source) {
		return source
	}
	return source[prefixLen : len(source)-suffixLen]
}

func rebase(off, shift, limit uint32) uint32 {
	if off <= shift {
		return 0
	}
	off -= shift
	if off > limit {
		return limit
	}
	return off
}
