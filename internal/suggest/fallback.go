package suggest

import "hash/fnv"

// fallbackPool holds generic dictation continuations used when the remote
// generator is unavailable. The set shown for a given key is chosen by a
// stable hash so identical text always yields identical fallback output.
var fallbackPool = [][]string{
	{
		"and I wanted to add that",
		"which means that",
		"so the next step is",
	},
	{
		"because of this,",
		"on the other hand,",
		"to summarize,",
	},
	{
		"and one more thing:",
		"for example,",
		"in other words,",
	},
	{
		"moving on,",
		"as a result,",
		"let me know what you think.",
	},
}

// Fallback returns a deterministic local suggestion set for key. Never empty.
func Fallback(key Key) []string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	set := fallbackPool[h.Sum32()%uint32(len(fallbackPool))]

	out := make([]string, len(set))
	copy(out, set)
	return out
}
