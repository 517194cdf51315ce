package vart

// Options configures a Trie at construction time. The zero value is
// the spec.md default: variable-length keys, the package's built-in
// promotion thresholds (internal/node/builder.go), and the default
// writer retry budget.
//
// There are no environment variables or config files (spec.md §6:
// "None in the core"), matching the teacher, which has no
// configuration surface at all beyond constructor arguments.
type Options struct {
	// FixedLen, when non-zero, declares every key inserted into this
	// Trie to be exactly FixedLen bytes. Insert/Erase/Find panic if
	// handed a key of a different length. This mirrors
	// original_source/tktrie_traits.h's fixed-length specialization,
	// which skips the interior/terminal-leaf distinction entirely for
	// keys of known width (every fixed-length key is representable
	// without ever needing a pre-skip EOS, since no fixed-length key is
	// ever a proper prefix of another). FixedLen == 0 means
	// variable-length, the spec.md default.
	FixedLen int
}

func (o Options) checkKeyLen(key []byte) {
	if o.FixedLen != 0 && len(key) != o.FixedLen {
		panic("vart: key length does not match Options.FixedLen")
	}
}

// Option configures a Trie at construction time via New, the usual Go
// functional-option shape: each Option mutates the Options it is
// eventually applied to.
type Option func(*Options)

// WithFixedLen sets Options.FixedLen.
func WithFixedLen(n int) Option {
	return func(o *Options) { o.FixedLen = n }
}
