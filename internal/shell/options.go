package shell

import "sort"

// knownOptions is the full set of `set`/shell-invocation option letters
// this implementation tracks (spec §6.4's `-abCefmnuvx`), mirroring
// internal/builtins/vars.go's setFlags string.
const knownOptions = "abCefmnuvx"

// Options holds the shell's `set -x`/`set +x`-style boolean flags (spec
// §3.6 "shell options"). Each letter is independent; unknown letters are
// rejected by the caller (internal/builtins.builtinSet already validates
// against the same letter set).
type Options struct {
	flags map[byte]bool
}

// NewOptions creates an Options with every flag off.
func NewOptions() *Options {
	return &Options{flags: map[byte]bool{}}
}

// Set turns flag on or off.
func (o *Options) Set(flag byte, on bool) {
	o.flags[flag] = on
}

// Get reports whether flag is currently on.
func (o *Options) Get(flag byte) bool {
	return o.flags[flag]
}

// String renders the currently-on flags as a single sorted byte string,
// the form `$-` expands to.
func (o *Options) String() string {
	var on []byte
	for _, f := range []byte(knownOptions) {
		if o.flags[f] {
			on = append(on, f)
		}
	}
	sort.Slice(on, func(i, j int) bool { return on[i] < on[j] })
	return string(on)
}

// Clone returns a copy, for subshell snapshotting (options are inherited,
// not reset, per spec §3.6's subshell lifecycle note).
func (o *Options) Clone() *Options {
	c := NewOptions()
	for k, v := range o.flags {
		c.flags[k] = v
	}
	return c
}
