// Package streamio adapts pull sequences of byte chunks into standard
// io readers with single-consumption semantics. Once a reader is
// exhausted, further reads deterministically report io.EOF; content is
// never re-emitted and reads never block.
package streamio
