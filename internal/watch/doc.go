// Package watch re-validates a sidebar whenever it or the documentation tree
// changes, and on a fixed interval so that remote oracles are rechecked.
package watch
