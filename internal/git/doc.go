// Package git reads sidebar declarations and documentation trees from a
// local git repository at an arbitrary revision, without touching the
// working tree.
package git
