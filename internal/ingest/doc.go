// Package ingest turns authored sidebar declarations into navigation trees.
//
// Declarations are YAML or JSON in the Docusaurus sidebars layout: a mapping
// of sidebar name to items, or a bare item list. Items may be bare document
// ids, typed objects ({type, label, items} / {type: doc, id}), untyped
// objects classified by shape, or the shorthand {Label: [items...]}.
//
// Normalization never fails on odd shapes. Anything it cannot classify is
// kept as a navtree.Unresolved node for the validator to report.
package ingest
