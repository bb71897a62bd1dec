// Package navtree models a documentation navigation tree.
//
// A tree is an ordered sequence of nodes. A node is a Category (a labelled,
// ordered group of children), a DocRef (a leaf naming one document) or an
// Unresolved node (raw input the normalizer could not classify). Categories
// nest by value, so a tree is acyclic by construction.
//
// Trees have no mutators. Operations that change structure build a new tree,
// and Freeze stamps a copy with a revision number for the render stage.
package navtree
