// Package docs catalogs the Markdown documents of a docs directory and
// answers which document ids exist.
//
// Ids follow the Docusaurus rule: the file's directory relative to the docs
// root joined with the frontmatter `id`, or the file name without extension
// when no id is declared. Titles come from frontmatter `sidebar_label`, then
// `title`, then the first level-one heading.
package docs
