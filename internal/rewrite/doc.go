// Package rewrite transforms a captured document into its offline form:
// stripping non-portable elements, classifying and rewriting hyperlinks
// into a closed local graph, synthesizing anchors for table-view rows,
// and wiring in the offline-interactivity markup.
package rewrite
