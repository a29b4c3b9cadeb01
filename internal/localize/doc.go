// Package localize rewrites remote asset references in a captured
// document to local paths: images, emoji sprites embedded in inline
// styles, stylesheets, and the font files those stylesheets reference.
package localize
