// Package main provides the entry point for the notionSnapshot CLI.
//
// notionSnapshot mirrors a public Notion workspace into a self-contained
// offline HTML snapshot: every reachable page is captured after its
// dynamic content has rendered, assets are localized, and internal
// navigation is rewritten to point at local files.
//
// Usage:
//
//	notionsnapshot snapshot <page-url>
//	notionsnapshot history
//
// See --help for all available options.
package main

// main is the entry point for notionSnapshot.
func main() {
	Execute()
}
