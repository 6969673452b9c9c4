// Package errors provides structured, actionable error messages for the
// tagtree command line.
//
// Each error carries a code (e.g., "E100") that maps to a short message, a
// longer explanation and a documentation URL. Library errors from the
// markup and document packages are mapped to their codes by Classify, so
// the CLI can print one consistent report:
//
//	err := errors.New("E100").
//	    WithLocation("site.json", "children[1]").
//	    WithSuggestion("Remove the second head element")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E100: Structural conflict
//	//
//	//   site.json: children[1]
//	//
//	//   A node of a unique kind can appear at most once under one parent.
//	//
//	//   Hint: Remove the second head element
//	//
//	//   Learn more: https://tagtree.dev/docs/errors/E100
//
// # Error Categories
//
//   - document: the tree could not be assembled (structural conflicts,
//     unknown tags, malformed document descriptions)
//   - config: tagtree.json is missing or invalid
//   - publish: the rendered output could not be stored
//   - cli: command line usage errors
package errors
