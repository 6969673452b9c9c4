// Package document builds markup trees from JSON descriptions.
//
// A description mirrors the tree one node at a time:
//
//	{
//	  "tag": "html",
//	  "attrs": {"lang": "en"},
//	  "children": [
//	    {"tag": "head", "children": [{"tag": "title", "children": [{"text": "An experiment"}]}]},
//	    {"tag": "body", "children": [{"text": "My Contents"}]}
//	  ]
//	}
//
// This is a construction format, not a markup parser: every node goes
// through markup.New and Register, so the same structural rules apply as
// for trees built in Go. Errors carry the path of the offending node
// (e.g., "$.children[1]") as a *PathError.
package document
