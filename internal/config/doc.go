// Package config provides configuration parsing for tagtree projects.
//
// The configuration is stored in tagtree.json at the project root. This
// package handles loading, saving, defaulting and validating it.
//
// # Configuration File Structure
//
//	{
//	  "indent": "tab",
//	  "doctype": "<!DOCTYPE html>",
//	  "document": "site.json",
//	  "serve": {
//	    "host": "localhost",
//	    "port": 4000,
//	    "watch": true,
//	    "debounce": "200ms",
//	    "metrics": true,
//	    "tracing": false
//	  },
//	  "publish": {
//	    "target": "s3",
//	    "bucket": "my-site",
//	    "prefix": "docs/",
//	    "region": "us-east-1"
//	  }
//	}
//
// # Indentation
//
// The indent field accepts a literal unit made of spaces and tabs, or one
// of the aliases "tab", "2" and "4" (two or four spaces).
package config
