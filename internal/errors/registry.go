package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Document Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryDocument,
		Message:  "Structural conflict",
		Detail:   "A node of a unique kind can appear at most once under one parent. The document was not rendered.",
		DocURL:   "https://tagtree.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryDocument,
		Message:  "Unknown tag",
		Detail:   "The document uses a tag name that is not part of the vocabulary.",
		DocURL:   "https://tagtree.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryDocument,
		Message:  "Invalid document node",
		Detail:   "Every node needs exactly one of \"tag\" or \"text\". Text nodes cannot carry attributes or children.",
		DocURL:   "https://tagtree.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryDocument,
		Message:  "Text leaves cannot have children",
		Detail:   "A child was registered on a text leaf.",
		DocURL:   "https://tagtree.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryDocument,
		Message:  "Node already attached",
		Detail:   "A node can belong to one parent only and cannot contain itself.",
		DocURL:   "https://tagtree.dev/docs/errors/E104",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "tagtree.json could not be read or parsed.",
		DocURL:   "https://tagtree.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid indentation unit",
		Detail:   "The indentation unit must be non-empty and contain only spaces and tabs.",
		DocURL:   "https://tagtree.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The specified port is invalid or out of range.",
		DocURL:   "https://tagtree.dev/docs/errors/E122",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Not a tagtree project",
		Detail:   "No tagtree.json was found in this directory or any parent.",
		DocURL:   "https://tagtree.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Document not found",
		Detail:   "The document description file does not exist or cannot be read.",
		DocURL:   "https://tagtree.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Render failed",
		Detail:   "The rendered output could not be written.",
		DocURL:   "https://tagtree.dev/docs/errors/E142",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The preview server stopped with an error.",
		DocURL:   "https://tagtree.dev/docs/errors/E143",
	},

	// ============================================
	// Publish Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "The rendered document could not be stored.",
		DocURL:   "https://tagtree.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryPublish,
		Message:  "Unknown publish target",
		Detail:   "The publish target must be \"disk\" or \"s3\".",
		DocURL:   "https://tagtree.dev/docs/errors/E161",
	},
	"E162": {
		Category: CategoryPublish,
		Message:  "Missing bucket",
		Detail:   "Publishing to S3 requires a bucket name.",
		DocURL:   "https://tagtree.dev/docs/errors/E162",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
