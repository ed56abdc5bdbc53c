package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Input Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryInput,
		Message:  "Project setup cancelled",
		Detail:   "The questionnaire was abandoned before it was completed. Nothing was created.",
	},
	"E101": {
		Category: CategoryInput,
		Message:  "Invalid project configuration",
		Detail:   "A project needs a non-empty name and at least one known feature.",
	},

	// ============================================
	// Fetch Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryFetch,
		Message:  "Unsupported template source",
		Detail:   "The template source is not a git URL, archive URL, s3:// location or local directory.",
	},
	"E111": {
		Category: CategoryFetch,
		Message:  "Template fetch failed",
		Detail:   "The starter template could not be downloaded.",
	},
	"E112": {
		Category: CategoryFetch,
		Message:  "Destination already exists",
		Detail:   "The project directory already exists and is not empty.",
	},

	// ============================================
	// Prune Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryPrune,
		Message:  "Feature pruning failed",
		Detail:   "A template file for an unselected feature could not be removed.",
	},
	"E121": {
		Category: CategoryPrune,
		Message:  "Feature path escapes project",
		Detail:   "Feature paths must be relative to the project directory.",
	},

	// ============================================
	// Setup Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategorySetup,
		Message:  "Setup step failed",
		Detail:   "An external setup command exited with a non-zero status.",
	},
	"E131": {
		Category: CategorySetup,
		Message:  "Command not found",
		Detail:   "A setup command is not installed or not on PATH.",
	},
	"E132": {
		Category: CategorySetup,
		Message:  "Setup step interrupted",
		Detail:   "The run was cancelled while an external command was running.",
	},
	"E133": {
		Category: CategorySetup,
		Message:  "Project promotion failed",
		Detail:   "The configured project could not be moved from its staging directory into place.",
	},

	// ============================================
	// Configuration Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryConfig,
		Message:  "Invalid settings file",
		Detail:   "The settings file could not be read or parsed as YAML.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Invalid settings value",
		Detail:   "A setting or environment override has an invalid value.",
	},

	// ============================================
	// CLI Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Could not write run report",
		Detail:   "The JSON run report could not be written.",
	},
	"E151": {
		Category: CategoryCLI,
		Message:  "Could not write metrics",
		Detail:   "The Prometheus textfile could not be written.",
	},
}

// Lookup returns the registered template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
