package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Severity Severity
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Misuse (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Set operation on readonly target",
		Detail:   "Readonly views reject writes. The write was ignored.",
	},
	"R002": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Delete operation on readonly target",
		Detail:   "Readonly views reject deletes. The delete was ignored.",
	},
	"R003": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Value cannot be made reactive",
		Detail:   "Only map[string]any, *[]any and map[any]any aggregates can be observed. The value was returned unchanged.",
	},
	"R004": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Write operation on readonly computed",
		Detail:   "The computed value was created without a setter. The write was ignored.",
	},
	"R005": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Invalid watch source",
		Detail:   "A watch source can only be a getter function, a ref, a computed value, a reactive proxy, or a slice of these.",
	},
	"R006": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Watch option ignored",
		Detail:   "The immediate and deep options are only respected when a callback is supplied.",
	},
	"R007": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Mutation on readonly sequence",
		Detail:   "Length-mutating sequence methods are rejected on readonly views. The call was ignored.",
	},
	"R008": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Invalid sequence index",
		Detail:   "Sequence keys must be non-negative integers or \"length\".",
	},
	"R009": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Operation not supported for target kind",
		Detail:   "The operation only applies to a different kind of aggregate. The call was ignored.",
	},
	"R010": {
		Category: CategoryRuntime,
		Severity: SeverityError,
		Message:  "Maximum recursive updates exceeded",
		Detail:   "A job kept re-queuing itself during a single flush. This usually means an effect or component mutates state it also reads.",
	},
	"R011": {
		Category: CategoryRuntime,
		Severity: SeverityWarning,
		Message:  "Injection not found",
		Detail:   "No ancestor component provided a value for this key and no default was given.",
	},

	// ============================================
	// Render Errors (E100-E149)
	// ============================================

	"E100": {
		Category: CategoryRender,
		Severity: SeverityWarning,
		Message:  "Portal target not found",
		Detail:   "The portal target selector did not match a host node. Children were mounted into the parent instead.",
	},
	"E101": {
		Category: CategoryRender,
		Severity: SeverityWarning,
		Message:  "Invalid vnode tag",
		Detail:   "The tag is not an element name, Fragment, Portal, or component.",
	},
	"E102": {
		Category: CategoryRender,
		Severity: SeverityError,
		Message:  "Component render failed",
		Detail:   "A component's render or setup panicked.",
	},
	"E103": {
		Category: CategoryRender,
		Severity: SeverityWarning,
		Message:  "Duplicate key in children",
		Detail:   "Keyed children must have unique keys within a sibling group.",
	},
	"E104": {
		Category: CategoryRender,
		Severity: SeverityWarning,
		Message:  "Invalid event handler",
		Detail:   "Event handlers must be func(vdom.Event) or func().",
	},
	"E105": {
		Category: CategoryRender,
		Severity: SeverityError,
		Message:  "Watch callback failed",
		Detail:   "A watch getter or callback panicked.",
	},

	// ============================================
	// Config Errors (C200-C249)
	// ============================================

	"C200": {
		Category: CategoryConfig,
		Severity: SeverityError,
		Message:  "Invalid configuration file",
		Detail:   "reactor.json could not be read or parsed.",
	},
	"C201": {
		Category: CategoryConfig,
		Severity: SeverityError,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value failed validation.",
	},
	"C202": {
		Category: CategoryConfig,
		Severity: SeverityError,
		Message:  "Configuration write failed",
		Detail:   "reactor.json could not be written.",
	},

	// ============================================
	// Storage Errors (S300-S349)
	// ============================================

	"S300": {
		Category: CategoryStorage,
		Severity: SeverityError,
		Message:  "Snapshot save failed",
		Detail:   "The rendered snapshot could not be persisted.",
	},
	"S301": {
		Category: CategoryStorage,
		Severity: SeverityError,
		Message:  "Invalid snapshot name",
		Detail:   "Snapshot names may only contain letters, digits, '-', '_' and '.'.",
	},
	"S302": {
		Category: CategoryStorage,
		Severity: SeverityError,
		Message:  "Object storage upload failed",
		Detail:   "The S3 PutObject call returned an error.",
	},

	// ============================================
	// CLI Errors (S350-S399)
	// ============================================

	"S350": {
		Category: CategoryCLI,
		Severity: SeverityError,
		Message:  "Invalid command arguments",
		Detail:   "The command was invoked with invalid arguments.",
	},
	"S351": {
		Category: CategoryCLI,
		Severity: SeverityError,
		Message:  "Preview server failed",
		Detail:   "The live preview server stopped with an error.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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
