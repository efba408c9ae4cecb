package document

// WarningKind classifies a non-fatal problem discovered while parsing.
// Warnings accumulate on the index and surface through validate_structure;
// they never fail a tool call.
type WarningKind string

const (
	// WarnMissingInclude — an include target does not exist.
	WarnMissingInclude WarningKind = "missing_include"
	// WarnIncludeReadError — an include target exists but could not be read.
	WarnIncludeReadError WarningKind = "include_read_error"
	// WarnCycle — an include directive points back at a file already
	// open on the include stack.
	WarnCycle WarningKind = "cycle"
	// WarnDepthExceeded — include nesting went past the configured limit.
	WarnDepthExceeded WarningKind = "depth_exceeded"
)

// Warning records where a parse problem happened: the including file,
// the 0-based line of the directive, and the target it named.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	File   string      `json:"file"`
	Line   int         `json:"line"`
	Target string      `json:"target"`
}
