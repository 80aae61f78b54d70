package orchestrator

import "go.uber.org/multierr"

// Counts is the number of declarations written per stage.
type Counts struct {
	Handles      int `json:"handles"`
	Basetypes    int `json:"basetypes"`
	Bitmasks     int `json:"bitmasks"`
	Enums        int `json:"enums"`
	FuncPointers int `json:"funcpointers"`
	Structures   int `json:"structures"`
	Commands     int `json:"commands"`
	Extensions   int `json:"extensions"`
}

// Family lists the native command names of one command family.
type Family struct {
	Name     string   `json:"name"`
	Commands []string `json:"commands"`
}

// Result is a generated module.
type Result struct {
	Source      []byte
	Counts      Counts
	Families    []Family
	Definitions []string
	// Warnings combines every schema problem with multierr.
	Warnings error
}

// WarningList returns the individual warnings.
func (r *Result) WarningList() []error {
	return multierr.Errors(r.Warnings)
}
