// Package scaffold contains the pure business logic for scaffold operations.
// This is part of the Functional Core - no I/O, only pure functions.
package scaffold

import (
	"fmt"
	"regexp"

	"github.com/example/crudkit/internal/errs"
)

// namePattern accepts word characters optionally joined by single dashes.
var namePattern = regexp.MustCompile(`^\w+(?:-\w+)*$`)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Err     error  // Typed error to surface, when one applies
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("%s", r.Reason)
}

// ValidName reports whether s consists of word characters and dashes, with
// no leading, trailing or doubled dash.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// ScaffoldContext provides context for scaffold request guards.
type ScaffoldContext struct {
	Model       string
	ViewName    string
	ProjectPath string
}

// CanScaffold evaluates whether a scaffold request may proceed.
// Rules: model and view names must be word characters and dashes; a project
// path is required.
func CanScaffold(ctx ScaffoldContext) GuardResult {
	if !ValidName(ctx.Model) {
		err := &errs.InvalidModelNameError{Field: "model", Name: ctx.Model}
		return GuardResult{Allowed: false, Reason: err.Error(), Err: err}
	}
	if !ValidName(ctx.ViewName) {
		err := &errs.InvalidModelNameError{Field: "view", Name: ctx.ViewName}
		return GuardResult{Allowed: false, Reason: err.Error(), Err: err}
	}
	if ctx.ProjectPath == "" {
		reason := "Project path is required. Set project_path in .crudkit.yaml or pass --project-path"
		return GuardResult{
			Allowed: false,
			Reason:  reason,
			Err:     errs.New(errs.ErrKindConfiguration, reason),
		}
	}
	return GuardResult{Allowed: true}
}

// RouteContext provides context for route table operations.
type RouteContext struct {
	ViewName    string
	ProjectPath string
}

// CanReadRoutes evaluates whether a project's route table can be addressed.
func CanReadRoutes(ctx RouteContext) GuardResult {
	if !ValidName(ctx.ViewName) {
		err := &errs.InvalidModelNameError{Field: "view", Name: ctx.ViewName}
		return GuardResult{Allowed: false, Reason: err.Error(), Err: err}
	}
	if ctx.ProjectPath == "" {
		reason := "Project path is required"
		return GuardResult{Allowed: false, Reason: reason, Err: errs.New(errs.ErrKindConfiguration, reason)}
	}
	return GuardResult{Allowed: true}
}
