// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures across the pipeline.
type ErrorKind string

const (
	KindConfigMissing   ErrorKind = "config-missing"
	KindConfigMalformed ErrorKind = "config-malformed"
	KindSourceMissing   ErrorKind = "source-missing"
	KindUnsupported     ErrorKind = "unsupported-format"
	KindRepair          ErrorKind = "pdf-repair"
	KindConversion      ErrorKind = "conversion"
	// KindMissingPageDimensions is a conversion failure caused by pages
	// without a usable MediaBox. It is the only kind that triggers repair.
	KindMissingPageDimensions ErrorKind = "missing-page-dimensions"
)

// Error carries a kind and the path it concerns alongside the cause.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

// NewError builds an Error of the given kind.
func NewError(kind ErrorKind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so a sentinel such as
// &Error{Kind: KindRepair} can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Path == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the outermost *Error in err's chain, or ""
// when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
