//
// Copyright (c) 2020, NVIDIA CORPORATION. All rights reserved.
//
// See LICENSE.txt for license information
//

package errors

import (
	goerrors "errors"
	"fmt"
)

type InternalError struct {
	msg  string // message associated to the error
	code int    // error code
}

func (i InternalError) Error() string {
	return i.msg
}

// PostError is an error raised while post-processing simulation data. It carries the class
// of the error, the underlying error and, when known, the file and line being processed.
type PostError struct {
	internal InternalError
	details  error
	File     string
	Line     int
}

// ErrNone means success
var ErrNone = InternalError{"Success", 0}

// ErrNotFound means that a file or an entity requested could not be found
var ErrNotFound = InternalError{"Not found", -1}

// ErrInvalidHeader means that the header line of a data file could not be used
var ErrInvalidHeader = InternalError{"Invalid header", -2}

// ErrFatal means that a fatal error occured
var ErrFatal = InternalError{"Fatal error", -3}

// ErrParse means that a line of a data file could not be parsed
var ErrParse = InternalError{"Parse error", -4}

// ErrImagingUnavailable means that no image could be rendered because the rendering
// capability is missing. It is the only recoverable error class.
var ErrImagingUnavailable = InternalError{"Imaging not available", -5}

func New(i InternalError, err error) *PostError {
	e := new(PostError)
	e.details = err
	e.internal = i
	return e
}

// NewAt creates an error for a specific line of a file; line numbers start at 1,
// 0 means the error is not specific to a line.
func NewAt(i InternalError, err error, file string, line int) *PostError {
	e := New(i, err)
	e.File = file
	e.Line = line
	return e
}

func (e *PostError) Error() string {
	prefix := ""
	if e.File != "" {
		prefix = e.File + ": "
		if e.Line > 0 {
			prefix = fmt.Sprintf("%s:%d: ", e.File, e.Line)
		}
	}
	if e.details == nil {
		return prefix + e.internal.msg
	}
	return fmt.Sprintf("%s%s: %s", prefix, e.internal.msg, e.details)
}

func (e *PostError) Unwrap() error {
	return e.details
}

// Is makes the error class comparable through the standard errors.Is function
func (e *PostError) Is(target error) bool {
	i, ok := target.(InternalError)
	if !ok {
		return false
	}
	return e.internal == i
}

// ExitCode returns the exit status matching the class of an error: 0 for success, 1 for
// errors without a class and the opposite of the class code otherwise
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *PostError
	if goerrors.As(err, &e) {
		return -e.internal.code
	}
	return 1
}

// Is checks whether err, or any error it wraps, belongs to the i class
func Is(err error, i InternalError) bool {
	if err == nil {
		return i == ErrNone
	}
	return goerrors.Is(err, i)
}
