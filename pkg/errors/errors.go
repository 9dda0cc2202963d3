package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// Code classifies a pipeline failure for callers that branch on error kind.
type Code string

const (
	// CodeInputNotFound means the source object for a step is missing. The
	// caller may retry once the object exists.
	CodeInputNotFound Code = "input_not_found"
	// CodeUnknownOperation means the step config names an operation that is
	// not registered. Misconfiguration, never retried.
	CodeUnknownOperation Code = "unknown_operation"
	// CodeTransformation means a transformer failed on a record. Retry is
	// safe because no output was written.
	CodeTransformation Code = "transformation_error"
	// CodeRegisterCorrupt means the transfer register document is not valid
	// JSON. Processing halts rather than treating all records as new.
	CodeRegisterCorrupt Code = "register_corrupt"
	// CodeArchiveUpload means one or more tarball uploads failed. The
	// register is never updated for a run with upload failures.
	CodeArchiveUpload Code = "archive_upload_failed"
)

// PipelineError carries the failure code plus the pipeline coordinates
// (operation, step, object key) accumulated as the error crosses layers.
type PipelineError struct {
	Code      Code
	Operation string
	Step      int
	Key       string
	Message   string
	cause     error
}

func NewPipelineError(code Code, msg string) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: msg,
	}
}

// NewPipelineErrorf creates a new PipelineError with a formatted message
func NewPipelineErrorf(code Code, format string, args ...any) *PipelineError {
	var cause error
	for i, arg := range args {
		if err, ok := arg.(error); ok && strings.Contains(format, "%w") {
			format = strings.Replace(format, "%w", "%v", 1)
			args[i] = err.Error()
			cause = err
		}
	}

	return &PipelineError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func WrapPipelineError(e error) *PipelineError {
	if e == nil {
		return nil
	}

	if pipelineErr, ok := e.(*PipelineError); ok {
		return pipelineErr
	}

	return &PipelineError{
		Code:    CodeTransformation,
		Message: e.Error(),
		cause:   e,
	}
}

func (e *PipelineError) Error() string {
	path := []string{}
	if e.Operation != "" {
		path = append(path, fmt.Sprintf("operation '%s'", e.Operation))
	}
	if e.Step > 0 {
		path = append(path, fmt.Sprintf("step %d", e.Step))
	}
	if e.Key != "" {
		path = append(path, fmt.Sprintf("key '%s'", e.Key))
	}

	if len(path) == 0 {
		return e.Message
	}

	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.cause
}

func (e *PipelineError) AddOperation(operation string) *PipelineError {
	e.Operation = operation
	return e
}

func (e *PipelineError) AddStep(step int) *PipelineError {
	e.Step = step
	return e
}

func (e *PipelineError) AddKey(key string) *PipelineError {
	e.Key = key
	return e
}

func (e *PipelineError) ToHTTPError() *httperror.HTTPError {
	status := http.StatusInternalServerError
	if e.Code == CodeInputNotFound {
		status = http.StatusNotFound
	}
	return httperror.NewHTTPError(status, e.Error()).AddMetaValue("code", string(e.Code)).AddMetaValue("operation", e.Operation).AddMetaValue("key", e.Key)
}

func IsPipelineError(err error) bool {
	_, ok := err.(*PipelineError)
	return ok
}

// CodeOf returns the failure code of err, or an empty code for non-pipeline
// errors.
func CodeOf(err error) Code {
	if pipelineErr, ok := err.(*PipelineError); ok {
		return pipelineErr.Code
	}
	return ""
}

func IsInputNotFound(err error) bool {
	return CodeOf(err) == CodeInputNotFound
}

func IsUnknownOperation(err error) bool {
	return CodeOf(err) == CodeUnknownOperation
}

func IsRegisterCorrupt(err error) bool {
	return CodeOf(err) == CodeRegisterCorrupt
}
