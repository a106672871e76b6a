package publishing

import "errors"

var (
	// ErrArtifactCreate signals the local artifact bundle could not be built.
	ErrArtifactCreate = errors.New("failed to create model artifact")

	// ErrArtifactUpload signals the artifact never became visible in the
	// object store. Nothing was registered.
	ErrArtifactUpload = errors.New("failed to upload model artifact")

	// ErrAllocatorRegistration signals the artifact is uploaded but the
	// allocator does not know about it yet; the upload itself is intact.
	ErrAllocatorRegistration = errors.New("failed to register model with allocator")
)

// PublishError carries the artifact context of a publishing failure.
type PublishError struct {
	Err     error
	Name    string
	Details string
}

func (e *PublishError) Error() string {
	msg := e.Err.Error()
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func NewPublishError(err error, name, details string) *PublishError {
	return &PublishError{Err: err, Name: name, Details: details}
}
