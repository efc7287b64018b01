package errors

import "fmt"

// UnableToWriteFile reports a failed write of path.
func UnableToWriteFile(path string, cause error) *Error {
	return NewError(ErrCodeUnableToWriteFile, fmt.Sprintf("unable to write file at location %q", path)).
		WithPath(path).
		WithCause(cause)
}

// UnableToReadFile reports a failed read of path.
func UnableToReadFile(path string, cause error) *Error {
	return NewError(ErrCodeUnableToReadFile, fmt.Sprintf("unable to read file from location %q", path)).
		WithPath(path).
		WithCause(cause)
}

// UnableToCopyFile reports a failed copy from source to destination.
func UnableToCopyFile(source, destination string, cause error) *Error {
	err := NewError(ErrCodeUnableToCopyFile, fmt.Sprintf("unable to copy file from %q to %q", source, destination)).
		WithPath(source).
		WithCause(cause)
	err.Destination = destination
	return err
}

// UnableToMoveFile reports a failed move from source to destination.
func UnableToMoveFile(source, destination string, cause error) *Error {
	err := NewError(ErrCodeUnableToMoveFile, fmt.Sprintf("unable to move file from %q to %q", source, destination)).
		WithPath(source).
		WithCause(cause)
	err.Destination = destination
	return err
}

// UnableToDeleteFile reports a failed delete of path.
func UnableToDeleteFile(path string, cause error) *Error {
	return NewError(ErrCodeUnableToDeleteFile, fmt.Sprintf("unable to delete file located at %q", path)).
		WithPath(path).
		WithCause(cause)
}

// UnableToCreateDirectory reports a failed directory marker write.
func UnableToCreateDirectory(path string, cause error) *Error {
	return NewError(ErrCodeUnableToCreateDirectory, fmt.Sprintf("unable to create a directory at %q", path)).
		WithPath(path).
		WithCause(cause)
}

// UnableToDeleteDirectory reports a failed directory marker delete.
func UnableToDeleteDirectory(path string, cause error) *Error {
	return NewError(ErrCodeUnableToDeleteDirectory, fmt.Sprintf("unable to delete directory located at %q", path)).
		WithPath(path).
		WithCause(cause)
}

// UnableToListContents reports a failed listing of path.
func UnableToListContents(path string, recursive bool, cause error) *Error {
	return NewError(ErrCodeUnableToListContents, fmt.Sprintf("unable to list contents for %q, recursive: %t", path, recursive)).
		WithPath(path).
		WithCause(cause)
}

// UnableToRetrieveMetadata reports a failed metadata lookup. metadataType names
// the field that was requested.
func UnableToRetrieveMetadata(path, metadataType string, cause error) *Error {
	err := NewError(ErrCodeUnableToRetrieveMetadata, fmt.Sprintf("unable to retrieve the %s for file at location %q", metadataType, path)).
		WithPath(path).
		WithCause(cause)
	err.MetadataType = metadataType
	return err
}

// UnableToSetVisibility reports a failed ACL update of path.
func UnableToSetVisibility(path string, cause error) *Error {
	return NewError(ErrCodeUnableToSetVisibility, fmt.Sprintf("unable to set visibility for file %q", path)).
		WithPath(path).
		WithCause(cause)
}

// InvalidVisibility reports a visibility value outside public/private.
func InvalidVisibility(visibility string) *Error {
	return NewError(ErrCodeInvalidVisibility, fmt.Sprintf("invalid visibility %q, expected public or private", visibility))
}
