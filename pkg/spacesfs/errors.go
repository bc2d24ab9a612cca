package spacesfs

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ErrAlreadyExists is returned by MakeDirs when the target path exists and
// existOk was not set.
var ErrAlreadyExists = errors.New("path already exists")

// IsNotFound reports whether err represents a missing bucket or key. The
// service reports the condition through several typed errors depending on
// the operation, so all of them are checked.
func IsNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) || errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}

// IsAlreadyExists reports whether err came from MakeDirs hitting an
// existing path.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
