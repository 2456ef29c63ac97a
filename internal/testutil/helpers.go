package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// NotFoundError returns the error shape the SDK produces for a HEAD
// request against a missing object.
func NotFoundError() error {
	return &types.NotFound{}
}

// AccessDeniedError returns an API error with the AccessDenied code.
func AccessDeniedError() error {
	return &smithy.GenericAPIError{
		Code:    "AccessDenied",
		Message: "Access Denied",
	}
}

// GenerateTestBucketName generates a unique bucket name for testing.
func GenerateTestBucketName(prefix string) string {
	return fmt.Sprintf("%s-test-%d-%d", prefix, time.Now().UnixNano(), rand.Intn(10000))
}

// GenerateTestKey generates a unique object key for testing.
func GenerateTestKey(prefix string) string {
	return fmt.Sprintf("%s/key-%d", prefix, time.Now().UnixNano())
}
