package blobcheck

import (
	"fmt"
	"strconv"
	"strings"

	bcerrors "github.com/input-output-hk/blobcheck/errors"
)

// ConnectionParams holds the settings parsed from a connection string.
type ConnectionParams struct {
	// AccessKey is the static access key ID
	AccessKey string

	// SecretKey is the static secret access key
	SecretKey string

	// Endpoint is a custom storage endpoint URL
	Endpoint string

	// Region is the storage region
	Region string

	// UsePathStyle forces path-style addressing
	UsePathStyle bool
}

// ParseConnectionString parses a semicolon-delimited Key=Value
// connection string, e.g.
//
//	AccessKey=AKIA...;SecretKey=...;Region=us-east-1
//
// Recognized keys are AccessKey, SecretKey, Endpoint, Region and
// UsePathStyle. Keys are matched case-insensitively; empty segments
// (including a trailing semicolon) are ignored.
func ParseConnectionString(s string) (*ConnectionParams, error) {
	params := &ConnectionParams{}

	for _, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		key, value, found := strings.Cut(segment, "=")
		if !found {
			return nil, bcerrors.NewError("parse", bcerrors.ErrInvalidConnectionString).
				WithMessage(fmt.Sprintf("segment %q is not a Key=Value pair", segment))
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, bcerrors.NewError("parse", bcerrors.ErrInvalidConnectionString).
				WithMessage(fmt.Sprintf("key %q has an empty value", key))
		}

		switch strings.ToLower(key) {
		case "accesskey":
			params.AccessKey = value
		case "secretkey":
			params.SecretKey = value
		case "endpoint":
			params.Endpoint = value
		case "region":
			params.Region = value
		case "usepathstyle":
			usePathStyle, err := strconv.ParseBool(value)
			if err != nil {
				return nil, bcerrors.NewError("parse", bcerrors.ErrInvalidConnectionString).
					WithMessage(fmt.Sprintf("UsePathStyle value %q is not a boolean", value))
			}
			params.UsePathStyle = usePathStyle
		default:
			return nil, bcerrors.NewError("parse", bcerrors.ErrInvalidConnectionString).
				WithMessage(fmt.Sprintf("unknown key %q", key))
		}
	}

	if (params.AccessKey == "") != (params.SecretKey == "") {
		return nil, bcerrors.NewError("parse", bcerrors.ErrInvalidConnectionString).
			WithMessage("AccessKey and SecretKey must be provided together")
	}

	return params, nil
}
