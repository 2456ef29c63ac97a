package blobcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bcerrors "github.com/input-output-hk/blobcheck/errors"
)

// TestParseConnectionString tests parsing of well-formed and malformed
// connection strings.
func TestParseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *ConnectionParams
		wantErr bool
	}{
		{
			name:  "full connection string",
			input: "AccessKey=AKIA123;SecretKey=s3cr3t;Endpoint=http://localhost:4566;Region=us-west-2;UsePathStyle=true",
			want: &ConnectionParams{
				AccessKey:    "AKIA123",
				SecretKey:    "s3cr3t",
				Endpoint:     "http://localhost:4566",
				Region:       "us-west-2",
				UsePathStyle: true,
			},
		},
		{
			name:  "credentials only",
			input: "AccessKey=AKIA123;SecretKey=s3cr3t",
			want:  &ConnectionParams{AccessKey: "AKIA123", SecretKey: "s3cr3t"},
		},
		{
			name:  "keys are case-insensitive",
			input: "accesskey=AKIA123;SECRETKEY=s3cr3t;region=eu-central-1",
			want: &ConnectionParams{
				AccessKey: "AKIA123",
				SecretKey: "s3cr3t",
				Region:    "eu-central-1",
			},
		},
		{
			name:  "trailing semicolon tolerated",
			input: "Region=us-east-1;",
			want:  &ConnectionParams{Region: "us-east-1"},
		},
		{
			name:  "endpoint value may contain an equals sign",
			input: "Endpoint=http://localhost:4566/?x=1",
			want:  &ConnectionParams{Endpoint: "http://localhost:4566/?x=1"},
		},
		{
			name:  "empty string",
			input: "",
			want:  &ConnectionParams{},
		},
		{
			name:    "segment without equals sign",
			input:   "AccessKey",
			wantErr: true,
		},
		{
			name:    "empty value",
			input:   "AccessKey=;SecretKey=s3cr3t",
			wantErr: true,
		},
		{
			name:    "unknown key",
			input:   "AccountName=foo",
			wantErr: true,
		},
		{
			name:    "non-boolean UsePathStyle",
			input:   "UsePathStyle=maybe",
			wantErr: true,
		},
		{
			name:    "access key without secret key",
			input:   "AccessKey=AKIA123;Region=us-east-1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConnectionString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, bcerrors.IsInvalidConnectionString(err), "unexpected error kind: %v", err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
