package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "reports/a.csv", ObjectName("reports", "a.csv"))
	assert.Equal(t, "reports/a.csv", ObjectName("/reports/", "a.csv"))
	assert.Equal(t, "a.csv", ObjectName("", "a.csv"))
}

func TestParseURI(t *testing.T) {
	bucket, object, err := ParseURI("gs://somity/reports/2025/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "somity", bucket)
	assert.Equal(t, "reports/2025/a.csv", object)

	for _, bad := range []string{"s3://x/y", "gs://bucket", "gs:///obj", ""} {
		_, _, err := ParseURI(bad)
		assert.Error(t, err, bad)
	}

	assert.Equal(t, "gs://b/o.csv", URI("b", "o.csv"))
}
