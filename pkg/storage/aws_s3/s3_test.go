package aws_s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)

	conf := &Config{
		Endpoint:        "http://127.0.0.1:9000",
		Region:          "us-east-1",
		BucketName:      "diary",
		AccessKeyID:     "test-ak",
		AccessKeySecret: "test-sk",
		UsePathStyle:    true,
	}
	c1, err := NewClient(conf)
	require.NoError(t, err)
	c2, err := NewClient(conf, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	assert.Same(t, c1, c2)
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		custom string
		want   string
	}{
		{"", "diary_2024-01-01.txt"},
		{"backup", "backup/diary_2024-01-01.txt"},
		{"/nested/path/", "nested/path/diary_2024-01-01.txt"},
	}
	for _, tt := range tests {
		p := &S3{Config: &Config{CustomPath: tt.custom}}
		assert.Equal(t, tt.want, p.objectKey("diary_2024-01-01.txt"))
	}
}
