package webdav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)

	c1, err := NewClient(&Config{Endpoint: "http://127.0.0.1:1/dav", User: "u", CustomPath: "diary"})
	require.NoError(t, err)
	c2, err := NewClient(&Config{Endpoint: "http://127.0.0.1:1/dav", User: "u", CustomPath: "diary"})
	require.NoError(t, err)
	assert.Same(t, c1, c2)
}

func TestFullKey(t *testing.T) {
	tests := []struct {
		custom string
		key    string
		want   string
	}{
		{"", "diary_2024-01-01.txt", "/diary_2024-01-01.txt"},
		{"diary", "diary_2024-01-01.txt", "/diary/diary_2024-01-01.txt"},
		{"/a/b/", "diary_2024-01-01.txt", "/a/b/diary_2024-01-01.txt"},
	}
	for _, tt := range tests {
		w := &WebDAV{Config: &Config{CustomPath: tt.custom}}
		assert.Equal(t, tt.want, w.fullKey(tt.key))
	}
}
