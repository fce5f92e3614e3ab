package aliyun_oss

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient_RequiresBucket(t *testing.T) {
	_, err := NewClient(&Config{Endpoint: "oss-cn-hangzhou.aliyuncs.com"})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	p := &OSS{Config: &Config{CustomPath: "/diary/"}}
	assert.Equal(t, "diary/diary_2024-02-29.txt", p.objectKey("diary_2024-02-29.txt"))

	p = &OSS{Config: &Config{}}
	assert.Equal(t, "diary_2024-02-29.txt", p.objectKey("diary_2024-02-29.txt"))
}
