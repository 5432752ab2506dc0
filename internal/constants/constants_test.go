package constants

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInfo(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	Version, Commit = "1.2.0", "abc1234"
	assert.Equal(t, "1.2.0 (abc1234, "+runtime.GOOS+"/"+runtime.GOARCH+")", BuildInfo())
}
