package task

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/ws", "/ext", "/store")

	assert.Equal(t, filepath.Clean("/ws"), p.WorkspaceRoot)
	assert.Equal(t, filepath.Clean("/store"), p.StorageRoot)
	assert.Equal(t, filepath.Join("/ext", "node_modules", "gulp", "bin", "gulp.js"), p.ToolEntry)
	assert.Equal(t, filepath.Join("/ext", "out", "gulpfile.js"), p.ToolProjectFile)
	assert.Equal(t, filepath.Join("/ws", "dbconfig.json"), p.DBConfig)
	assert.Equal(t, filepath.Join("/ws", "oradewrc.json"), p.WSConfig)
}

func TestNewPaths_ConfigFilesAreWorkspaceChildren(t *testing.T) {
	for _, ws := range []string{"/ws", "/home/user/project/", "relative/dir"} {
		p := NewPaths(ws, "/ext", "/store")
		assert.Equal(t, filepath.Clean(ws), filepath.Dir(p.DBConfig), ws)
		assert.Equal(t, filepath.Clean(ws), filepath.Dir(p.WSConfig), ws)
	}
}

func TestNewPaths_ToolDependsOnContextRootOnly(t *testing.T) {
	a := NewPaths("/ws-a", "/ext", "/store-a")
	b := NewPaths("/ws-b", "/ext", "/store-b")

	assert.Equal(t, a.ToolEntry, b.ToolEntry)
	assert.Equal(t, a.ToolProjectFile, b.ToolProjectFile)

	c := NewPaths("/ws-a", "/other", "/store-a")
	assert.NotEqual(t, a.ToolEntry, c.ToolEntry)
}

func TestNewPaths_CleansRoots(t *testing.T) {
	p := NewPaths("/ws/./sub/..", "/ext/", "/store//x")

	assert.Equal(t, filepath.Clean("/ws"), p.WorkspaceRoot)
	assert.Equal(t, filepath.Clean("/store/x"), p.StorageRoot)
	assert.Equal(t, filepath.Join("/ws", "dbconfig.json"), p.DBConfig)
}
