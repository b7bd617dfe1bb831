package task

import "path/filepath"

// Fixed locations relative to the workspace and extension roots.
const (
	// DBConfigFile is the database connection config, in the workspace root.
	DBConfigFile = "dbconfig.json"
	// WSConfigFile is the workspace config, in the workspace root.
	WSConfigFile = "oradewrc.json"
	// ToolEntryPath is the tool's launcher script, relative to the extension root.
	ToolEntryPath = "node_modules/gulp/bin/gulp.js"
	// ToolProjectPath is the generated tool project file, relative to the extension root.
	ToolProjectPath = "out/gulpfile.js"
)

// Paths holds the filesystem locations used to invoke the tool.
//
// Paths are joined and cleaned only. Nothing is checked against the
// filesystem; a bad root surfaces later as a spawn failure.
type Paths struct {
	WorkspaceRoot   string
	StorageRoot     string
	ToolEntry       string
	ToolProjectFile string
	DBConfig        string
	WSConfig        string
}

// NewPaths resolves all paths from the workspace, extension and storage roots.
// The tool paths depend on contextRoot only; the config paths on workspaceRoot only.
func NewPaths(workspaceRoot, contextRoot, storageRoot string) Paths {
	return Paths{
		WorkspaceRoot:   filepath.Clean(workspaceRoot),
		StorageRoot:     filepath.Clean(storageRoot),
		ToolEntry:       filepath.Join(contextRoot, filepath.FromSlash(ToolEntryPath)),
		ToolProjectFile: filepath.Join(contextRoot, filepath.FromSlash(ToolProjectPath)),
		DBConfig:        filepath.Join(workspaceRoot, DBConfigFile),
		WSConfig:        filepath.Join(workspaceRoot, WSConfigFile),
	}
}
