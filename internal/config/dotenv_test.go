package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_LoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(
		"# oracle client\nNLS_LANG=AMERICAN_AMERICA.AL32UTF8\nTNS_ADMIN=/opt/oracle/network\n"), 0o644))

	s := Default()
	s.EnvFile = ".env"
	s.EnvVariables["TNS_ADMIN"] = "/explicit"

	require.NoError(t, s.LoadEnvFile(dir))
	assert.Equal(t, "AMERICAN_AMERICA.AL32UTF8", s.EnvVariables["NLS_LANG"])
	assert.Equal(t, "/explicit", s.EnvVariables["TNS_ADMIN"], "explicit variables win")
}

func TestSettings_LoadEnvFile_Unset(t *testing.T) {
	s := Default()
	require.NoError(t, s.LoadEnvFile(t.TempDir()))
	assert.Empty(t, s.EnvVariables)
}

func TestSettings_LoadEnvFile_Missing(t *testing.T) {
	s := Default()
	s.EnvFile = filepath.Join(t.TempDir(), "absent.env")

	err := s.LoadEnvFile("/unused")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvFileRelativeToSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oracle.env"), []byte("ORACLE_HOME=/u01/app\n"), 0o644))
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("envFile = \"oracle.env\"\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/u01/app", s.EnvVariables["ORACLE_HOME"])
}
