package config

import (
	"fmt"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads the dotenv file named by EnvFile into EnvVariables.
// A relative EnvFile is resolved against baseDir. Variables already set in
// EnvVariables keep their value.
func (s *Settings) LoadEnvFile(baseDir string) error {
	if s.EnvFile == "" {
		return nil
	}

	path := s.EnvFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading env file %s: %w", path, err)
	}
	if s.EnvVariables == nil {
		s.EnvVariables = make(map[string]string, len(vars))
	}
	for k, v := range vars {
		if _, ok := s.EnvVariables[k]; !ok {
			s.EnvVariables[k] = v
		}
	}
	return nil
}
