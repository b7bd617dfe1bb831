package config

import (
	"fmt"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ORADEW_"

// envVarPrefix maps ORADEW_ENV_<NAME>=value into EnvVariables[NAME].
const envVarPrefix = EnvPrefix + "ENV_"

// ApplyEnv applies ORADEW_* overrides from environ (KEY=VALUE pairs) to s.
func ApplyEnv(s *Settings, environ []string) error {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		if strings.HasPrefix(name, envVarPrefix) {
			key := strings.TrimPrefix(name, envVarPrefix)
			if key != "" {
				s.EnvVariables[key] = value
			}
			continue
		}

		switch name {
		case "ORADEW_CHATTY":
			b, err := parseBool(name, value)
			if err != nil {
				return err
			}
			s.Chatty = b
		case "ORADEW_COLOR":
			if value == "" || strings.EqualFold(value, "auto") {
				s.Color = nil
				continue
			}
			b, err := parseBool(name, value)
			if err != nil {
				return err
			}
			s.Color = &b
		case "ORADEW_CLI_EXECUTABLE":
			s.CLIExecutable = value
		case "ORADEW_DOTENV":
			s.EnvFile = value
		case "ORADEW_LOG_LEVEL":
			s.LogLevel = value
		case "ORADEW_LOG_JSON":
			b, err := parseBool(name, value)
			if err != nil {
				return err
			}
			s.LogJSON = b
		}
	}
	return nil
}

// parseBool accepts the same spellings as the editor settings loader.
func parseBool(name, s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%s=%q: %w", name, s, ErrInvalidValue)
}
