// Package config loads oradew session settings.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← ORADEW_*
//	├─────────────────────────────┤
//	│  2. Workspace Settings      │  ← <workspace>/.oradew.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on top of the result.
//
// # Example
//
//	settings, err := config.Load(config.DefaultPath(workspace))
//	if err != nil {
//	    return err
//	}
//	interpreter, err := settings.Interpreter()
//
// A missing settings file is not an error; defaults are returned. The
// envFile setting names a dotenv file whose variables are passed to the
// tool unless envVariables already sets them.
package config
