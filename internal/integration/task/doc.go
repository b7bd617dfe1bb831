// Package task exposes the oradew build and deploy actions as host tasks.
//
// The package resolves where the tool and its config files live, builds
// the argument vector every invocation shares, and turns a fixed catalog
// of task descriptors into runnable tasks.
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                    Invocation (Build)                            │
//	│  - Resolves tool entry, project file and config paths           │
//	│  - Base args: entry --cwd <ws> --gulpfile <file> [flags]        │
//	│  - Environment bag: storagePath, dbConfigPath, wsConfigPath     │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                    Provider / Catalog                            │
//	│  - ProvideTasks: one Task per catalog Descriptor                │
//	│  - ResolveTask: rebuilds a Task from a host Definition          │
//	│  - Failures go to the "Oradew Auto Detection" channel           │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                    Manager                                       │
//	│  - Dispatch: base args + raw args, inherited stdio              │
//	│  - Execute: substitutes placeholders, then spawns               │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Placeholders
//
// Task parameters contain placeholders such as ${file} or
// ${command:oradew.getEnvironment}. The host substitutes them just before
// running a task. Outside a host, ResolvePlaceholders does the same from
// a Bindings map:
//
//	args, err := task.ResolvePlaceholders(d.Args, task.EditorContext{
//	    File:        "src/pkg_body.sql",
//	    Environment: "DEV",
//	}.Bindings())
//
// # Usage
//
//	inv := task.Build(task.Options{
//	    WorkspaceRoot: "/ws",
//	    ContextRoot:   "/ext",
//	    StorageRoot:   "/store",
//	    Silent:        true,
//	})
//	provider := task.NewProvider(inv)
//	tasks := provider.ProvideTasks(ctx)
//
//	manager := task.NewManager(inv)
//	proc, err := manager.Dispatch(ctx, []string{"compile", "--env", "DEV"})
package task
