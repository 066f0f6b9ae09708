package main

import "github.com/davetashner/codebrief/internal/testable"

// cmdFS is the file system implementation used by CLI commands.
// Override in tests with a testable.MockFileSystem.
var cmdFS testable.FileSystem = testable.DefaultFS

// cmdExec starts external programs such as the settings editor.
// Override in tests with a testable.MockCommandExecutor.
var cmdExec testable.CommandExecutor = testable.DefaultExecutor()
