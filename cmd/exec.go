package cmd

import (
	"os/exec"
)

// Process hooks, replaced in tests.
var (
	findExecutable = exec.LookPath
	execCommand    = exec.Command
)
