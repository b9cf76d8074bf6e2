package main

import (
	"os"
)

// renameio does not support windows
func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
