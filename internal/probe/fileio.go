package probe

import (
	"os"
)

// writeSample writes the sampled bytes to the specified path.
// It overwrites the file if it already exists.
func writeSample(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
