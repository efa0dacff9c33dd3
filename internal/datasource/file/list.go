package file

import (
	"bufio"
	"os"
	"strings"
)

// ReadList reads a manifest file line by line and returns the non-empty,
// non-comment lines in order. Manifests name one input per line (a path
// or URL); blank lines and lines starting with '#' are skipped so the
// files stay maintainable by hand.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
