//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CreateTestWorkspace creates a temporary directory with an openphil config
// that keeps the database and log inside it
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir

	config := fmt.Sprintf("version = 1\ndatabase = %q\n\n[log]\nfile = %q\nlevel = \"debug\"\n",
		filepath.Join(tmpDir, "openphil.db"), filepath.Join(tmpDir, "openphil.log"))
	if err := os.WriteFile(filepath.Join(tmpDir, ".openphil.toml"), []byte(config), 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return tmpDir, nil
}

// WriteProject writes a JSON project file with one token per word, ids t1..tn
// and indices 100, 200, ...
func (tf *TUITestFramework) WriteProject(name string, words ...string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}

	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = fmt.Sprintf(`{"id": "t%d", "index": %d, "text": %q}`, i+1, (i+1)*100, w)
	}
	content := fmt.Sprintf(`{"id": "e2e", "name": "E2E text", "tokens": [%s]}`, strings.Join(tokens, ", "))

	path := filepath.Join(tf.workspace, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write project: %w", err)
	}
	return path, nil
}

// WriteWitness writes a plain witness text into the workspace
func (tf *TUITestFramework) WriteWitness(name, text string) (string, error) {
	path := filepath.Join(tf.workspace, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, []byte(text), 0644)
}
