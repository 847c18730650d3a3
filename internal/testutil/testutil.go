// Package testutil provides testing utilities for simplelock tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RunGit runs a git command in dir and returns its trimmed output,
// failing the test on error.
func RunGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}

// SetupWorkRepo creates a temporary git work repository with a configured
// identity and an initial commit, on branch main. Returns its path.
// The repository is automatically cleaned up when the test completes.
func SetupWorkRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	RunGit(t, dir, "init")
	RunGit(t, dir, "config", "user.email", "test@simplelock.dev")
	RunGit(t, dir, "config", "user.name", "Simplelock Test")

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repository\n"), 0644); err != nil {
		t.Fatalf("failed to create README: %v", err)
	}
	RunGit(t, dir, "add", ".")
	RunGit(t, dir, "commit", "-m", "Initial commit")
	RunGit(t, dir, "branch", "-M", "main")

	return dir
}

// SetupLedgerRemote creates a bare repository seeded with one commit holding
// an empty ledger file, the way a freshly provisioned shared ledger
// repository looks. Returns the bare repository's path.
func SetupLedgerRemote(t *testing.T) string {
	t.Helper()

	remote := t.TempDir()
	RunGit(t, remote, "init", "--bare")

	seed := CloneLedger(t, remote)
	ledgerPath := filepath.Join(seed, "locked")
	if err := os.WriteFile(ledgerPath, nil, 0644); err != nil {
		t.Fatalf("failed to seed ledger file: %v", err)
	}
	RunGit(t, seed, "add", ".")
	RunGit(t, seed, "commit", "-m", "initialize ledger")
	RunGit(t, seed, "push", "origin", "HEAD")

	return remote
}

// CloneLedger clones the ledger remote into a fresh temporary directory with
// a configured identity, simulating one user's local replica.
func CloneLedger(t *testing.T, remote string) string {
	t.Helper()

	dir := t.TempDir()
	RunGit(t, dir, "clone", remote, ".")
	RunGit(t, dir, "config", "user.email", "test@simplelock.dev")
	RunGit(t, dir, "config", "user.name", "Simplelock Test")

	return dir
}

// WriteWorkFile creates or updates a file in the work repository without
// committing it; lockable scans only look at the working tree.
func WriteWorkFile(t *testing.T, workDir, path, content string) {
	t.Helper()

	fullPath := filepath.Join(workDir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}
