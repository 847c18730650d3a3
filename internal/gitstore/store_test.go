package gitstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kafumanto/simplelock/internal/errors"
	"github.com/kafumanto/simplelock/internal/testutil"
)

// -----------------------------------------------------------------------------
// Mock Command Executor for Unit Tests
// -----------------------------------------------------------------------------

// mockCall records a single command invocation
type mockCall struct {
	dir  string
	name string
	args []string
}

// mockExecutor is a test double for CommandExecutor
type mockExecutor struct {
	calls      []mockCall
	runOutputs [][]byte
	runErrors  []error
	callIndex  int
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{
		calls:      make([]mockCall, 0),
		runOutputs: make([][]byte, 0),
		runErrors:  make([]error, 0),
	}
}

func (m *mockExecutor) addResponse(output []byte, err error) {
	m.runOutputs = append(m.runOutputs, output)
	m.runErrors = append(m.runErrors, err)
}

func (m *mockExecutor) Run(dir string, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, mockCall{dir: dir, name: name, args: args})
	idx := m.callIndex
	m.callIndex++
	if idx < len(m.runOutputs) {
		return m.runOutputs[idx], m.runErrors[idx]
	}
	return nil, nil
}

func (m *mockExecutor) RunQuiet(dir string, name string, args ...string) error {
	m.calls = append(m.calls, mockCall{dir: dir, name: name, args: args})
	idx := m.callIndex
	m.callIndex++
	if idx < len(m.runErrors) {
		return m.runErrors[idx]
	}
	return nil
}

func (m *mockExecutor) argsOfCall(i int) string {
	if i >= len(m.calls) {
		return ""
	}
	return strings.Join(m.calls[i].args, " ")
}

// -----------------------------------------------------------------------------
// Publish Unit Tests
// -----------------------------------------------------------------------------

func TestPublishClassifiesPushFailure(t *testing.T) {
	tests := []struct {
		name       string
		pushOutput string
		pushErr    error
		wantErr    error
	}{
		{
			name: "push accepted",
		},
		{
			name:       "non-fast-forward rejection",
			pushOutput: "! [rejected]  main -> main (non-fast-forward)\nerror: failed to push some refs",
			pushErr:    errors.New("exit status 1"),
			wantErr:    errors.ErrSyncConflict,
		},
		{
			name:       "stale info rejection",
			pushOutput: "hint: Updates were rejected because the remote contains work you do not have\nhint: locally. ... 'git pull ...') before pushing again. fetch first",
			pushErr:    errors.New("exit status 1"),
			wantErr:    errors.ErrSyncConflict,
		},
		{
			name:       "remote unreachable",
			pushOutput: "fatal: unable to access 'https://example.invalid/ledger.git/': Could not resolve host",
			pushErr:    errors.New("exit status 128"),
			wantErr:    errors.ErrRepositoryUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newMockExecutor()
			exec.addResponse(nil, nil)                          // git add -A
			exec.addResponse(nil, nil)                          // git commit
			exec.addResponse([]byte(tt.pushOutput), tt.pushErr) // git push

			store := New(t.TempDir(), WithExecutor(exec))
			err := store.Publish("lock a.bin by alice (editing)")

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Publish() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPublishSyncConflictIsRetryable(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse(nil, nil)
	exec.addResponse(nil, nil)
	exec.addResponse([]byte("! [rejected] (non-fast-forward)"), errors.New("exit status 1"))

	store := New(t.TempDir(), WithExecutor(exec))
	err := store.Publish("lock")

	if !errors.IsRetryable(err) {
		t.Errorf("sync conflict should be retryable, got %v", err)
	}
}

func TestPublishNothingToCommitIsNoOp(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse(nil, nil) // git add -A
	exec.addResponse([]byte("On branch main\nnothing to commit, working tree clean"), errors.New("exit status 1"))

	store := New(t.TempDir(), WithExecutor(exec))
	if err := store.Publish("unlock a.bin by alice"); err != nil {
		t.Fatalf("Publish() with clean tree should be a no-op, got %v", err)
	}
	if len(exec.calls) != 2 {
		t.Errorf("expected no push after empty commit, saw %d calls", len(exec.calls))
	}
}

func TestPublishUsesCommitMessage(t *testing.T) {
	exec := newMockExecutor()
	store := New(t.TempDir(), WithExecutor(exec))

	if err := store.Publish("lock a.bin by alice (editing)"); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if got := exec.argsOfCall(1); !strings.Contains(got, "lock a.bin by alice (editing)") {
		t.Errorf("commit args = %q, want the publish message", got)
	}
}

// -----------------------------------------------------------------------------
// Pull Unit Tests
// -----------------------------------------------------------------------------

func TestPullNotARepository(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse(nil, errors.New("exit status 128")) // rev-parse --git-dir

	store := New(t.TempDir(), WithExecutor(exec))
	err := store.Pull()

	if !errors.Is(err, errors.ErrRepositoryUnavailable) {
		t.Fatalf("Pull() error = %v, want %v", err, errors.ErrRepositoryUnavailable)
	}
}

func TestPullFetchFailure(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse(nil, nil) // rev-parse --git-dir
	exec.addResponse([]byte("fatal: unable to access remote"), errors.New("exit status 128"))

	store := New(t.TempDir(), WithExecutor(exec))
	err := store.Pull()

	if !errors.Is(err, errors.ErrRepositoryUnavailable) {
		t.Fatalf("Pull() error = %v, want %v", err, errors.ErrRepositoryUnavailable)
	}

	var syncErr *errors.SyncError
	if !errors.As(err, &syncErr) {
		t.Fatalf("error = %v, want *errors.SyncError", err)
	}
	if !strings.Contains(syncErr.GitOutput, "unable to access") {
		t.Errorf("GitOutput = %q, want git's diagnostic", syncErr.GitOutput)
	}
}

func TestPullEmptyRemoteIsInSync(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse(nil, nil)                         // rev-parse --git-dir
	exec.addResponse(nil, nil)                         // fetch
	exec.addResponse([]byte("origin/main\n"), nil)     // symbolic-ref remote HEAD
	exec.addResponse(nil, errors.New("exit status 1")) // rev-parse --verify origin/main

	store := New(t.TempDir(), WithExecutor(exec))
	if err := store.Pull(); err != nil {
		t.Fatalf("Pull() against empty remote should succeed, got %v", err)
	}

	for _, call := range exec.calls {
		if len(call.args) > 0 && call.args[0] == "reset" {
			t.Error("Pull() must not reset when the remote has no published revision")
		}
	}
}

func TestPullResetsToRemoteTip(t *testing.T) {
	exec := newMockExecutor()
	exec.addResponse(nil, nil)                     // rev-parse --git-dir
	exec.addResponse(nil, nil)                     // fetch
	exec.addResponse([]byte("origin/main\n"), nil) // symbolic-ref remote HEAD
	exec.addResponse(nil, nil)                     // rev-parse --verify
	exec.addResponse(nil, nil)                     // reset --hard

	store := New(t.TempDir(), WithExecutor(exec))
	if err := store.Pull(); err != nil {
		t.Fatalf("Pull() failed: %v", err)
	}

	last := exec.calls[len(exec.calls)-1]
	if got := strings.Join(last.args, " "); got != "reset --hard origin/main" {
		t.Errorf("final git call = %q, want %q", got, "reset --hard origin/main")
	}
}

// -----------------------------------------------------------------------------
// Integration Tests (real git)
// -----------------------------------------------------------------------------

func TestStoreRoundTrip(t *testing.T) {
	remote := testutil.SetupLedgerRemote(t)
	replica := testutil.CloneLedger(t, remote)
	store := New(replica)

	if err := store.Pull(); err != nil {
		t.Fatalf("Pull() failed: %v", err)
	}

	data, err := store.ReadLedger()
	if err != nil {
		t.Fatalf("ReadLedger() failed: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("fresh ledger should be empty, got %q", data)
	}

	content := []byte("r1\tmain\talice\ta.bin\tediting\n")
	if err := store.WriteLedger(content); err != nil {
		t.Fatalf("WriteLedger() failed: %v", err)
	}
	if err := store.Publish("lock a.bin by alice (editing)"); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	// A second replica sees the published content after a pull.
	other := New(testutil.CloneLedger(t, remote))
	if err := other.Pull(); err != nil {
		t.Fatalf("Pull() on second replica failed: %v", err)
	}
	got, err := other.ReadLedger()
	if err != nil {
		t.Fatalf("ReadLedger() on second replica failed: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("second replica ledger = %q, want %q", got, content)
	}
}

func TestPublishRaceLoserGetsSyncConflict(t *testing.T) {
	remote := testutil.SetupLedgerRemote(t)
	alice := New(testutil.CloneLedger(t, remote))
	bob := New(testutil.CloneLedger(t, remote))

	// Both replicas pull the same remote tip.
	if err := alice.Pull(); err != nil {
		t.Fatalf("alice Pull() failed: %v", err)
	}
	if err := bob.Pull(); err != nil {
		t.Fatalf("bob Pull() failed: %v", err)
	}

	if err := alice.WriteLedger([]byte("r1\tmain\talice\ta.bin\tediting\n")); err != nil {
		t.Fatalf("alice WriteLedger() failed: %v", err)
	}
	if err := alice.Publish("lock a.bin by alice (editing)"); err != nil {
		t.Fatalf("alice Publish() failed: %v", err)
	}

	if err := bob.WriteLedger([]byte("r1\tmain\tbob\ta.bin\tediting\n")); err != nil {
		t.Fatalf("bob WriteLedger() failed: %v", err)
	}
	err := bob.Publish("lock a.bin by bob (editing)")
	if !errors.Is(err, errors.ErrSyncConflict) {
		t.Fatalf("bob Publish() error = %v, want %v", err, errors.ErrSyncConflict)
	}

	// After the lost race, a pull discards bob's stranded commit and
	// converges on alice's published state.
	if err := bob.Pull(); err != nil {
		t.Fatalf("bob Pull() after lost race failed: %v", err)
	}
	got, err := bob.ReadLedger()
	if err != nil {
		t.Fatalf("bob ReadLedger() failed: %v", err)
	}
	if !strings.Contains(string(got), "alice") {
		t.Errorf("bob's replica = %q, want alice's published ledger", got)
	}
}

func TestPullDiscardsLocalResidue(t *testing.T) {
	remote := testutil.SetupLedgerRemote(t)
	replica := testutil.CloneLedger(t, remote)
	store := New(replica)

	// Uncommitted local scribbles are residue, not state.
	if err := os.WriteFile(filepath.Join(replica, "locked"), []byte("garbage\n"), 0644); err != nil {
		t.Fatalf("write residue: %v", err)
	}

	if err := store.Pull(); err != nil {
		t.Fatalf("Pull() failed: %v", err)
	}
	data, err := store.ReadLedger()
	if err != nil {
		t.Fatalf("ReadLedger() failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Pull() left residue in the ledger: %q", data)
	}
}

func TestPullNotAGitRepository(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Pull(); !errors.Is(err, errors.ErrRepositoryUnavailable) {
		t.Fatalf("Pull() error = %v, want %v", err, errors.ErrRepositoryUnavailable)
	}
}

func TestLedgerPathHonorsOption(t *testing.T) {
	store := New("/tmp/ledger", WithLedgerFile("locks.db"))
	if got := store.LedgerPath(); got != filepath.Join("/tmp/ledger", "locks.db") {
		t.Errorf("LedgerPath() = %q", got)
	}
}
