package resolver

import (
	"strings"
	"testing"

	"github.com/kafumanto/simplelock/internal/errors"
	"github.com/kafumanto/simplelock/internal/testutil"
)

// mockExecutor scripts one response per git invocation, in call order.
type mockExecutor struct {
	outputs [][]byte
	errs    []error
	index   int
}

func (m *mockExecutor) addResponse(output []byte, err error) {
	m.outputs = append(m.outputs, output)
	m.errs = append(m.errs, err)
}

func (m *mockExecutor) Run(dir string, name string, args ...string) ([]byte, error) {
	idx := m.index
	m.index++
	if idx < len(m.outputs) {
		return m.outputs[idx], m.errs[idx]
	}
	return nil, nil
}

func (m *mockExecutor) RunQuiet(dir string, name string, args ...string) error {
	_, err := m.Run(dir, name, args...)
	return err
}

func TestUser(t *testing.T) {
	tests := []struct {
		name        string
		nameOutput  string
		nameErr     error
		emailOutput string
		emailErr    error
		want        string
		wantErr     error
	}{
		{
			name:        "name and email",
			nameOutput:  "Alice Example\n",
			emailOutput: "alice@example.com\n",
			want:        "Alice Example <alice@example.com>",
		},
		{
			name:       "name only",
			nameOutput: "Alice Example\n",
			emailErr:   errors.New("exit status 1"),
			want:       "Alice Example",
		},
		{
			name:       "blank email falls back to name",
			nameOutput: "Alice Example\n",
			want:       "Alice Example",
		},
		{
			name:    "no name configured",
			nameErr: errors.New("exit status 1"),
			wantErr: errors.ErrNoIdentity,
		},
		{
			name:       "blank name configured",
			nameOutput: "\n",
			wantErr:    errors.ErrNoIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{}
			exec.addResponse([]byte(tt.nameOutput), tt.nameErr)
			exec.addResponse([]byte(tt.emailOutput), tt.emailErr)

			r := NewGitResolverWithExecutor("/work", exec)
			got, err := r.User()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("User() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("User() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("User() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBranch(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		want    string
		wantErr error
	}{
		{
			name:   "named branch",
			output: "main\n",
			want:   "main",
		},
		{
			name:    "detached head",
			output:  "HEAD\n",
			wantErr: errors.ErrDetachedHead,
		},
		{
			name:    "not a repository",
			output:  "fatal: not a git repository",
			err:     errors.New("exit status 128"),
			wantErr: errors.ErrNotGitRepository,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{}
			exec.addResponse([]byte(tt.output), tt.err)

			r := NewGitResolverWithExecutor("/work", exec)
			got, err := r.Branch()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Branch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Branch() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Branch() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRepoIDUsesFirstRoot(t *testing.T) {
	exec := &mockExecutor{}
	exec.addResponse([]byte("aaaa1111\nbbbb2222\n"), nil)

	r := NewGitResolverWithExecutor("/work", exec)
	got, err := r.RepoID()
	if err != nil {
		t.Fatalf("RepoID() failed: %v", err)
	}
	if got != "aaaa1111" {
		t.Errorf("RepoID() = %q, want %q", got, "aaaa1111")
	}
}

func TestRepoIDNoCommits(t *testing.T) {
	exec := &mockExecutor{}
	exec.addResponse([]byte("fatal: ambiguous argument 'HEAD'"), errors.New("exit status 128"))

	r := NewGitResolverWithExecutor("/work", exec)
	if _, err := r.RepoID(); !errors.Is(err, errors.ErrNotGitRepository) {
		t.Fatalf("RepoID() error = %v, want %v", err, errors.ErrNotGitRepository)
	}
}

func TestResolveAgainstRealRepo(t *testing.T) {
	workDir := testutil.SetupWorkRepo(t)

	scope, err := Resolve(NewGitResolver(workDir))
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	if scope.User != "Simplelock Test <test@simplelock.dev>" {
		t.Errorf("User = %q", scope.User)
	}
	if scope.Branch != "main" {
		t.Errorf("Branch = %q, want %q", scope.Branch, "main")
	}
	if len(scope.RepoID) != 40 {
		t.Errorf("RepoID = %q, want a full commit hash", scope.RepoID)
	}
}

func TestRepoIDStableAcrossClones(t *testing.T) {
	workDir := testutil.SetupWorkRepo(t)
	cloneDir := t.TempDir()
	testutil.RunGit(t, cloneDir, "clone", workDir, ".")

	original, err := NewGitResolver(workDir).RepoID()
	if err != nil {
		t.Fatalf("RepoID() on original failed: %v", err)
	}
	cloned, err := NewGitResolver(cloneDir).RepoID()
	if err != nil {
		t.Fatalf("RepoID() on clone failed: %v", err)
	}
	if original != cloned {
		t.Errorf("RepoID differs across clones: %q vs %q", original, cloned)
	}
}

func TestResolveStopsAtFirstFailure(t *testing.T) {
	exec := &mockExecutor{}
	exec.addResponse(nil, errors.New("exit status 1")) // user.name missing

	_, err := Resolve(NewGitResolverWithExecutor("/work", exec))
	if !errors.Is(err, errors.ErrNoIdentity) {
		t.Fatalf("Resolve() error = %v, want %v", err, errors.ErrNoIdentity)
	}
	if exec.index != 1 {
		t.Errorf("Resolve() ran %d git calls after identity failure, want 1", exec.index)
	}
}

func TestUserTrimsOutput(t *testing.T) {
	exec := &mockExecutor{}
	exec.addResponse([]byte("  Alice Example \n"), nil)
	exec.addResponse([]byte(" alice@example.com\n"), nil)

	r := NewGitResolverWithExecutor("/work", exec)
	got, err := r.User()
	if err != nil {
		t.Fatalf("User() failed: %v", err)
	}
	if strings.ContainsAny(got, "\n") || got != "Alice Example <alice@example.com>" {
		t.Errorf("User() = %q", got)
	}
}
