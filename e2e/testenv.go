package e2e

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ptgott/safestore/command"
	"github.com/ptgott/safestore/facade"
	"github.com/ptgott/safestore/userconfig"
)

// testEnvironment manages the directories a test needs. Callers should create
// this via startTestEnvironment. t.TempDir removes everything afterwards.
type testEnvironment struct {
	tempDirPath string
}

func startTestEnvironment(t *testing.T) *testEnvironment {
	return &testEnvironment{
		tempDirPath: t.TempDir(),
	}
}

// session is one run of the application: it's bound to a store for its whole
// life and counts the change notifications it receives.
type session struct {
	storage *facade.Storage
	changes int
}

// openSession writes a config file for opts and opens storage the same way
// main does. Close the session with close.
func (te *testEnvironment) openSession(name string, opts appConfigOptions) (*session, error) {
	p := filepath.Join(te.tempDirPath, name+".yaml")
	if err := createAppConfig(p, opts); err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := userconfig.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("problem parsing the config: %w", err)
	}
	c, err := m.CheckAndSetDefaults()
	if err != nil {
		return nil, fmt.Errorf("problem validating the config: %w", err)
	}

	s := &session{storage: facade.FromConfig(&c.Storage)}
	s.storage.OnChanged(func() { s.changes++ })
	return s, nil
}

// storageDir returns a directory for BadgerDB inside the test environment.
func (te *testEnvironment) storageDir(name string) string {
	return filepath.Join(te.tempDirPath, name)
}

// run executes a command and returns what it printed.
func (s *session) run(opts command.Options, args ...string) (string, error) {
	var out bytes.Buffer
	err := command.Run(s.storage, args, opts, &out)
	return out.String(), err
}

func (s *session) close() error {
	if err := s.storage.Cleanup(); err != nil {
		return err
	}
	return s.storage.Close()
}
