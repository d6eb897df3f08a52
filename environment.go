package pyvenv

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPersistentDir is the conventional location of a project's local
// virtual environment.
const DefaultPersistentDir = ".venv"

// Options configures how an Environment is created and which external tools
// it drives. Empty fields fall back to the values of DefaultOptions.
type Options struct {
	// UV is the environment manager executable.
	UV string

	// Maturin is the native-extension build tool executable.
	Maturin string

	// Pytest is the test runner executable.
	Pytest string

	// Python is the interpreter executable inside the environment.
	Python string

	// BaselinePackages are installed as soon as the environment exists.
	// A nil slice selects the defaults; an empty non-nil slice installs nothing.
	BaselinePackages []string

	// PersistentDir is the root used by NewPersistentWithOptions.
	PersistentDir string

	// TempDirParent is the directory ephemeral environments are created in.
	// Empty means os.TempDir().
	TempDirParent string

	// Logger receives command logs. Nil uses the package logger.
	Logger *log.Logger
}

// DefaultOptions returns the options used by New and NewPersistent.
func DefaultOptions() Options {
	return Options{
		UV:               "uv",
		Maturin:          "maturin",
		Pytest:           "pytest",
		Python:           "python",
		BaselinePackages: []string{"pytest", "maturin"},
		PersistentDir:    DefaultPersistentDir,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.UV == "" {
		o.UV = def.UV
	}
	if o.Maturin == "" {
		o.Maturin = def.Maturin
	}
	if o.Pytest == "" {
		o.Pytest = def.Pytest
	}
	if o.Python == "" {
		o.Python = def.Python
	}
	if o.BaselinePackages == nil {
		o.BaselinePackages = def.BaselinePackages
	}
	if o.PersistentDir == "" {
		o.PersistentDir = def.PersistentDir
	}
	if o.Logger == nil {
		o.Logger = Logger()
	}
	return o
}

// ownedDir is a temporary directory removed exactly once.
type ownedDir struct {
	path    string
	once    sync.Once
	err     error
	removed atomic.Bool
}

func (d *ownedDir) remove() error {
	d.once.Do(func() {
		d.err = os.RemoveAll(d.path)
		d.removed.Store(true)
	})
	return d.err
}

// Environment is a ready-to-use Python virtual environment.
//
// An Environment is either ephemeral (created by New, backed by a uniquely
// named temporary directory that is removed by Close) or persistent (created
// by NewPersistent, backed by a fixed directory that is never removed).
//
// Every command built by an Environment runs with PATH set to the
// environment's executable directory followed by the PATH inherited at
// construction time, and with VIRTUAL_ENV set to the environment root.
// All other variables of the calling process pass through unchanged.
//
// Environments are immutable after construction and read-only methods are
// safe for concurrent use. Install, AddMaturinDep and MaturinDevelop return
// the same Environment on success; on failure they close it and return nil.
type Environment struct {
	tempDir *ownedDir
	cleanup runtime.Cleanup

	root   string
	binDir string
	path   string

	opts   Options
	logger *log.Logger
}

// New creates an ephemeral environment in a new temporary directory and
// installs the baseline tooling (pytest and maturin) into it.
// The directory is removed when the environment is closed.
func New() (*Environment, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions is New with explicit options.
func NewWithOptions(opts Options) (*Environment, error) {
	opts = opts.withDefaults()

	dir, err := os.MkdirTemp(opts.TempDirParent, "pyvenv-*")
	if err != nil {
		return nil, fmt.Errorf("error creating temporary directory: %w", err)
	}

	env, err := newEnvironment(dir, true, opts)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	if _, err := env.run(exec.Command(opts.UV, "venv", dir)); err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("error creating virtual environment: %w", err)
	}

	return env.installBaseline()
}

// NewPersistent creates, or reuses, the virtual environment in the local
// .venv directory and installs the baseline tooling into it. An existing
// environment is not overwritten, and the directory is never removed.
//
// Root reports the directory as an absolute path resolved against the
// working directory at construction, not as the relative ".venv", so
// VIRTUAL_ENV and PATH stay valid for commands run in other directories.
func NewPersistent() (*Environment, error) {
	return NewPersistentWithOptions(DefaultOptions())
}

// NewPersistentWithOptions is NewPersistent with explicit options.
// The root is opts.PersistentDir resolved against the working directory.
func NewPersistentWithOptions(opts Options) (*Environment, error) {
	opts = opts.withDefaults()

	root, err := filepath.Abs(opts.PersistentDir)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", opts.PersistentDir, err)
	}

	env, err := newEnvironment(root, false, opts)
	if err != nil {
		return nil, err
	}

	if _, err := env.run(exec.Command(opts.UV, "venv", "--seed", "--allow-existing", root)); err != nil {
		return nil, fmt.Errorf("error creating virtual environment: %w", err)
	}

	return env.installBaseline()
}

// newEnvironment computes the layout of an environment rooted at root
// without running any external command.
func newEnvironment(root string, owned bool, opts Options) (*Environment, error) {
	opts = opts.withDefaults()

	binDir := filepath.Join(root, scriptsDirName())
	path, err := augmentedPath(binDir)
	if err != nil {
		return nil, err
	}

	env := &Environment{
		root:   root,
		binDir: binDir,
		path:   path,
		opts:   opts,
		logger: opts.Logger,
	}
	if owned {
		env.tempDir = &ownedDir{path: root}
		env.cleanup = runtime.AddCleanup(env, func(d *ownedDir) { _ = d.remove() }, env.tempDir)
	}
	return env, nil
}

func (e *Environment) installBaseline() (*Environment, error) {
	if len(e.opts.BaselinePackages) == 0 {
		return e, nil
	}
	env, err := e.Install(e.opts.BaselinePackages...)
	if err != nil {
		return nil, fmt.Errorf("error installing baseline packages: %w", err)
	}
	return env, nil
}

// scriptsDirName is the name of a virtual environment's executable directory.
func scriptsDirName() string {
	if runtime.GOOS == "windows" {
		return "Scripts"
	}
	return "bin"
}

// augmentedPath prepends binDir to the PATH of the calling process.
func augmentedPath(binDir string) (string, error) {
	inherited, ok := os.LookupEnv("PATH")
	if !ok {
		return "", ErrPathUnset
	}
	if strings.ContainsRune(binDir, os.PathListSeparator) {
		return "", fmt.Errorf("environment directory %q contains the path list separator %q", binDir, os.PathListSeparator)
	}

	entries := append([]string{binDir}, filepath.SplitList(inherited)...)
	return joinPathList(entries, os.PathListSeparator, runtime.GOOS == "windows"), nil
}

// joinPathList joins PATH entries with sep. filepath.SplitList strips the
// quotes Windows allows around entries, so with quote set, entries containing
// sep are quoted again to keep them whole.
func joinPathList(entries []string, sep rune, quote bool) string {
	parts := make([]string, len(entries))
	for i, entry := range entries {
		if quote && strings.ContainsRune(entry, sep) {
			entry = `"` + entry + `"`
		}
		parts[i] = entry
	}
	return strings.Join(parts, string(sep))
}

// Root returns the environment root directory.
func (e *Environment) Root() string {
	return e.root
}

// BinDir returns the environment's executable directory (bin, or Scripts on Windows).
func (e *Environment) BinDir() string {
	return e.binDir
}

// SearchPath returns the entries of the PATH given to child processes.
// The first entry is always BinDir.
func (e *Environment) SearchPath() []string {
	return filepath.SplitList(e.path)
}

// Ephemeral reports whether the environment owns, and removes, its root.
func (e *Environment) Ephemeral() bool {
	return e.tempDir != nil
}

// Env returns the environment of child processes: the current process
// environment with PATH and VIRTUAL_ENV replaced.
func (e *Environment) Env() []string {
	return overlayEnv(os.Environ(), [][2]string{
		{"PATH", e.path},
		{"VIRTUAL_ENV", e.root},
	})
}

// overlayEnv drops every entry of base whose key is overridden, then appends
// the overrides in order.
func overlayEnv(base []string, overrides [][2]string) []string {
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		key := envKey(kv)
		replaced := false
		for _, o := range overrides {
			if sameEnvKey(key, o[0]) {
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, kv)
		}
	}
	for _, o := range overrides {
		out = append(out, o[0]+"="+o[1])
	}
	return out
}

// envKey returns the key of a KEY=value entry. Windows hides per-drive
// directories in entries such as "=C:=C:\dir", so a leading '=' belongs to the key.
func envKey(kv string) string {
	if kv == "" {
		return ""
	}
	if i := strings.IndexByte(kv[1:], '='); i >= 0 {
		return kv[:i+1]
	}
	return kv
}

func sameEnvKey(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Command returns an unstarted command for the named executable with the
// environment's PATH and VIRTUAL_ENV applied. The name is resolved against
// the environment's search path, so tools installed in the environment take
// precedence over tools of the same name elsewhere.
func (e *Environment) Command(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(e.lookPath(name), args...)
	cmd.Env = e.Env()
	return cmd
}

// lookPath resolves name against the search path, returning an absolute
// path for the first match. Unresolved names are returned unchanged and left
// for os/exec to report.
func (e *Environment) lookPath(name string) string {
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	for _, dir := range e.SearchPath() {
		if dir == "" {
			continue
		}
		found, ok := findExecutable(filepath.Join(dir, name))
		if !ok {
			continue
		}
		if abs, err := filepath.Abs(found); err == nil {
			return abs
		}
		return found
	}
	return name
}

// Close removes the directory of an ephemeral environment. It is a no-op
// for persistent environments and safe to call more than once.
//
// An ephemeral environment that becomes unreachable without being closed has
// its directory removed after garbage collection. That removal is best
// effort: it never runs if the program exits first.
func (e *Environment) Close() error {
	if e.tempDir == nil {
		return nil
	}
	e.cleanup.Stop()
	return e.tempDir.remove()
}

func (e *Environment) checkOpen() error {
	if e.tempDir != nil && e.tempDir.removed.Load() {
		return ErrClosed
	}
	return nil
}

// run executes cmd through RunChecked and logs it.
func (e *Environment) run(cmd *exec.Cmd) (*Output, error) {
	start := time.Now()
	e.logger.Debug("running command", "cmd", cmd.String(), "dir", cmd.Dir)

	out, err := RunChecked(cmd)
	if err != nil {
		e.logger.Debug("command failed", "cmd", cmd.String(), "elapsed", time.Since(start), "err", err)
		return nil, err
	}

	e.logger.Debug("command finished", "cmd", cmd.String(), "elapsed", time.Since(start))
	return out, nil
}

// chainFailed closes the environment after a failed chained operation.
func (e *Environment) chainFailed(err error) (*Environment, error) {
	if cerr := e.Close(); cerr != nil {
		e.logger.Warn("unable to remove environment directory", "root", e.root, "err", cerr)
	}
	return nil, err
}
