package ginue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-kintone-schema/pkg/registry"
)

// SourceEnvironment is the environment whose design files are pushed.
const SourceEnvironment = "dev"

var (
	// ErrEnvironmentNotFound reports an environment missing from the registry
	// or from the app entry.
	ErrEnvironmentNotFound = errors.New("ginue: environment not found")
	// ErrNoDesignFiles reports a push without exported design files.
	ErrNoDesignFiles = errors.New("ginue: no design files")
	// ErrUnknownAction reports a Batch action other than pull or push.
	ErrUnknownAction = errors.New("ginue: unknown action")
)

// Manager pulls and pushes app definitions with ginue.
type Manager struct {
	root      string
	designDir string
	command   string
	store     registry.Store
	creds     CredentialSource
	runner    Runner
	logger    *slog.Logger
	now       func() time.Time
	runID     func() string
}

// NewManager builds a Manager rooted at root, the directory ginue runs in.
func NewManager(root string, store registry.Store, opts ...Option) *Manager {
	m := &Manager{
		root:      root,
		designDir: filepath.Join(root, "design", "apps"),
		command:   "npx",
		store:     store,
		creds:     EnvCredentials{},
		runner:    ExecRunner{},
		logger:    discardLogger(),
		now:       time.Now,
		runID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// target is the resolved input for one sync run.
type target struct {
	key   string
	app   registry.App
	appID string
	env   string
	creds Credentials
}

func (m *Manager) resolve(ctx context.Context, key, env string) (target, error) {
	reg, err := m.store.Load(ctx)
	if err != nil {
		return target{}, fmt.Errorf("ginue: load registry: %w", err)
	}
	if !reg.HasEnvironment(env) {
		return target{}, fmt.Errorf("%w: %q is not declared in the registry", ErrEnvironmentNotFound, env)
	}
	app, err := reg.App(key)
	if err != nil {
		return target{}, fmt.Errorf("ginue: %s: %w", key, err)
	}
	binding, ok := app.Environments[env]
	if !ok || binding.AppID == "" {
		return target{}, fmt.Errorf("%w: %q for app %q", ErrEnvironmentNotFound, env, key)
	}

	creds, err := m.creds.Credentials(env)
	if err != nil {
		return target{}, fmt.Errorf("ginue: credentials for %s: %w", env, err)
	}
	if creds.Domain == "" {
		creds.Domain = fallbackDomain(reg, binding, env)
	}
	if err := creds.Validate(env); err != nil {
		return target{}, err
	}
	return target{key: key, app: app, appID: binding.AppID, env: env, creds: creds}, nil
}

// fallbackDomain uses the registry domain when the environment variable is
// unset. Unresolved ${VAR} references are not usable domains.
func fallbackDomain(reg *registry.Registry, binding registry.AppEnvironment, env string) string {
	candidates := []string{binding.Domain}
	if declared, ok := reg.Environments[env]; ok {
		candidates = append(candidates, declared.Domain)
	}
	for _, candidate := range candidates {
		domain := registry.ExpandEnv(candidate, nil)
		if domain != "" && !strings.Contains(domain, "${") {
			return domain
		}
	}
	return ""
}

func (m *Manager) ginue(verb string, t target, dir string) Command {
	args := []string{
		"ginue", verb,
		"--domain", t.creds.Domain,
		"--username", t.creds.Username,
		"--password", t.creds.Password,
		"--app", t.appID,
	}
	secrets := []string{t.creds.Password}
	if t.creds.HasBasic() {
		basic := t.creds.BasicUsername + ":" + t.creds.BasicPassword
		args = append(args, "--basic", basic)
		secrets = append(secrets, basic)
	}
	return Command{Name: m.command, Args: args, Dir: dir, Secrets: secrets}
}

// Pull exports the app definition from env into design/apps/<app>/<env>.
func (m *Manager) Pull(ctx context.Context, key, env string) error {
	t, err := m.resolve(ctx, key, env)
	if err != nil {
		return err
	}
	logger := m.logger.With("app", key, "env", env, "app_id", t.appID)

	outputDir := filepath.Join(m.designDir, key, env)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("ginue: create %s: %w", outputDir, err)
	}

	cmd := m.ginue("pull", t, m.root)
	logger.Info("pulling app", "name", t.app.Name, "domain", t.creds.Domain)
	logger.Debug("running", "command", cmd.String())
	if err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("ginue: pull %s from %s: %w", key, env, err)
	}

	moved, err := moveExport(filepath.Join(m.root, t.appID), outputDir)
	if err != nil {
		return fmt.Errorf("ginue: collect export of %s: %w", key, err)
	}
	logger.Info("design files saved", "dir", outputDir, "files", moved)

	return m.touch(ctx, key, registry.ActionPull)
}

// moveExport moves every entry ginue wrote under src into dst and removes
// src. A missing src moves nothing.
func moveExport(src, dst string) (int, error) {
	entries, err := os.ReadDir(src)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		to := filepath.Join(dst, e.Name())
		if e.IsDir() {
			if err := os.RemoveAll(to); err != nil {
				return 0, err
			}
		}
		if err := os.Rename(filepath.Join(src, e.Name()), to); err != nil {
			return 0, err
		}
	}
	return len(entries), os.Remove(src)
}

// Push imports the dev design files of key into env. Reference tables are
// stripped from the staged payload because ginue cannot push them.
func (m *Manager) Push(ctx context.Context, key, env string) error {
	t, err := m.resolve(ctx, key, env)
	if err != nil {
		return err
	}
	logger := m.logger.With("app", key, "env", env, "app_id", t.appID)

	inputDir := filepath.Join(m.designDir, key, SourceEnvironment)
	files, err := designFiles(inputDir)
	if err != nil {
		return err
	}

	tempDir := filepath.Join(m.root, "temp")
	stageDir := filepath.Join(tempDir, t.appID)
	defer cleanup(logger, tempDir, stageDir)

	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return fmt.Errorf("ginue: create %s: %w", stageDir, err)
	}
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(inputDir, name))
		if err != nil {
			return fmt.Errorf("ginue: read %s: %w", name, err)
		}
		payload, dropped, err := stage(name, data)
		if err != nil {
			return err
		}
		for _, code := range dropped {
			logger.Info("skipping reference table", "file", name, "code", code)
		}
		if err := os.WriteFile(filepath.Join(stageDir, name), payload, 0o644); err != nil {
			return fmt.Errorf("ginue: stage %s: %w", name, err)
		}
	}

	cmd := m.ginue("push", t, tempDir)
	logger.Info("pushing app", "name", t.app.Name, "domain", t.creds.Domain, "files", len(files))
	logger.Debug("running", "command", cmd.String())
	if err := m.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("ginue: push %s to %s: %w", key, env, err)
	}

	return m.touch(ctx, key, registry.ActionPush)
}

func designFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist, pull from %s first", ErrNoDesignFiles, dir, SourceEnvironment)
	}
	if err != nil {
		return nil, fmt.Errorf("ginue: read %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			out = append(out, e.Name())
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDesignFiles, dir)
	}
	sort.Strings(out)
	return out, nil
}

func cleanup(logger *slog.Logger, tempDir, stageDir string) {
	if err := os.RemoveAll(stageDir); err != nil {
		logger.Warn("failed to remove staging dir", "dir", stageDir, "error", err)
	}
	entries, err := os.ReadDir(tempDir)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(tempDir)
	}
}

func (m *Manager) touch(ctx context.Context, key string, action registry.Action) error {
	err := registry.Update(ctx, m.store, func(reg *registry.Registry) error {
		return reg.Touch(key, action, m.now())
	})
	if err != nil {
		return fmt.Errorf("ginue: record %s history for %s: %w", action, key, err)
	}
	return nil
}
