// Package customize uploads JavaScript/CSS customizations with
// kintone-customize-uploader.
package customize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-kintone-schema/pkg/ginue"
)

// ErrManifestNotFound reports a missing dev.json/pro.json manifest.
var ErrManifestNotFound = errors.New("customize: manifest not found")

// Environment names accepted by Upload.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Uploader runs kintone-customize-uploader for an app manifest.
type Uploader struct {
	root    string
	command string
	runner  ginue.Runner
	creds   ginue.CredentialSource
	logger  *slog.Logger
}

// Option configures an Uploader.
type Option func(*Uploader)

func WithRunner(r ginue.Runner) Option {
	return func(u *Uploader) {
		if r != nil {
			u.runner = r
		}
	}
}

func WithCredentials(src ginue.CredentialSource) Option {
	return func(u *Uploader) {
		if src != nil {
			u.creds = src
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// New builds an Uploader resolving manifests under root/src/apps.
func New(root string, opts ...Option) *Uploader {
	u := &Uploader{
		root:    root,
		command: "npx",
		runner:  ginue.ExecRunner{},
		creds:   ginue.EnvCredentials{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// NormalizeEnv maps NODE_ENV style names onto dev and prod.
func NormalizeEnv(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "dev", "development":
		return EnvDev, nil
	case "prod", "pro", "production":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("customize: unsupported environment %q", env)
	}
}

// ManifestPath returns the relative manifest path for app and env.
func ManifestPath(app, env string) string {
	name := "dev.json"
	if env == EnvProd {
		name = "pro.json"
	}
	return filepath.Join("src", "apps", app, name)
}

// Upload pushes the customization manifest of app to env.
func (u *Uploader) Upload(ctx context.Context, app, env string) error {
	if app == "" {
		return errors.New("customize: app name is required")
	}
	env, err := NormalizeEnv(env)
	if err != nil {
		return err
	}
	creds, err := u.creds.Credentials(env)
	if err != nil {
		return fmt.Errorf("customize: credentials for %s: %w", env, err)
	}
	if err := creds.Validate(env); err != nil {
		return err
	}

	manifest := ManifestPath(app, env)
	if _, err := os.Stat(filepath.Join(u.root, manifest)); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrManifestNotFound, manifest)
	} else if err != nil {
		return fmt.Errorf("customize: stat %s: %w", manifest, err)
	}

	baseURL := "https://" + creds.Domain
	cmd := ginue.Command{
		Name: u.command,
		Args: []string{
			"kintone-customize-uploader",
			"--base-url", baseURL,
			"--username", creds.Username,
			"--password", creds.Password,
			manifest,
		},
		Dir:     u.root,
		Secrets: []string{creds.Password},
	}
	u.logger.Info("uploading customization", "app", app, "env", env, "url", baseURL, "manifest", manifest)
	u.logger.Debug("running", "command", cmd.String())
	if err := u.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("customize: upload %s: %w", manifest, err)
	}
	return nil
}
