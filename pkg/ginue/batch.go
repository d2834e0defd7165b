package ginue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-kintone-schema/pkg/registry"
)

// BatchError collects the failures of a Batch run. RunID matches the "run"
// attribute of the run's log records.
type BatchError struct {
	RunID  string
	Failed []string
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("ginue: %d app(s) failed: %s", len(e.Failed), strings.Join(e.Failed, ", "))
}

func (e *BatchError) Unwrap() error { return e.Err }

// Batch runs action for every app and keeps going after failures. Log
// records of the run share a "run" id.
func (m *Manager) Batch(ctx context.Context, action registry.Action, apps []string, env string) error {
	id := m.runID()
	scoped := *m
	scoped.logger = m.logger.With("run", id)

	var run func(context.Context, string, string) error
	switch action {
	case registry.ActionPull:
		run = scoped.Pull
	case registry.ActionPush:
		run = scoped.Push
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	var (
		failed []string
		errs   []error
	)
	for i, key := range apps {
		if err := ctx.Err(); err != nil {
			failed = append(failed, apps[i:]...)
			errs = append(errs, err)
			break
		}
		if err := run(ctx, key, env); err != nil {
			scoped.logger.Error("sync failed", "action", action, "app", key, "env", env, "error", err)
			failed = append(failed, key)
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
	}
	scoped.logger.Info("batch finished", "action", action, "env", env,
		"succeeded", len(apps)-len(failed), "failed", len(failed))

	if len(failed) == 0 {
		return nil
	}
	return &BatchError{RunID: id, Failed: failed, Err: errors.Join(errs...)}
}

// RegisteredApp is an app bound to an environment.
type RegisteredApp struct {
	Key         string
	Name        string
	AppID       string
	Category    string
	Description string
}

// Registered lists the apps bound to env along with the environment
// credentials, which must be configured.
func (m *Manager) Registered(ctx context.Context, env string) ([]RegisteredApp, Credentials, error) {
	reg, err := m.store.Load(ctx)
	if err != nil {
		return nil, Credentials{}, fmt.Errorf("ginue: load registry: %w", err)
	}
	if !reg.HasEnvironment(env) {
		return nil, Credentials{}, fmt.Errorf("%w: %q is not declared in the registry", ErrEnvironmentNotFound, env)
	}
	creds, err := m.creds.Credentials(env)
	if err != nil {
		return nil, Credentials{}, fmt.Errorf("ginue: credentials for %s: %w", env, err)
	}
	if err := creds.Validate(env); err != nil {
		return nil, Credentials{}, err
	}

	var out []RegisteredApp
	for _, key := range reg.Keys() {
		app := reg.Apps[key]
		binding, ok := app.Environments[env]
		if !ok {
			continue
		}
		out = append(out, RegisteredApp{
			Key:         key,
			Name:        app.Name,
			AppID:       binding.AppID,
			Category:    app.CategoryOrDefault(),
			Description: app.Description,
		})
	}
	return out, creds, nil
}
