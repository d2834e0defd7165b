package ginue_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-kintone-schema/pkg/ginue"
	"github.com/goliatone/go-kintone-schema/pkg/registry"
)

type fakeRunner struct {
	commands []ginue.Command
	staged   map[string]string
	onRun    func(cmd ginue.Command) error
}

func (f *fakeRunner) Run(_ context.Context, cmd ginue.Command) error {
	f.commands = append(f.commands, cmd)
	if f.onRun != nil {
		return f.onRun(cmd)
	}
	return nil
}

var fixedNow = time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

func testRegistry() *registry.MemoryStore {
	return &registry.MemoryStore{Registry: &registry.Registry{
		Environments: map[string]registry.Environment{
			"dev":  {Name: "Development"},
			"prod": {Name: "Production"},
		},
		Apps: map[string]registry.App{
			"studentMaster": {
				Name: "生徒マスタ",
				Environments: map[string]registry.AppEnvironment{
					"dev":  {AppID: "125"},
					"prod": {AppID: "70"},
				},
			},
			"attendance": {
				Name: "出欠",
				Environments: map[string]registry.AppEnvironment{
					"dev": {AppID: "130"},
				},
			},
		},
	}}
}

func credentials(basic bool) ginue.CredentialSource {
	return ginue.CredentialFunc(func(env string) (ginue.Credentials, error) {
		c := ginue.Credentials{Domain: env + ".cybozu.com", Username: "admin", Password: "s3cret"}
		if basic {
			c.BasicUsername, c.BasicPassword = "basic", "pw"
		}
		return c, nil
	})
}

func newManager(t *testing.T, store registry.Store, runner ginue.Runner, basic bool) (*ginue.Manager, string) {
	t.Helper()
	root := t.TempDir()
	m := ginue.NewManager(root, store,
		ginue.WithRunner(runner),
		ginue.WithCredentials(credentials(basic)),
		ginue.WithClock(func() time.Time { return fixedNow }),
	)
	return m, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPull_MovesExportAndRecordsHistory(t *testing.T) {
	store := testRegistry()
	runner := &fakeRunner{}
	m, root := newManager(t, store, runner, true)

	runner.onRun = func(cmd ginue.Command) error {
		writeFile(t, filepath.Join(cmd.Dir, "125", "app_form_fields.json"), `{"properties":{}}`)
		writeFile(t, filepath.Join(cmd.Dir, "125", "app_form_layout.json"), `{"layout":[]}`)
		return nil
	}

	require.NoError(t, m.Pull(context.Background(), "studentMaster", "dev"))

	require.Len(t, runner.commands, 1)
	cmd := runner.commands[0]
	assert.Equal(t, "npx", cmd.Name)
	assert.Equal(t, root, cmd.Dir)
	assert.Equal(t, []string{
		"ginue", "pull",
		"--domain", "dev.cybozu.com",
		"--username", "admin",
		"--password", "s3cret",
		"--app", "125",
		"--basic", "basic:pw",
	}, cmd.Args)
	assert.NotContains(t, cmd.String(), "s3cret")
	assert.NotContains(t, cmd.String(), "basic:pw")

	outDir := filepath.Join(root, "design", "apps", "studentMaster", "dev")
	assert.FileExists(t, filepath.Join(outDir, "app_form_fields.json"))
	assert.FileExists(t, filepath.Join(outDir, "app_form_layout.json"))
	assert.NoDirExists(t, filepath.Join(root, "125"))

	history := store.Registry.Apps["studentMaster"].History
	require.NotNil(t, history)
	require.NotNil(t, history.LastExported)
	assert.True(t, history.LastExported.Equal(fixedNow))
	assert.Nil(t, history.LastImported)
	assert.Equal(t, 1, store.Saves)
}

func TestPull_RunnerFailureSkipsHistory(t *testing.T) {
	store := testRegistry()
	runner := &fakeRunner{onRun: func(ginue.Command) error { return errors.New("exit status 1") }}
	m, _ := newManager(t, store, runner, false)

	err := m.Pull(context.Background(), "studentMaster", "dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pull studentMaster from dev")
	assert.Zero(t, store.Saves)
	assert.NotContains(t, runner.commands[0].Args, "--basic")
}

func TestPull_EnvironmentChecks(t *testing.T) {
	store := testRegistry()
	m, _ := newManager(t, store, &fakeRunner{}, false)

	err := m.Pull(context.Background(), "attendance", "prod")
	assert.ErrorIs(t, err, ginue.ErrEnvironmentNotFound)

	err = m.Pull(context.Background(), "studentMaster", "staging")
	assert.ErrorIs(t, err, ginue.ErrEnvironmentNotFound)

	err = m.Pull(context.Background(), "missing", "dev")
	assert.ErrorIs(t, err, registry.ErrAppNotFound)
}

func TestPull_MissingCredentials(t *testing.T) {
	store := testRegistry()
	root := t.TempDir()
	m := ginue.NewManager(root, store,
		ginue.WithRunner(&fakeRunner{}),
		ginue.WithCredentials(ginue.EnvCredentials{Lookup: func(string) (string, bool) { return "", false }}),
	)

	err := m.Pull(context.Background(), "studentMaster", "dev")
	require.ErrorIs(t, err, ginue.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "domain, username, password")
}

func TestPush_StagesFilteredFiles(t *testing.T) {
	store := testRegistry()
	runner := &fakeRunner{staged: map[string]string{}}
	m, root := newManager(t, store, runner, false)

	devDir := filepath.Join(root, "design", "apps", "studentMaster", "dev")
	writeFile(t, filepath.Join(devDir, "app_form_fields.json"), `{
  "properties": {
    "name": {"type": "SINGLE_LINE_TEXT", "code": "name"},
    "history": {"type": "REFERENCE_TABLE", "code": "history"},
    "age": {"type": "NUMBER", "code": "age"}
  },
  "revision": "3"
}`)
	writeFile(t, filepath.Join(devDir, "form.json"), `{"properties":[{"type":"SINGLE_LINE_TEXT","code":"name"},{"type":"REFERENCE_TABLE","code":"history"}]}`)
	writeFile(t, filepath.Join(devDir, "app_settings.json"), `{"name":"生徒マスタ"}`)
	writeFile(t, filepath.Join(devDir, "notes.txt"), "ignored")

	runner.onRun = func(cmd ginue.Command) error {
		stageDir := filepath.Join(cmd.Dir, "70")
		entries, err := os.ReadDir(stageDir)
		require.NoError(t, err)
		for _, e := range entries {
			data, err := os.ReadFile(filepath.Join(stageDir, e.Name()))
			require.NoError(t, err)
			runner.staged[e.Name()] = string(data)
		}
		return nil
	}

	require.NoError(t, m.Push(context.Background(), "studentMaster", "prod"))

	require.Len(t, runner.commands, 1)
	assert.Equal(t, filepath.Join(root, "temp"), runner.commands[0].Dir)
	assert.Equal(t, []string{
		"ginue", "push",
		"--domain", "prod.cybozu.com",
		"--username", "admin",
		"--password", "s3cret",
		"--app", "70",
	}, runner.commands[0].Args)

	require.Len(t, runner.staged, 3)
	assert.JSONEq(t, `{"properties":{"name":{"type":"SINGLE_LINE_TEXT","code":"name"},"age":{"type":"NUMBER","code":"age"}},"revision":"3"}`,
		runner.staged["app_form_fields.json"])
	assert.Less(t,
		strings.Index(runner.staged["app_form_fields.json"], `"name"`),
		strings.Index(runner.staged["app_form_fields.json"], `"age"`))
	assert.JSONEq(t, `{"properties":[{"type":"SINGLE_LINE_TEXT","code":"name"}]}`, runner.staged["form.json"])
	assert.Equal(t, `{"name":"生徒マスタ"}`, runner.staged["app_settings.json"])

	assert.NoDirExists(t, filepath.Join(root, "temp"))
	history := store.Registry.Apps["studentMaster"].History
	require.NotNil(t, history)
	require.NotNil(t, history.LastImported)
	assert.Nil(t, history.LastExported)
}

func TestPush_CleansUpOnFailure(t *testing.T) {
	store := testRegistry()
	runner := &fakeRunner{onRun: func(ginue.Command) error { return errors.New("boom") }}
	m, root := newManager(t, store, runner, false)

	writeFile(t, filepath.Join(root, "design", "apps", "studentMaster", "dev", "form.json"), `{"properties":[]}`)
	writeFile(t, filepath.Join(root, "temp", "keep.txt"), "other run")

	require.Error(t, m.Push(context.Background(), "studentMaster", "prod"))
	assert.NoDirExists(t, filepath.Join(root, "temp", "70"))
	assert.FileExists(t, filepath.Join(root, "temp", "keep.txt"))
	assert.Zero(t, store.Saves)
}

func TestPush_RequiresDesignFiles(t *testing.T) {
	store := testRegistry()
	m, root := newManager(t, store, &fakeRunner{}, false)

	err := m.Push(context.Background(), "studentMaster", "prod")
	assert.ErrorIs(t, err, ginue.ErrNoDesignFiles)

	writeFile(t, filepath.Join(root, "design", "apps", "studentMaster", "dev", "readme.md"), "#")
	err = m.Push(context.Background(), "studentMaster", "prod")
	assert.ErrorIs(t, err, ginue.ErrNoDesignFiles)
}

func TestBatch_ContinuesAfterFailure(t *testing.T) {
	store := testRegistry()
	runner := &fakeRunner{onRun: func(cmd ginue.Command) error {
		if cmd.Args[len(cmd.Args)-1] == "130" {
			return errors.New("exit status 1")
		}
		return nil
	}}
	m, _ := newManager(t, store, runner, false)
	ginue.WithRunID(func() string { return "run-1" })(m)

	err := m.Batch(context.Background(), registry.ActionPull, []string{"attendance", "studentMaster"}, "dev")
	require.Error(t, err)

	var batchErr *ginue.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, "run-1", batchErr.RunID)
	assert.Equal(t, []string{"attendance"}, batchErr.Failed)
	assert.Contains(t, err.Error(), "attendance")
	assert.Len(t, runner.commands, 2)
	require.NotNil(t, store.Registry.Apps["studentMaster"].History)
	assert.Nil(t, store.Registry.Apps["attendance"].History)
}

func TestBatch_UnknownAction(t *testing.T) {
	m, _ := newManager(t, testRegistry(), &fakeRunner{}, false)
	err := m.Batch(context.Background(), registry.Action("sync"), []string{"attendance"}, "dev")
	assert.ErrorIs(t, err, ginue.ErrUnknownAction)
}

func TestRegistered(t *testing.T) {
	m, _ := newManager(t, testRegistry(), &fakeRunner{}, false)

	apps, creds, err := m.Registered(context.Background(), "prod")
	require.NoError(t, err)
	assert.Equal(t, "prod.cybozu.com", creds.Domain)
	require.Len(t, apps, 1)
	assert.Equal(t, "studentMaster", apps[0].Key)
	assert.Equal(t, "70", apps[0].AppID)
	assert.Equal(t, "other", apps[0].Category)
}

func TestEnvCredentials(t *testing.T) {
	vars := map[string]string{
		"KINTONE_DEV_DOMAIN":   "example.cybozu.com",
		"KINTONE_DEV_USERNAME": "admin",
		"KINTONE_DEV_PASSWORD": " pw ",
	}
	src := ginue.EnvCredentials{Lookup: func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}}

	creds, err := src.Credentials("dev")
	require.NoError(t, err)
	assert.Equal(t, ginue.Credentials{Domain: "example.cybozu.com", Username: "admin", Password: "pw"}, creds)
	assert.NoError(t, creds.Validate("dev"))
	assert.False(t, creds.HasBasic())
	assert.Equal(t, "KINTONE_PROD_BASIC_PASSWORD", ginue.EnvKey("prod", "BASIC_PASSWORD"))
}
