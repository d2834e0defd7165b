package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewFileStore(filepath.Join("testdata", "apps-registry.json")).Load(context.Background())
	require.NoError(t, err)
	return reg
}

func TestFileStore_LoadJSON(t *testing.T) {
	reg := loadFixture(t)

	assert.Equal(t, []string{"attendance", "legacyReport", "studentMaster"}, reg.Keys())
	assert.Equal(t, []string{"attendance", "studentMaster"}, reg.Enabled())
	assert.Equal(t, "マスタデータ", reg.Categories.Name("master"))

	app, err := reg.App("studentMaster")
	require.NoError(t, err)
	assert.Equal(t, "125", app.Environments["dev"].AppID)
	assert.Equal(t, "master", app.CategoryOrDefault())

	attendance, err := reg.App("attendance")
	require.NoError(t, err)
	assert.True(t, attendance.IsEnabled())
	assert.Equal(t, "other", attendance.CategoryOrDefault())
}

func TestFileStore_LoadYAML(t *testing.T) {
	reg, err := NewFileStore(filepath.Join("testdata", "apps-registry.yaml")).Load(context.Background())
	require.NoError(t, err)

	app, err := reg.App("studentMaster")
	require.NoError(t, err)
	assert.Equal(t, "学生マスタ", app.Name)
	assert.Equal(t, "125", app.Environments["dev"].AppID)
}

func TestFileStore_MissingFile(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps-registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"apps": `), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestUpdate_TouchPersistsHistory(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "apps-registry.json"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "apps-registry.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := NewFileStore(path)
	now := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

	err = Update(context.Background(), store, func(reg *Registry) error {
		return reg.Touch("studentMaster", ActionPull, now)
	})
	require.NoError(t, err)

	reg, err := store.Load(context.Background())
	require.NoError(t, err)
	app, err := reg.App("studentMaster")
	require.NoError(t, err)
	require.NotNil(t, app.History)
	require.NotNil(t, app.History.LastExported)
	assert.True(t, app.History.LastExported.Equal(now))
	assert.True(t, app.History.LastModified.Equal(now))
	assert.Nil(t, app.History.LastImported)
}

func TestUpdate_FailedMutationDoesNotSave(t *testing.T) {
	store := &MemoryStore{Registry: &Registry{Apps: map[string]App{}}}

	err := Update(context.Background(), store, func(reg *Registry) error {
		return reg.Touch("missing", ActionPush, time.Now())
	})

	assert.ErrorIs(t, err, ErrAppNotFound)
	assert.Zero(t, store.Saves)
}

func TestRegistry_AddApp(t *testing.T) {
	reg := &Registry{}

	require.NoError(t, reg.AddApp("teacherMaster", App{
		Name: "教師マスタ",
		Environments: map[string]AppEnvironment{
			"dev":  {AppID: "125"},
			"prod": {AppID: "70"},
		},
	}))

	app, err := reg.App("teacherMaster")
	require.NoError(t, err)
	assert.Equal(t, "other", app.Category)
	assert.Equal(t, []string{"other"}, app.Tags)
	assert.True(t, app.IsEnabled())

	assert.ErrorIs(t, reg.AddApp("teacherMaster", App{}), ErrAppExists)
	assert.Error(t, reg.AddApp("", App{}))
}

func TestRegistry_ResolveTargets(t *testing.T) {
	reg := loadFixture(t)

	all, err := reg.ResolveTargets("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"attendance", "studentMaster"}, all)

	list, err := reg.ResolveTargets("studentMaster, attendance")
	require.NoError(t, err)
	assert.Equal(t, []string{"studentMaster", "attendance"}, list)

	single, err := reg.ResolveTargets("attendance")
	require.NoError(t, err)
	assert.Equal(t, []string{"attendance"}, single)

	_, err = reg.ResolveTargets("legacyReport")
	assert.ErrorIs(t, err, ErrAppNotFound)

	_, err = reg.ResolveTargets("studentMaster,ghost")
	require.ErrorIs(t, err, ErrAppNotFound)
	assert.Contains(t, err.Error(), "ghost")

	_, err = reg.ResolveTargets(" , ")
	assert.Error(t, err)
}

func TestRegistry_HasEnvironment(t *testing.T) {
	reg := loadFixture(t)
	assert.True(t, reg.HasEnvironment("dev"))
	assert.False(t, reg.HasEnvironment("staging"))

	bare := &Registry{}
	assert.True(t, bare.HasEnvironment("prod"))
	assert.False(t, bare.HasEnvironment("staging"))
}

func TestExpandEnv(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "KINTONE_DEV_DOMAIN" {
			return "example.cybozu.com", true
		}
		if name == "EMPTY" {
			return "", true
		}
		return "", false
	}

	assert.Equal(t, "example.cybozu.com", ExpandEnv("${KINTONE_DEV_DOMAIN}", lookup))
	assert.Equal(t, "${MISSING}", ExpandEnv("${MISSING}", lookup))
	assert.Equal(t, "${EMPTY}/x", ExpandEnv("${EMPTY}/x", lookup))
	assert.Equal(t, "plain", ExpandEnv("plain", lookup))
}

func TestAssignments(t *testing.T) {
	reg := loadFixture(t)

	got := reg.Assignments()
	require.Len(t, got, 3)
	assert.Equal(t, "studentMaster", got[2].Key)
	assert.Equal(t, "学生マスタ", got[2].Title)
	assert.Equal(t, "master", got[2].Category)
}
