package appconfig_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-kintone-schema/pkg/appconfig"
)

func fixture() *appconfig.Workspace {
	return appconfig.NewWorkspace(filepath.Join("testdata", "design"))
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestLoadAll(t *testing.T) {
	apps, err := fixture().LoadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"attendance", "draft", "studentMaster"}, appconfig.Names(apps))
	assert.Nil(t, apps[1].Config)
	require.NotNil(t, apps[2].Config)
	assert.Equal(t, appconfig.AppID("70"), apps[2].Config.Environments["prod"].AppID)
	assert.Equal(t, []string{"studentMaster"}, appconfig.EnabledNames(apps))
}

func TestLoadAll_MissingDir(t *testing.T) {
	apps, err := appconfig.NewWorkspace(t.TempDir()).LoadAll()
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestFilter(t *testing.T) {
	apps, err := fixture().LoadAll()
	require.NoError(t, err)

	cases := []struct {
		name     string
		criteria appconfig.Criteria
		want     []string
	}{
		{"zero keeps everything", appconfig.Criteria{}, []string{"attendance", "draft", "studentMaster"}},
		{"enabled", appconfig.Criteria{Enabled: boolPtr(true)}, []string{"studentMaster"}},
		{"disabled", appconfig.Criteria{Enabled: boolPtr(false)}, []string{"attendance"}},
		{"any tag", appconfig.Criteria{Tags: []string{"daily", "other"}}, []string{"attendance"}},
		{"priority", appconfig.Criteria{Priority: intPtr(1)}, []string{"studentMaster"}},
		{"env disabled", appconfig.Criteria{Environment: "prod"}, []string{"studentMaster"}},
		{"env dev", appconfig.Criteria{Environment: "dev"}, []string{"attendance", "studentMaster"}},
		{"combined", appconfig.Criteria{Tags: []string{"core"}, Enabled: boolPtr(false)}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := appconfig.Filter(apps, tc.criteria)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, appconfig.Names(got))
		})
	}
}

func TestStatus(t *testing.T) {
	status, err := fixture().Status("studentMaster")
	require.NoError(t, err)

	require.Len(t, status.Environments, 2)
	dev, prod := status.Environments[0], status.Environments[1]
	assert.Equal(t, "dev", dev.Environment)
	assert.Equal(t, "125", dev.AppID)
	assert.Equal(t, "2024-03-01T10:00:00Z", dev.LastExported)
	assert.Equal(t, []string{"app_form_fields.json", "app_form_layout.json"}, dev.Files)
	assert.True(t, dev.HasFiles())
	assert.Equal(t, "70", prod.AppID)
	assert.False(t, prod.HasFiles())
	assert.Empty(t, prod.LastImported)

	_, err = fixture().Status("draft")
	assert.ErrorIs(t, err, appconfig.ErrConfigNotFound)
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	ws := appconfig.NewWorkspace(dir)

	appDir, err := ws.Create("newApp", "123", "456", "")
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(appDir, "dev"))
	assert.DirExists(t, filepath.Join(appDir, "prod"))

	data, err := os.ReadFile(filepath.Join(appDir, appconfig.ConfigFile))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "newAppアプリの設計情報", raw["description"])

	cfg, err := ws.Load("newApp")
	require.NoError(t, err)
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, appconfig.AppID("456"), cfg.Environments["prod"].AppID)
	assert.Equal(t, "${KINTONE_DEV_DOMAIN}", cfg.Environments["dev"].Domain)

	_, err = ws.Create("newApp", "1", "2", "again")
	assert.ErrorIs(t, err, appconfig.ErrConfigExists)
}

func TestLoadGroups(t *testing.T) {
	groups, err := fixture().LoadGroups()
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "empty"}, groups.Names())
	assert.Equal(t, "core", groups.DefaultGroup)
	assert.Equal(t, []string{"studentMaster", "attendance"},
		groups.Members("core", []string{"attendance", "studentMaster"}))

	empty, err := appconfig.NewWorkspace(t.TempDir()).LoadGroups()
	require.NoError(t, err)
	assert.Empty(t, empty.AppGroups)
}

func TestParsePriority(t *testing.T) {
	p, err := appconfig.ParsePriority("3")
	require.NoError(t, err)
	assert.Equal(t, 3, *p)

	p, err = appconfig.ParsePriority("")
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = appconfig.ParsePriority("high")
	assert.Error(t, err)
}
