package customize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-kintone-schema/pkg/customize"
	"github.com/goliatone/go-kintone-schema/pkg/ginue"
)

type recorder struct{ commands []ginue.Command }

func (r *recorder) Run(_ context.Context, cmd ginue.Command) error {
	r.commands = append(r.commands, cmd)
	return nil
}

func creds(env string) (ginue.Credentials, error) {
	return ginue.Credentials{Domain: env + ".cybozu.com", Username: "u", Password: "p"}, nil
}

func TestUpload(t *testing.T) {
	root := t.TempDir()
	manifest := filepath.Join(root, "src", "apps", "sampleApp", "pro.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(manifest), 0o755))
	require.NoError(t, os.WriteFile(manifest, []byte(`{}`), 0o644))

	rec := &recorder{}
	u := customize.New(root, customize.WithRunner(rec), customize.WithCredentials(ginue.CredentialFunc(creds)))

	require.NoError(t, u.Upload(context.Background(), "sampleApp", "production"))
	require.Len(t, rec.commands, 1)
	assert.Equal(t, root, rec.commands[0].Dir)
	assert.Equal(t, []string{
		"kintone-customize-uploader",
		"--base-url", "https://prod.cybozu.com",
		"--username", "u",
		"--password", "p",
		filepath.Join("src", "apps", "sampleApp", "pro.json"),
	}, rec.commands[0].Args)
}

func TestUpload_MissingManifest(t *testing.T) {
	rec := &recorder{}
	u := customize.New(t.TempDir(), customize.WithRunner(rec), customize.WithCredentials(ginue.CredentialFunc(creds)))

	err := u.Upload(context.Background(), "sampleApp", "dev")
	assert.ErrorIs(t, err, customize.ErrManifestNotFound)
	assert.Empty(t, rec.commands)
}

func TestUpload_MissingCredentials(t *testing.T) {
	empty := ginue.EnvCredentials{Lookup: func(string) (string, bool) { return "", false }}
	u := customize.New(t.TempDir(), customize.WithRunner(&recorder{}), customize.WithCredentials(empty))

	assert.ErrorIs(t, u.Upload(context.Background(), "sampleApp", "dev"), ginue.ErrMissingCredentials)
}

func TestNormalizeEnv(t *testing.T) {
	for in, want := range map[string]string{"": "dev", "development": "dev", "PRO": "prod", "prod": "prod"} {
		got, err := customize.NormalizeEnv(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := customize.NormalizeEnv("staging")
	assert.Error(t, err)
}
