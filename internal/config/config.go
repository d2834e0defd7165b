// Package config resolves CLI settings from flags, KINTONE_* environment
// variables, an optional kintone-tools.yaml and the project .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-kintone-schema/pkg/ginue"
)

const (
	EnvPrefix  = "kintone"
	ConfigName = "kintone-tools"
)

// Keys and the flags bound to them.
const (
	KeyRoot             = "root"
	KeyDesignDir        = "design_dir"
	KeyRegistry         = "registry"
	KeyOutputDir        = "output_dir"
	KeyTitle            = "title"
	KeyLogLevel         = "log_level"
	KeyMaxRelationships = "max_relationships"
	KeyGrouping         = "grouping"
	KeyLayoutPolicy     = "layout_policy"
	KeyVariant          = "variant"
	KeyRenderers        = "renderers"
	KeyTemplatesDir     = "templates_dir"
	KeyThemeFile        = "theme_file"
)

var flagKeys = map[string]string{
	"root":              KeyRoot,
	"design-dir":        KeyDesignDir,
	"registry":          KeyRegistry,
	"output":            KeyOutputDir,
	"title":             KeyTitle,
	"log-level":         KeyLogLevel,
	"max-relationships": KeyMaxRelationships,
	"grouping":          KeyGrouping,
	"layout-policy":     KeyLayoutPolicy,
	"variant":           KeyVariant,
	"renderers":         KeyRenderers,
	"templates-dir":     KeyTemplatesDir,
	"theme-file":        KeyThemeFile,
}

// Config is the resolved CLI configuration. Relative paths are resolved
// against Root.
type Config struct {
	Root             string
	DesignDir        string
	Registry         string
	OutputDir        string
	Title            string
	LogLevel         string
	MaxRelationships int
	Grouping         string
	LayoutPolicy     string
	Variant          string
	Renderers        []string
	// TemplatesDir and ThemeFile customise the HTML page; empty keeps the
	// built-in templates and colours.
	TemplatesDir string
	ThemeFile    string

	v *viper.Viper
}

// Load reads configuration. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	root := "."
	if flags != nil {
		if f := flags.Lookup("root"); f != nil && f.Value.String() != "" {
			root = f.Value.String()
		}
	}

	if err := loadDotEnv(filepath.Join(root, ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyRoot, root)
	v.SetDefault(KeyDesignDir, "design")
	v.SetDefault(KeyRegistry, "apps-registry.json")
	v.SetDefault(KeyOutputDir, "docs")
	v.SetDefault(KeyTitle, "kintone アプリスキーマ")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMaxRelationships, 50)
	v.SetDefault(KeyGrouping, "row")
	v.SetDefault(KeyLayoutPolicy, "")
	v.SetDefault(KeyVariant, "")
	v.SetDefault(KeyRenderers, []string{})
	v.SetDefault(KeyTemplatesDir, "")
	v.SetDefault(KeyThemeFile, "")

	v.SetConfigName(ConfigName)
	v.AddConfigPath(root)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", ConfigName, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Root:             v.GetString(KeyRoot),
		Title:            v.GetString(KeyTitle),
		LogLevel:         v.GetString(KeyLogLevel),
		MaxRelationships: v.GetInt(KeyMaxRelationships),
		Grouping:         v.GetString(KeyGrouping),
		LayoutPolicy:     v.GetString(KeyLayoutPolicy),
		Variant:          v.GetString(KeyVariant),
		Renderers:        splitList(v.GetStringSlice(KeyRenderers)),
		v:                v,
	}
	cfg.DesignDir = cfg.resolve(v.GetString(KeyDesignDir))
	cfg.Registry = cfg.resolve(v.GetString(KeyRegistry))
	cfg.OutputDir = cfg.resolve(v.GetString(KeyOutputDir))
	cfg.TemplatesDir = cfg.resolve(v.GetString(KeyTemplatesDir))
	cfg.ThemeFile = cfg.resolve(v.GetString(KeyThemeFile))
	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: load %s: %w", path, err)
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// AppsDir is the directory holding one folder per app.
func (c *Config) AppsDir() string {
	return filepath.Join(c.DesignDir, "apps")
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Credentials reads <env>.domain, <env>.username, <env>.password,
// <env>.basic_username and <env>.basic_password, which map to
// KINTONE_<ENV>_DOMAIN and friends.
func (c *Config) Credentials(env string) (ginue.Credentials, error) {
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		return ginue.Credentials{}, errors.New("config: environment is required")
	}
	get := func(name string) string {
		return strings.TrimSpace(c.v.GetString(env + "." + name))
	}
	return ginue.Credentials{
		Domain:        get("domain"),
		Username:      get("username"),
		Password:      get("password"),
		BasicUsername: get("basic_username"),
		BasicPassword: get("basic_password"),
	}, nil
}

// Lookup resolves ${NAME} references in registry values. Process variables
// win, then the configuration file.
func (c *Config) Lookup(name string) (string, bool) {
	if value, ok := os.LookupEnv(name); ok {
		return value, true
	}
	key := strings.ToLower(strings.TrimPrefix(name, "KINTONE_"))
	if parts := strings.SplitN(key, "_", 2); len(parts) == 2 && c.v.IsSet(parts[0]+"."+parts[1]) {
		return c.v.GetString(parts[0] + "." + parts[1]), true
	}
	return "", false
}

var _ ginue.CredentialSource = (*Config)(nil)
