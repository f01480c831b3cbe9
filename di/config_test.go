package di_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bronystylecrazy/diref/di"
	"github.com/bronystylecrazy/diref/ditest"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
di:
  property_tag: json
  strict_properties: true
definitions:
  mailer:
    __class: Mailer
    from: noreply@example.com
    retries: "2"
    __construct():
      transport:
        id: smtp
  alias:
    id: mailer
  widgets:
    __class: Widget
    tags:
      - a
      - b
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "config.yaml", testConfigYAML)

	cfg, err := di.LoadConfig[di.Config](path, "di")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.PropertyTag)
	assert.True(t, cfg.StrictProperties)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", testConfigYAML)
	t.Setenv("APP_DI_STRICT_PROPERTIES", "false")

	cfg, err := di.LoadConfig[di.Config](path, "di", di.ConfigEnvOverride("APP"))
	require.NoError(t, err)
	assert.False(t, cfg.StrictProperties)
	assert.Equal(t, "json", cfg.PropertyTag)
}

func TestLoadConfigValidates(t *testing.T) {
	path := writeConfig(t, "config.toml", "[di]\nproperty_tag = \"not valid!\"\n")

	_, err := di.LoadConfig[di.Config](path, "di")
	require.Error(t, err)
	assert.ErrorIs(t, err, di.ErrInvalidConfig)
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := di.LoadConfig[di.Config](path, "di")
	assert.Error(t, err)

	cfg, err := di.LoadConfig[di.Config](path, "di", di.ConfigOptional(), di.ConfigDefault("di.property_tag", "yaml"))
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.PropertyTag)
}

func TestLoadConfigRejectsEmptyType(t *testing.T) {
	_, err := di.LoadConfig[di.Config]("", "di", di.ConfigType(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config type must not be empty")
}

func TestLoadConfigType(t *testing.T) {
	path := writeConfig(t, "settings", "[di]\nproperty_tag = \"toml\"\n")

	cfg, err := di.LoadConfig[di.Config](path, "di", di.ConfigType("toml"))
	require.NoError(t, err)
	assert.Equal(t, "toml", cfg.PropertyTag)
}

func TestLoadConfigEnvPrefix(t *testing.T) {
	path := writeConfig(t, "config.yaml", testConfigYAML)
	t.Setenv("SVC_DI_PROPERTY_TAG", "env")

	cfg, err := di.LoadConfig[di.Config](path, "di", di.ConfigEnvPrefix("SVC"), di.ConfigEnvOverride())
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.PropertyTag)
}

func TestLoadConfigWithViper(t *testing.T) {
	path := writeConfig(t, "config.yaml", testConfigYAML)

	cfg, err := di.LoadConfig[di.Config](path, "di", di.ConfigWithViper(func(v *viper.Viper) error {
		v.Set("di.strict_properties", false)
		return nil
	}))
	require.NoError(t, err)
	assert.False(t, cfg.StrictProperties)

	errHook := errors.New("hook failed")
	_, err = di.LoadConfig[di.Config](path, "di", di.ConfigWithViper(func(*viper.Viper) error {
		return errHook
	}))
	assert.ErrorIs(t, err, errHook)
}

type SquashBase struct {
	Name string `mapstructure:"name"`
}

type squashConfig struct {
	SquashBase `mapstructure:",squash,omitempty"`
	Extra      string `mapstructure:"extra"`
}

func TestLoadConfigSquashWithOptions(t *testing.T) {
	path := writeConfig(t, "app.yaml", "app:\n  name: mailer\n  extra: smtp\n")

	cfg, err := di.LoadConfig[squashConfig](path, "app")
	require.NoError(t, err)
	assert.Equal(t, "mailer", cfg.Name)
	assert.Equal(t, "smtp", cfg.Extra)
}

func TestLoadDefinitionsRejectsNullID(t *testing.T) {
	path := writeConfig(t, "config.yaml", "definitions:\n  mailer:\n    transport:\n      id: ~\n")

	_, err := di.LoadDefinitions(path, "definitions")
	require.Error(t, err)
	assert.ErrorIs(t, err, di.ErrInvalidConfig)
	assert.Contains(t, err.Error(), `definition "mailer"`)
}

func TestLoadConfigDecodesReferences(t *testing.T) {
	type wiring struct {
		Transport di.Reference `mapstructure:"transport"`
	}
	path := writeConfig(t, "wiring.yaml", "mail:\n  transport:\n    id: smtp\n")

	w, err := di.LoadConfig[wiring](path, "mail")
	require.NoError(t, err)
	assert.Equal(t, di.To("smtp"), w.Transport)
}

func TestLoadDefinitionsRestoresReferences(t *testing.T) {
	path := writeConfig(t, "config.yaml", testConfigYAML)

	defs, err := di.LoadDefinitions(path, "definitions")
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, di.To("mailer"), defs["alias"])

	mailer, ok := defs["mailer"].(map[string]any)
	require.True(t, ok, "got %T", defs["mailer"])
	construct, ok := mailer["__construct()"].(map[string]any)
	require.True(t, ok, "got %T", mailer["__construct()"])
	assert.Equal(t, di.To("smtp"), construct["transport"])
}

func TestLoadedDefinitionsResolve(t *testing.T) {
	path := writeConfig(t, "config.yaml", testConfigYAML)
	defs, err := di.LoadDefinitions(path, "definitions")
	require.NoError(t, err)

	smtp := &Transport{Host: "smtp.local"}
	c := ditest.NewContainer().Set("smtp", smtp)
	n := di.NewNormalizer(di.WithTypes(newTestTypes(t)))

	ref, err := n.Dynamic(defs["mailer"])
	require.NoError(t, err)
	out, err := ref.Resolve(c, nil)
	require.NoError(t, err)
	m := out.(*Mailer)
	assert.Same(t, smtp, m.Transport)
	assert.Equal(t, "noreply@example.com", m.From)
	assert.Equal(t, 2, m.Retries)

	ref, err = n.Dynamic(defs["widgets"])
	require.NoError(t, err)
	out, err = ref.Resolve(c, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.(*Widget).Tags)
}
