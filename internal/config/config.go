package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"idea/internal/log"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataDir        = "~/.local/share/idea"
	EnvPrefix             = "IDEA"
	EnvConfigPath         = "IDEA_CONFIG_PATH"
)

type Keymap struct {
	Quit     string `toml:"quit" mapstructure:"quit"`
	Up       string `toml:"up" mapstructure:"up"`
	Down     string `toml:"down" mapstructure:"down"`
	Top      string `toml:"top" mapstructure:"top"`
	Bottom   string `toml:"bottom" mapstructure:"bottom"`
	MoveUp   string `toml:"move_up" mapstructure:"move_up"`
	MoveDown string `toml:"move_down" mapstructure:"move_down"`
	Toggle   string `toml:"toggle" mapstructure:"toggle"`
	Unselect string `toml:"unselect" mapstructure:"unselect"`
	Visual   string `toml:"visual" mapstructure:"visual"`
	Command  string `toml:"command" mapstructure:"command"`
	Delete   string `toml:"delete" mapstructure:"delete"`
	AddBelow string `toml:"add_below" mapstructure:"add_below"`
	AddAbove string `toml:"add_above" mapstructure:"add_above"`
	Cancel   string `toml:"cancel" mapstructure:"cancel"`
}

type Config struct {
	DBPath   string `toml:"db_path" mapstructure:"db_path"`
	NotesDir string `toml:"notes_dir" mapstructure:"notes_dir"`
	LogPath  string `toml:"log_path" mapstructure:"log_path"`
	Debug    bool   `toml:"debug" mapstructure:"debug"`
	Keys     Keymap `toml:"keys" mapstructure:"keys"`
}

// ResolveConfigPath returns $IDEA_CONFIG_PATH/config.toml when the variable
// is set, otherwise ~/.config/idea/config.toml.
func ResolveConfigPath() string {
	if dir := os.Getenv(EnvConfigPath); dir != "" {
		return filepath.Join(dir, DefaultConfigFileName)
	}
	home, err := homedir.Dir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", "idea", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when it does not exist. IDEA_* environment variables override file values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Defaults()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		log.Info(log.CatConfig, "wrote default config", "path", path)
	}

	defaults, err := toml.Marshal(cfg)
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return cfg, err
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.fill()
	if err := cfg.expand(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Defaults() Config {
	return Config{
		DBPath:   DefaultDataDir + "/idea.db",
		NotesDir: DefaultDataDir + "/notes",
		LogPath:  DefaultDataDir + "/debug.log",
		Keys: Keymap{
			Quit:     "q",
			Up:       "k",
			Down:     "j",
			Top:      "g",
			Bottom:   "G",
			MoveUp:   "K",
			MoveDown: "J",
			Toggle:   " ",
			Unselect: "u",
			Visual:   "V",
			Command:  ":",
			Delete:   "d",
			AddBelow: "o",
			AddAbove: "O",
			Cancel:   "esc",
		},
	}
}

// fill restores defaults for blank entries left by a hand-edited file.
func (c *Config) fill() {
	d := Defaults()
	orDefault := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	orDefault(&c.DBPath, d.DBPath)
	orDefault(&c.NotesDir, d.NotesDir)
	orDefault(&c.LogPath, d.LogPath)

	k := &c.Keys
	orDefault(&k.Quit, d.Keys.Quit)
	orDefault(&k.Up, d.Keys.Up)
	orDefault(&k.Down, d.Keys.Down)
	orDefault(&k.Top, d.Keys.Top)
	orDefault(&k.Bottom, d.Keys.Bottom)
	orDefault(&k.MoveUp, d.Keys.MoveUp)
	orDefault(&k.MoveDown, d.Keys.MoveDown)
	orDefault(&k.Toggle, d.Keys.Toggle)
	orDefault(&k.Unselect, d.Keys.Unselect)
	orDefault(&k.Visual, d.Keys.Visual)
	orDefault(&k.Command, d.Keys.Command)
	orDefault(&k.Delete, d.Keys.Delete)
	orDefault(&k.AddBelow, d.Keys.AddBelow)
	orDefault(&k.AddAbove, d.Keys.AddAbove)
	orDefault(&k.Cancel, d.Keys.Cancel)
}

func (c *Config) expand() error {
	for _, p := range []*string{&c.DBPath, &c.NotesDir, &c.LogPath} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %s: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}
