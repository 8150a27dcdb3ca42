package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds the daemon settings. Protocol timing (poll interval,
// read deadline, buffer size) is fixed by the wire contract and not
// configurable here.
type ServerConfig struct {
	Addr            string
	AdminListenAddr string
	LogLevel        string
}

func Default() ServerConfig {
	return ServerConfig{
		Addr: "127.0.0.1:8080",
	}
}

// config.toml key mapping to daemon settings.
type fileConfig struct {
	Addr            string `toml:"addr"`
	AdminListenAddr string `toml:"admin_listen_addr"`
	LogLevel        string `toml:"log_level"`
}

// Load reads a TOML config, overlaying defaults only for keys present in the
// file.
func Load(path string) (ServerConfig, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("admin_listen_addr") {
		cfg.AdminListenAddr = strings.TrimSpace(raw.AdminListenAddr)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := Validate(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func Validate(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	return nil
}
