package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "PITCREW_"
	envConfigFile  = envPrefix + "CONFIG"
	envDotEnvFile  = envPrefix + "ENV_FILE"
	defaultEnvFile = ".env"
)

// list keys accept comma separated values from env and .env files.
var listKeys = map[string]bool{
	"avatar_pool":  true,
	"cors_origins": true,
}

// Load builds a Config by layering defaults, a .env file, an optional YAML
// file and env vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env file (PITCREW_ENV_FILE, default ".env"; a missing default file is skipped)
//  3. YAML file if PITCREW_CONFIG is set
//  4. env (prefix PITCREW_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if err := loadDotEnv(k); err != nil {
		return nil, err
	}

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, wrapLoad(path, err)
		}
	}

	// PITCREW_QUEUE_SIZE -> queue_size. Underscores are kept to match the
	// flat koanf tags on the struct.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		k, v := mapKey(key), value
		if k == "config" || k == "env_file" {
			return "", nil
		}
		return k, listValue(k, v)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, wrapLoad("env", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, wrapLoad("unmarshal", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(k *koanf.Koanf) error {
	path, explicit := os.LookupEnv(envDotEnvFile)
	if !explicit {
		path = defaultEnvFile
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return wrapLoad(path, err)
	}
	for key, v := range vals {
		if !strings.HasPrefix(key, envPrefix) {
			continue
		}
		name := mapKey(key)
		if name == "config" || name == "env_file" {
			continue
		}
		if err := k.Set(name, listValue(name, v)); err != nil {
			return wrapLoad(path, err)
		}
	}
	return nil
}

func mapKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, envPrefix))
}

func listValue(key, v string) any {
	if !listKeys[key] {
		return v
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
