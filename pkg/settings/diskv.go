package settings

import (
	"errors"
	"os"

	"github.com/peterbourgon/diskv/v3"
)

// Load creates a Store backed by diskv using the provided config.
func Load(cfg Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &diskvStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type diskvStore struct {
	d        *diskv.Diskv
	basePath string
}

func (s *diskvStore) Get(key string) (string, bool, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(val), true, nil
}

func (s *diskvStore) Set(key, value string) error {
	return s.d.Write(key, []byte(value))
}

func (s *diskvStore) Delete(key string) error {
	err := s.d.Erase(key)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
