package userconfig

import (
	"errors"
	"fmt"
	"io"

	"github.com/ptgott/safestore/storage"
	"github.com/rs/zerolog/log"

	yaml "gopkg.in/yaml.v2"
)

// Meta represents all current config options that the application can use,
// i.e., after validation and parsing
type Meta struct {
	Storage storage.KVConfig `yaml:"storage"`
}

// CheckAndSetDefaults validates m and either returns a copy of m with default
// settings applied or returns an error due to an invalid configuration
func (m *Meta) CheckAndSetDefaults() (Meta, error) {
	s, err := m.Storage.CheckAndSetDefaults()
	if err != nil {
		return Meta{}, err
	}
	return Meta{Storage: s}, nil
}

// Parse generates usable configurations from possibly arbitrary user input.
// An error indicates a problem with parsing. The Reader r can be either JSON
// or YAML.
func Parse(r io.Reader) (*Meta, error) {
	// Decode the section through a pointer so we can tell a missing
	// "storage" section from one whose settings are all zero values. The
	// latter is left for CheckAndSetDefaults to explain.
	var doc struct {
		Storage *storage.KVConfig `yaml:"storage"`
	}
	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return &Meta{}, fmt.Errorf("can't read the config file as YAML: %v", err)
	}

	if doc.Storage == nil {
		return &Meta{}, errors.New("must include a \"storage\" section")
	}

	m := Meta{Storage: *doc.Storage}

	if m.Storage.Disabled {
		log.Debug().Msg(
			"persistent storage is disabled in the config",
		)
	}

	return &m, nil
}
