package config

import (
	"context"
	"fmt"

	"github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

// ProfileRegistry resolves Databricks connection profiles from a .databrickscfg file.
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetConfig(ctx context.Context, profile string) (*config.Config, error)
	GetHTTPPath(ctx context.Context, profile string) (string, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) section(profile string) (*ini.Section, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	return section, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, profile string) (*config.Config, error) {
	section, err := cr.section(profile)
	if err != nil {
		return nil, err
	}

	return &config.Config{
		Profile: profile,
		Host:    section.Key("host").String(),
		Token:   section.Key("token").String(),
	}, nil
}

func (cr *cfgRegistry) GetHTTPPath(_ context.Context, profile string) (string, error) {
	section, err := cr.section(profile)
	if err != nil {
		return "", err
	}

	path := section.Key("http_path").String()
	if path == "" {
		return "", fmt.Errorf("profile %s has no http_path", profile)
	}
	return path, nil
}
