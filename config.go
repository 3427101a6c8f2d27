package lpgen

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfig is used when no emit configuration is supplied: a
// standalone program in package main.
var DefaultConfig = Config{
	PackageName: "main",
	IncludeMain: true,
}

// Config controls the shape of the generated file.
type Config struct {
	PackageName string `yaml:"package"`
	IncludeMain bool   `yaml:"main"`
}

// NewConfig reads config from file
func NewConfig(filePath string) (*Config, error) {
	bin, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err = yaml.Unmarshal(bin, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GenerateSample creates a sample yaml file with default values
func GenerateSample(filePath string) error {
	bin, err := yaml.Marshal(DefaultConfig)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bin, 0644)
}
