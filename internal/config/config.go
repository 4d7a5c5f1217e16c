package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"

	"github.com/satococoa/shellout/internal/command"
)

// Config represents the shellout project configuration
type Config struct {
	Version  string          `yaml:"version"`
	Defaults Defaults        `yaml:"defaults,omitempty"`
	Tasks    map[string]Task `yaml:"tasks,omitempty" validate:"dive,keys,required,endkeys"`

	// Internal field: directory containing the config file (not in YAML)
	root string `yaml:"-"`
}

// Defaults represents default configuration values
type Defaults struct {
	WorkDir string `yaml:"work_dir,omitempty"`
	Stream  *bool  `yaml:"stream,omitempty"` // nil = stream when stdout is a terminal
}

// Task is a named sequence of commands run as one chained invocation
type Task struct {
	Description string        `yaml:"description,omitempty"`
	WorkDir     string        `yaml:"work_dir,omitempty"`
	Commands    []CommandSpec `yaml:"commands" validate:"required,min=1,dive"`
}

// CommandSpec is either a raw command line (a YAML string) or a name with
// arguments (a YAML mapping).
type CommandSpec struct {
	Line string   `yaml:"-" validate:"required_without=Name"`
	Name string   `yaml:"name,omitempty" validate:"required_without=Line,excluded_with=Line"`
	Args []string `yaml:"args,omitempty" validate:"excluded_with=Line"`
}

const (
	ConfigFileName        = ".shellout.yml"
	CurrentVersion        = "1.0"
	configFilePermissions = 0o600
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from .shellout.yml in dir
func LoadConfig(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)

	// If config file doesn't exist, return an empty default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{
			Version: CurrentVersion,
			root:    dir,
		}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config.root = dir
	return &config, nil
}

// FindConfig loads the nearest .shellout.yml found in dir or one of its parents.
// When none exists, the default config rooted at dir is returned.
func FindConfig(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	for current := abs; ; {
		if _, err := os.Stat(filepath.Join(current, ConfigFileName)); err == nil {
			return LoadConfig(current)
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return LoadConfig(abs)
}

// SaveConfig saves configuration to .shellout.yml in dir
func SaveConfig(dir string, config *Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configPath := filepath.Join(dir, ConfigFileName)

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, configFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}

	if err := validate.Struct(c); err != nil {
		return describeValidationError(err)
	}

	for _, name := range c.TaskNames() {
		if strings.ContainsAny(name, " \t\n") {
			return fmt.Errorf("task name %q must not contain whitespace", name)
		}
	}

	return nil
}

func describeValidationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required", "min":
			if fe.Field() == "Commands" {
				messages = append(messages, fmt.Sprintf("%s: task requires at least one command", field))
			} else {
				messages = append(messages, fmt.Sprintf("%s is required", field))
			}
		case "required_without":
			messages = append(messages, fmt.Sprintf("%s: command requires either a line or a 'name'", field))
		case "excluded_with":
			messages = append(messages, fmt.Sprintf("%s: command cannot mix a line with 'name'/'args'", field))
		default:
			messages = append(messages, fmt.Sprintf("%s failed '%s' validation", field, fe.Tag()))
		}
	}

	return errors.New(strings.Join(messages, "; "))
}

// Root returns the directory the configuration was loaded from
func (c *Config) Root() string {
	return c.root
}

// HasTasks returns true if the configuration defines any task
func (c *Config) HasTasks() bool {
	return len(c.Tasks) > 0
}

// TaskNames returns task names in sorted order
func (c *Config) TaskNames() []string {
	names := make([]string, 0, len(c.Tasks))
	for name := range c.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveWorkDir resolves the directory a task starts in. Relative paths
// are resolved against the config root.
func (c *Config) ResolveWorkDir(task Task) string {
	workDir := task.WorkDir
	if workDir == "" {
		workDir = c.Defaults.WorkDir
	}
	if workDir == "" {
		return c.root
	}
	if !filepath.IsAbs(workDir) {
		workDir = filepath.Join(c.root, workDir)
	}
	return workDir
}

// ShouldStream reports whether output should be mirrored live.
// isTerminal is used when the config leaves it unset.
func (c *Config) ShouldStream(isTerminal bool) bool {
	if c.Defaults.Stream != nil {
		return *c.Defaults.Stream
	}
	return isTerminal
}

// ToCommands converts the task's entries into executable commands
func (t Task) ToCommands() []command.Command {
	commands := make([]command.Command, 0, len(t.Commands))
	for _, entry := range t.Commands {
		commands = append(commands, entry.Command())
	}
	return commands
}

// Command converts the entry into an executable command
func (s CommandSpec) Command() command.Command {
	if s.Line != "" {
		return command.Line(s.Line)
	}
	return command.Command{Name: s.Name, Args: s.Args}
}

// String returns the command line the entry assembles to
func (s CommandSpec) String() string {
	return s.Command().String()
}

type commandSpecMapping struct {
	Name string   `yaml:"name,omitempty"`
	Args []string `yaml:"args,omitempty"`
}

// UnmarshalYAML accepts a plain string or a name/args mapping
func (s *CommandSpec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var line string
		if err := value.Decode(&line); err != nil {
			return err
		}
		*s = CommandSpec{Line: line}
		return nil
	case yaml.MappingNode:
		var mapping commandSpecMapping
		if err := value.Decode(&mapping); err != nil {
			return err
		}
		*s = CommandSpec{Name: mapping.Name, Args: mapping.Args}
		return nil
	default:
		return fmt.Errorf("line %d: command must be a string or a mapping with 'name' and 'args'", value.Line)
	}
}

// MarshalYAML writes raw lines back as plain strings
func (s CommandSpec) MarshalYAML() (interface{}, error) {
	if s.Line != "" {
		return s.Line, nil
	}
	return commandSpecMapping{Name: s.Name, Args: s.Args}, nil
}
