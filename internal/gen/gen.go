package gen

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"

	"github.com/griffnb/vkwrap/internal/console"
	"github.com/griffnb/vkwrap/internal/loader"
	"github.com/griffnb/vkwrap/internal/orchestrator"
	"github.com/griffnb/vkwrap/internal/schema"
)

var open = os.Open

// DefaultOverridesFile is the location vkwrap will look for overrides.
const DefaultOverridesFile = ".vkwrap"

type genTypeWriter func(*Config, *artifact) error

// Gen presents a generate tool for vkwrap.
type Gen struct {
	json          func(data interface{}) ([]byte, error)
	jsonIndent    func(data interface{}) ([]byte, error)
	jsonToYAML    func(data []byte) ([]byte, error)
	outputTypeMap map[string]genTypeWriter
	debug         Debugger
}

// Debugger is the interface that wraps the basic Printf method.
type Debugger interface {
	Printf(format string, v ...interface{})
}

// New creates a new Gen.
func New() *Gen {
	gen := Gen{
		json: json.Marshal,
		jsonIndent: func(data interface{}) ([]byte, error) {
			return json.MarshalIndent(data, "", "    ")
		},
		jsonToYAML: k8syaml.JSONToYAML,
		debug:      console.Logger,
	}

	gen.outputTypeMap = map[string]genTypeWriter{
		"py":   gen.writePython,
		"json": gen.writeJSONManifest,
		"yaml": gen.writeYAMLManifest,
		"yml":  gen.writeYAMLManifest,
	}

	return &gen
}

// Config presents Gen configurations.
type Config struct {
	Debugger Debugger `yaml:"-"`

	// Source is where the schema is read from: file or web
	Source string `yaml:"source"`

	// Path is the schema file path or URL
	Path string `yaml:"path"`

	// Output is the path of the generated Python module
	Output string `yaml:"output"`

	// OutputTypes define types of files which should be generated: py, json, yaml
	OutputTypes []string `yaml:"outputTypes"`

	// OverridesFile defines type replacements, predefined names and skipped entries.
	OverridesFile string `yaml:"overridesFile"`

	// Timeout bounds the schema download
	Timeout time.Duration `yaml:"timeout"`

	// Retries is the number of download retries
	Retries int `yaml:"retries"`
}

// LoadConfig reads a YAML configuration file. Missing keys keep their zero
// value so flags can fill them in.
func LoadConfig(r io.Reader) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}
	return &config, nil
}

// artifact is the generated module plus the data every output writer needs.
type artifact struct {
	result   *orchestrator.Result
	manifest Manifest
}

// Manifest describes a generated module.
type Manifest struct {
	Schema      string                `json:"schema"`
	Output      string                `json:"output"`
	Checksum    string                `json:"checksum"`
	Counts      orchestrator.Counts   `json:"counts"`
	Families    []orchestrator.Family `json:"families"`
	Definitions []string              `json:"definitions"`
	Warnings    []string              `json:"warnings"`
}

// Build generates the module for the configured schema and writes every
// requested output type.
func (g *Gen) Build(ctx context.Context, config *Config) error {
	if config.Debugger != nil {
		g.debug = config.Debugger
	}

	source, err := loader.ParseSource(config.Source)
	if err != nil {
		return err
	}

	writers, err := g.writers(config.OutputTypes)
	if err != nil {
		return err
	}

	overrides := &Overrides{Replace: map[string]string{}, Skip: map[string]struct{}{}}

	if config.OverridesFile != "" {
		overridesFile, err := open(config.OverridesFile)
		if err != nil {
			// Don't bother reporting if the default file is missing; assume there are no overrides
			if !(config.OverridesFile == DefaultOverridesFile && os.IsNotExist(err)) {
				return fmt.Errorf("could not open overrides file: %w", err)
			}
		} else {
			console.Logger.Debug("Using overrides from %s", config.OverridesFile)

			overrides, err = parseOverrides(overridesFile)
			overridesFile.Close()
			if err != nil {
				return err
			}
		}
	}

	schemaLoader := loader.NewService(
		loader.WithSource(source),
		loader.WithTimeout(config.Timeout),
		loader.WithRetryMax(config.Retries),
		loader.WithLogger(console.Logger.Zap()),
		loader.WithDebugger(g.debug),
	)

	data, err := schemaLoader.Load(ctx, config.Path)
	if err != nil {
		return err
	}

	doc, err := schema.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}

	console.Logger.Debug("Generate %s....", config.Output)

	orc := orchestrator.New(&orchestrator.Config{
		Overrides: overrides.Replace,
		Defines:   overrides.Define,
		Skip:      overrides.Skip,
		Debug:     g.debug,
	})

	result, err := orc.Generate(doc)
	if err != nil {
		return err
	}

	art := &artifact{result: result, manifest: newManifest(config, result)}
	for _, w := range art.manifest.Warnings {
		console.Logger.Warn("%s", w)
	}
	if console.Logger.DebugEnabled() {
		for _, family := range result.Families {
			console.Logger.Debug("%s: %d commands", family.Name, len(family.Commands))
		}
	}

	if dir := filepath.Dir(config.Output); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
	}

	var group errgroup.Group
	for _, typeWriter := range writers {
		typeWriter := typeWriter
		group.Go(func() error {
			return typeWriter(config, art)
		})
	}

	return group.Wait()
}

// writers returns the writers of the requested output types. Unknown types
// are reported and ignored; at least one type must be supported.
func (g *Gen) writers(outputTypes []string) ([]genTypeWriter, error) {
	var writers []genTypeWriter
	seen := make(map[string]bool)

	for _, outputType := range outputTypes {
		outputType = strings.ToLower(strings.TrimSpace(outputType))
		if outputType == "yml" {
			outputType = "yaml"
		}
		if seen[outputType] {
			continue
		}
		if typeWriter, ok := g.outputTypeMap[outputType]; ok {
			seen[outputType] = true
			writers = append(writers, typeWriter)
		} else {
			console.Logger.Warn("output type '%s' not supported", outputType)
		}
	}

	if len(writers) == 0 {
		return nil, fmt.Errorf("no supported output type in %v", outputTypes)
	}

	return writers, nil
}

func newManifest(config *Config, result *orchestrator.Result) Manifest {
	m := Manifest{
		Schema:      config.Path,
		Output:      config.Output,
		Checksum:    Checksum(result.Source),
		Counts:      result.Counts,
		Families:    result.Families,
		Definitions: result.Definitions,
		Warnings:    []string{},
	}
	for _, w := range result.WarningList() {
		m.Warnings = append(m.Warnings, w.Error())
	}
	return m
}

// Checksum returns the xxhash64 digest of src in hex.
func Checksum(src []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(src))
}

// manifestPath returns the output path with its extension replaced by ext.
func manifestPath(output, ext string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + ext
}

func (g *Gen) writePython(config *Config, art *artifact) error {
	err := g.writeFile(art.result.Source, config.Output)
	if err != nil {
		return err
	}

	console.Logger.Debug("create %s", config.Output)

	return nil
}

func (g *Gen) writeJSONManifest(config *Config, art *artifact) error {
	jsonFileName := manifestPath(config.Output, ".json")

	b, err := g.jsonIndent(art.manifest)
	if err != nil {
		return err
	}

	err = g.writeFile(b, jsonFileName)
	if err != nil {
		return err
	}

	console.Logger.Debug("create manifest at %+v", jsonFileName)

	return nil
}

func (g *Gen) writeYAMLManifest(config *Config, art *artifact) error {
	yamlFileName := manifestPath(config.Output, ".yaml")

	b, err := g.json(art.manifest)
	if err != nil {
		return err
	}

	y, err := g.jsonToYAML(b)
	if err != nil {
		return fmt.Errorf("cannot covert json to yaml error: %s", err)
	}

	err = g.writeFile(y, yamlFileName)
	if err != nil {
		return err
	}

	console.Logger.Debug("create manifest at %+v", yamlFileName)

	return nil
}

func (g *Gen) writeFile(b []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = f.Write(b)

	return err
}

// Overrides is the content of an overrides file.
type Overrides struct {
	// Replace maps native type spellings to target types.
	Replace map[string]string
	// Define lists identifiers treated as already defined.
	Define []string
	// Skip holds the native names of extensions and commands to leave out.
	Skip map[string]struct{}
}

// Read and parse the overrides file.
func parseOverrides(r io.Reader) (*Overrides, error) {
	overrides := &Overrides{
		Replace: make(map[string]string),
		Skip:    make(map[string]struct{}),
	}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()

		parts := strings.Fields(line)

		// Skip comments
		if len(parts) > 0 && strings.HasPrefix(parts[0], "//") {
			continue
		}

		switch len(parts) {
		case 0:
			// only whitespace
			continue
		case 2:
			// either a skip, a define or malformed
			switch parts[0] {
			case "skip":
				overrides.Skip[parts[1]] = struct{}{}
			case "define":
				overrides.Define = append(overrides.Define, parts[1])
			default:
				return nil, fmt.Errorf("could not parse override: '%s'", line)
			}
		case 3:
			// either a replace or malformed
			if parts[0] != "replace" {
				return nil, fmt.Errorf("could not parse override: '%s'", line)
			}

			overrides.Replace[parts[1]] = parts[2]
		default:
			return nil, fmt.Errorf("could not parse override: '%s'", line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading overrides file: %w", err)
	}

	return overrides, nil
}
