package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	k8syaml "sigs.k8s.io/yaml"
)

const schemaPath = "testdata/vk.xml"

var outputTypes = []string{"py", "json", "yaml"}

func newConfig(t *testing.T, types ...string) *Config {
	t.Helper()
	return &Config{
		Source:      "file",
		Path:        schemaPath,
		Output:      filepath.Join(t.TempDir(), "out", "vk.py"),
		OutputTypes: types,
	}
}

func TestGen_Build(t *testing.T) {
	// Arrange
	config := newConfig(t, outputTypes...)

	// Act
	err := New().Build(context.Background(), config)

	// Assert
	require.NoError(t, err)
	dir := filepath.Dir(config.Output)
	for _, name := range []string{"vk.py", "vk.json", "vk.yaml"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	src, err := os.ReadFile(config.Output)
	require.NoError(t, err)
	assert.Contains(t, string(src), "Extent2D = define_structure('Extent2D',\n")
	assert.Contains(t, string(src), "InstanceFunctions = (\n    (b'vkDestroyInstance', None, Instance),\n)\n")
}

func TestGen_Manifest(t *testing.T) {
	config := newConfig(t, outputTypes...)
	require.NoError(t, New().Build(context.Background(), config))

	src, err := os.ReadFile(config.Output)
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		b, err := os.ReadFile(manifestPath(config.Output, ".json"))
		require.NoError(t, err)

		var m Manifest
		require.NoError(t, json.Unmarshal(b, &m))

		assert.Equal(t, schemaPath, m.Schema)
		assert.Equal(t, Checksum(src), m.Checksum)
		assert.Equal(t, 1, m.Counts.Handles)
		assert.Equal(t, 1, m.Counts.Structures)
		assert.Equal(t, 2, m.Counts.Commands)
		assert.Equal(t, 1, m.Counts.Extensions)
		require.Len(t, m.Families, 2)
		assert.Equal(t, "Instance", m.Families[0].Name)
		assert.Equal(t, []string{"vkDestroyInstance"}, m.Families[0].Commands)
		assert.Equal(t, "Loader", m.Families[1].Name)
		assert.Contains(t, m.Definitions, "Extent2D")
		assert.Empty(t, m.Warnings)
	})

	t.Run("yaml", func(t *testing.T) {
		b, err := os.ReadFile(manifestPath(config.Output, ".yaml"))
		require.NoError(t, err)

		var m Manifest
		require.NoError(t, k8syaml.Unmarshal(b, &m))

		assert.Equal(t, Checksum(src), m.Checksum)
		assert.Equal(t, 2, m.Counts.Commands)
	})
}

func TestGen_SpecificOutputTypes(t *testing.T) {
	config := newConfig(t, "json", "unknownType")
	require.NoError(t, New().Build(context.Background(), config))

	tt := []struct {
		expectedFile string
		shouldExist  bool
	}{
		{manifestPath(config.Output, ".json"), true},
		{manifestPath(config.Output, ".yaml"), false},
		{config.Output, false},
	}
	for _, tc := range tt {
		_, err := os.Stat(tc.expectedFile)
		if tc.shouldExist {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
			require.True(t, errors.Is(err, os.ErrNotExist))
		}
	}
}

func TestGen_NoSupportedOutputType(t *testing.T) {
	config := newConfig(t, "go", "docx")

	err := New().Build(context.Background(), config)

	assert.EqualError(t, err, "no supported output type in [go docx]")
	_, statErr := os.Stat(filepath.Dir(config.Output))
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing is written")
}

func TestGen_InvalidSource(t *testing.T) {
	config := newConfig(t, outputTypes...)
	config.Source = "ftp"

	assert.ErrorContains(t, New().Build(context.Background(), config), "invalid schema source")
}

func TestGen_SchemaIsNotExist(t *testing.T) {
	config := newConfig(t, outputTypes...)
	config.Path = "../isNotExist.xml"

	err := New().Build(context.Background(), config)

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGen_jsonIndent(t *testing.T) {
	config := newConfig(t, outputTypes...)

	gen := New()
	gen.jsonIndent = func(data interface{}) ([]byte, error) {
		return nil, errors.New("fail")
	}

	assert.Error(t, gen.Build(context.Background(), config))
}

func TestGen_jsonToYAML(t *testing.T) {
	config := newConfig(t, outputTypes...)

	gen := New()
	gen.jsonToYAML = func(data []byte) ([]byte, error) {
		return nil, errors.New("fail")
	}
	assert.Error(t, gen.Build(context.Background(), config))

	// the other writers are unaffected
	for _, expectedFile := range []string{config.Output, manifestPath(config.Output, ".json")} {
		_, err := os.Stat(expectedFile)
		require.NoError(t, err)
	}
}

func TestGen_FailToWrite(t *testing.T) {
	config := newConfig(t, "py")
	require.NoError(t, os.MkdirAll(config.Output, os.ModePerm))

	assert.Error(t, New().Build(context.Background(), config))
}

func TestGen_parseOverrides(t *testing.T) {
	testCases := []struct {
		Name          string
		Data          string
		Expected      *Overrides
		ExpectedError error
	}{
		{
			Name: "replace",
			Data: `replace uint32_t c_uint32`,
			Expected: &Overrides{
				Replace: map[string]string{"uint32_t": "c_uint32"},
				Skip:    map[string]struct{}{},
			},
		},
		{
			Name: "skip",
			Data: `skip VK_KHR_display`,
			Expected: &Overrides{
				Replace: map[string]string{},
				Skip:    map[string]struct{}{"VK_KHR_display": {}},
			},
		},
		{
			Name: "define",
			Data: "define zx_handle_t\ndefine GgpFrameToken",
			Expected: &Overrides{
				Replace: map[string]string{},
				Define:  []string{"zx_handle_t", "GgpFrameToken"},
				Skip:    map[string]struct{}{},
			},
		},
		{
			Name: "comment",
			Data: `// this is a comment
			replace foo bar`,
			Expected: &Overrides{
				Replace: map[string]string{"foo": "bar"},
				Skip:    map[string]struct{}{},
			},
		},
		{
			Name: "ignore whitespace",
			Data: `

			replace foo bar`,
			Expected: &Overrides{
				Replace: map[string]string{"foo": "bar"},
				Skip:    map[string]struct{}{},
			},
		},
		{
			Name:          "unknown directive",
			Data:          `foo`,
			ExpectedError: fmt.Errorf("could not parse override: 'foo'"),
		},
		{
			Name:          "unknown two word directive",
			Data:          `drop foo`,
			ExpectedError: fmt.Errorf("could not parse override: 'drop foo'"),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			overrides, err := parseOverrides(strings.NewReader(tc.Data))
			assert.Equal(t, tc.Expected, overrides)
			assert.Equal(t, tc.ExpectedError, err)
		})
	}
}

func TestGen_TypeOverridesFile(t *testing.T) {
	customPath := "/foo/bar/baz"

	t.Run("Default file is missing", func(t *testing.T) {
		open = func(path string) (*os.File, error) {
			assert.Equal(t, DefaultOverridesFile, path)

			return nil, os.ErrNotExist
		}
		defer func() {
			open = os.Open
		}()

		config := newConfig(t, "py")
		config.OverridesFile = DefaultOverridesFile
		err := New().Build(context.Background(), config)
		assert.NoError(t, err)
	})

	t.Run("Default file is present", func(t *testing.T) {
		tmp := filepath.Join(t.TempDir(), "overrides")
		require.NoError(t, os.WriteFile(tmp, []byte("replace uint32_t c_uint32\nskip VK_KHR_surface\n"), 0o644))
		open = func(path string) (*os.File, error) {
			assert.Equal(t, DefaultOverridesFile, path)

			return os.Open(tmp)
		}
		defer func() {
			open = os.Open
		}()

		config := newConfig(t, "py")
		config.OverridesFile = DefaultOverridesFile
		err := New().Build(context.Background(), config)
		require.NoError(t, err)

		src, err := os.ReadFile(config.Output)
		require.NoError(t, err)
		assert.Contains(t, string(src), "    ('width', c_uint32),\n")
		assert.NotContains(t, string(src), "VK_KHR_surface")
	})

	t.Run("Different file is missing", func(t *testing.T) {
		open = func(path string) (*os.File, error) {
			assert.Equal(t, customPath, path)

			return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
		}
		defer func() {
			open = os.Open
		}()

		config := newConfig(t, "py")
		config.OverridesFile = customPath
		err := New().Build(context.Background(), config)
		assert.EqualError(t, err, "could not open overrides file: open /foo/bar/baz: file does not exist")
	})

	t.Run("Malformed file", func(t *testing.T) {
		tmp := filepath.Join(t.TempDir(), "overrides")
		require.NoError(t, os.WriteFile(tmp, []byte("replace\n"), 0o644))

		config := newConfig(t, "py")
		config.OverridesFile = tmp
		err := New().Build(context.Background(), config)
		assert.EqualError(t, err, "could not parse override: 'replace'")
	})
}

func TestGen_Debugger(t *testing.T) {
	var buf bytes.Buffer
	config := newConfig(t, outputTypes...)
	config.Debugger = log.New(&buf, "", log.LstdFlags)

	assert.True(t, buf.Len() == 0)
	assert.NoError(t, New().Build(context.Background(), config))
	assert.True(t, buf.Len() > 0)
	assert.Contains(t, buf.String(), "Orchestrator: Step 1 - imports")
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads every key", func(t *testing.T) {
		// Arrange
		data := `
source: file
path: registry/vk.xml
output: build/vk.py
outputTypes: [py, json]
overridesFile: custom.vkwrap
timeout: 45s
retries: 5
`

		// Act
		config, err := LoadConfig(strings.NewReader(data))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, &Config{
			Source:        "file",
			Path:          "registry/vk.xml",
			Output:        "build/vk.py",
			OutputTypes:   []string{"py", "json"},
			OverridesFile: "custom.vkwrap",
			Timeout:       45 * time.Second,
			Retries:       5,
		}, config)
	})

	t.Run("empty file", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader(""))

		require.NoError(t, err)
		assert.Equal(t, &Config{}, config)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("searchDir: ./\n"))

		assert.Error(t, err)
	})
}

func TestChecksum(t *testing.T) {
	assert.Len(t, Checksum([]byte("vk")), 16)
	assert.Equal(t, Checksum([]byte("vk")), Checksum([]byte("vk")))
	assert.NotEqual(t, Checksum([]byte("vk")), Checksum([]byte("vk.py")))
}

func TestManifestPath(t *testing.T) {
	assert.Equal(t, "out/vk.json", manifestPath("out/vk.py", ".json"))
	assert.Equal(t, "vk.yaml", manifestPath("vk", ".yaml"))
}
