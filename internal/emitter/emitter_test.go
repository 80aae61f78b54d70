package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/griffnb/vkwrap/internal/registry"
)

func TestEmitter_ImportsAndInitialization(t *testing.T) {
	// Arrange
	e := New()

	// Act
	e.Imports()
	e.Initialization(registry.SystemTypes)

	// Assert
	out := e.String()
	assert.True(t, strings.HasPrefix(out, "# -*- coding: utf-8 -*-\nfrom ctypes import (c_void_p, c_float,"))
	assert.Contains(t, out, "cast, Structure, Union, POINTER)\n")
	assert.Contains(t, out, "vk = windll.LoadLibrary('vulkan-1')")
	assert.Contains(t, out, "vk = cdll.LoadLibrary('libvulkan.so.1')")
	assert.Contains(t, out, "HWND = c_void_p\n")
	assert.Contains(t, out, "xcb_window_t = c_uint\n")
	assert.Contains(t, out, "def define_structure(name, *args):")
	assert.Contains(t, out, "API_VERSION_1_0 = MAKE_VERSION(1,0,0)\n")
	assert.Less(t, strings.Index(out, "# System types"), strings.Index(out, "def MAKE_VERSION"))
}

func TestEmitter_Aliases(t *testing.T) {
	e := New()

	require.NoError(t, e.Handle(Alias{Name: "Instance", Target: registry.Primitive(registry.VoidPointer)}))
	require.NoError(t, e.Basetype(Alias{Name: "Flags", Target: registry.Primitive("c_uint")}))
	require.NoError(t, e.Bitmask(Alias{Name: "FenceCreateFlags", Target: registry.Named("Flags")}))
	require.NoError(t, e.Alias(Alias{Name: "FenceKHR", Target: registry.Named("Fence")}))

	assert.Equal(t, "Instance = c_void_p\nFlags = c_uint\nFenceCreateFlags = Flags\nFenceKHR = Fence\n", e.String())
}

func TestEmitter_Enum(t *testing.T) {
	e := New()

	err := e.Enum(Enum{
		Name: "Result",
		Type: registry.Primitive("c_uint"),
		Members: []EnumMember{
			{Name: "SUCCESS", Value: "0"},
			{Name: "NOT_READY", Value: "1"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Result = c_uint\nSUCCESS = 0\nNOT_READY = 1\n\n", e.String())
}

func TestEmitter_FuncPointer(t *testing.T) {
	e := New()

	err := e.FuncPointer(FuncPointer{
		Name:   "fn_AllocationFunction",
		Return: registry.Primitive(registry.VoidPointer),
		Params: []registry.TypeDescriptor{
			registry.Primitive(registry.VoidPointer),
			registry.Primitive("c_size_t"),
		},
	})
	require.NoError(t, err)
	require.NoError(t, e.FuncPointer(FuncPointer{Name: "fn_VoidFunction", Return: registry.Primitive(registry.NoneType)}))

	assert.Equal(t,
		"fn_AllocationFunction = FUNCTYPE(c_void_p, c_void_p, c_size_t)\nfn_VoidFunction = FUNCTYPE(None)\n",
		e.String())
}

func TestEmitter_Struct(t *testing.T) {
	t.Run("structure", func(t *testing.T) {
		e := New()

		err := e.Struct(Struct{
			Name: "Extent2D",
			Fields: []Field{
				{Name: "width", Type: registry.Primitive("c_uint")},
				{Name: "matrix", Type: registry.Array(registry.Array(registry.Primitive("c_float"), "4"), "3")},
				{Name: "mask", Type: registry.Primitive("c_uint"), BitWidth: 8},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "Extent2D = define_structure('Extent2D',\n"+
			"    ('width', c_uint),\n"+
			"    ('matrix', ((c_float*4)*3)),\n"+
			"    ('mask', c_uint, 8),\n"+
			")\n\n", e.String())
	})

	t.Run("union", func(t *testing.T) {
		e := New()

		err := e.Struct(Struct{
			Name:   "ClearColorValue",
			Union:  true,
			Fields: []Field{{Name: "float32", Type: registry.Array(registry.Primitive("c_float"), "4")}},
		})

		require.NoError(t, err)
		assert.Equal(t, "ClearColorValue = define_union('ClearColorValue',\n    ('float32', (c_float*4)),\n)\n\n", e.String())
	})
}

func TestEmitter_CommandFamily(t *testing.T) {
	t.Run("with commands", func(t *testing.T) {
		e := New()

		err := e.CommandFamily(CommandFamily{
			Name: "Instance",
			Commands: []Command{
				{
					Name:   "vkDestroyInstance",
					Return: registry.Primitive(registry.NoneType),
					Params: []registry.TypeDescriptor{
						registry.Named("Instance"),
						registry.Pointer(registry.Named("AllocationCallbacks")),
					},
				},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "InstanceFunctions = (\n"+
			"    (b'vkDestroyInstance', None, Instance, POINTER(AllocationCallbacks)),\n"+
			")\n\n", e.String())
	})

	t.Run("empty family", func(t *testing.T) {
		e := New()

		require.NoError(t, e.CommandFamily(CommandFamily{Name: "Loader"}))

		assert.Equal(t, "LoaderFunctions = (\n)\n\n", e.String())
	})
}

func TestEmitter_Bootstrap(t *testing.T) {
	e := New()

	err := e.Bootstrap(Bootstrap{
		Name: "GetInstanceProcAddr",
		Command: Command{
			Name:   "vkGetInstanceProcAddr",
			Return: registry.Named("fn_VoidFunction"),
			Params: []registry.TypeDescriptor{registry.Named("Instance"), registry.Primitive(registry.NativeString)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "GetInstanceProcAddr = vk.vkGetInstanceProcAddr\n"+
		"GetInstanceProcAddr.restype = fn_VoidFunction\n"+
		"GetInstanceProcAddr.argtypes = (Instance, c_char_p)\n\n", e.String())
}

func TestEmitter_Extension(t *testing.T) {
	e := New()

	err := e.Extension(Extension{
		Name: "VK_KHR_surface",
		Members: []EnumMember{
			{Name: "KHR_SURFACE_SPEC_VERSION", Value: "25"},
			{Name: "ERROR_SURFACE_LOST_KHR", Value: "-1000000000"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "# VK_KHR_surface\nKHR_SURFACE_SPEC_VERSION = 25\nERROR_SURFACE_LOST_KHR = -1000000000\n\n", e.String())
}

func TestEmitter_PostInitialization(t *testing.T) {
	e := New()

	require.NoError(t, e.PostInitialization("Instance", "LoaderFunctions", "GetInstanceProcAddr"))
	assert.Contains(t, e.String(), "load_functions(Instance(0), LoaderFunctions, GetInstanceProcAddr)")

	assert.Error(t, New().PostInitialization("", "LoaderFunctions", "GetInstanceProcAddr"))
}

func TestEmitter_Validation(t *testing.T) {
	tests := []struct {
		name string
		emit func(e *Emitter) error
	}{
		{"handle without name", func(e *Emitter) error {
			return e.Handle(Alias{Target: registry.Primitive(registry.VoidPointer)})
		}},
		{"alias without target", func(e *Emitter) error {
			return e.Alias(Alias{Name: "FenceKHR"})
		}},
		{"enum member without value", func(e *Emitter) error {
			return e.Enum(Enum{Name: "Result", Type: registry.Primitive("c_uint"), Members: []EnumMember{{Name: "SUCCESS"}}})
		}},
		{"struct field without name", func(e *Emitter) error {
			return e.Struct(Struct{Name: "Extent2D", Fields: []Field{{Type: registry.Primitive("c_uint")}}})
		}},
		{"array without length", func(e *Emitter) error {
			return e.Struct(Struct{Name: "Extent2D", Fields: []Field{{Name: "v", Type: registry.Array(registry.Primitive("c_uint"), "")}}})
		}},
		{"funcpointer without return", func(e *Emitter) error {
			return e.FuncPointer(FuncPointer{Name: "fn_VoidFunction"})
		}},
		{"command without return", func(e *Emitter) error {
			return e.CommandFamily(CommandFamily{Name: "Device", Commands: []Command{{Name: "vkDeviceWaitIdle"}}})
		}},
		{"bootstrap without command", func(e *Emitter) error {
			return e.Bootstrap(Bootstrap{Name: "GetInstanceProcAddr"})
		}},
		{"extension without name", func(e *Emitter) error {
			return e.Extension(Extension{})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			e := New()

			// Act
			err := tt.emit(e)

			// Assert
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Empty(t, e.String(), "nothing is written on a validation error")
		})
	}
}
