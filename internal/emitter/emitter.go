// Package emitter writes the generated Python module. Declarations are
// appended to a single stream in the order they are emitted.
package emitter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/griffnb/vkwrap/internal/registry"
)

// Section titles, in stage order.
const (
	SectionHandles      = "HANDLES"
	SectionBasetypes    = "BASETYPES"
	SectionBitmasks     = "FLAGS"
	SectionEnums        = "ENUMS"
	SectionFuncPointers = "FUNC POINTERS"
	SectionStructures   = "STRUCTURES"
	SectionCommands     = "FUNCTIONS"
	SectionExtensions   = "EXTENSIONS"
)

const header = "# -*- coding: utf-8 -*-\n"

// initialization is written between the imports and the system types.
const initialization = `
# System initialization
system_name = system()
if system_name == 'Windows':
    from ctypes import WINFUNCTYPE, windll
    FUNCTYPE = WINFUNCTYPE
    vk = windll.LoadLibrary('vulkan-1')
elif system_name == 'Linux':
    from ctypes import CFUNCTYPE, cdll
    FUNCTYPE = CFUNCTYPE
    vk = cdll.LoadLibrary('libvulkan.so.1')
`

// helpers follows the system types.
const helpers = `
def MAKE_VERSION(major, minor, patch):
    return (major<<22) | (minor<<12) | patch

def define_structure(name, *args):
    return type(name, (Structure,), {'_fields_': args})

def define_union(name, *args):
    return type(name, (Union,), {'_fields_': args})

def load_functions(vk_object, functions_list, loader):
    functions = []
    for name, return_type, *args in functions_list:
        py_name = name.decode()[2::]
        fn_ptr = loader(vk_object, name)
        fn_ptr = cast(fn_ptr, c_void_p)
        if fn_ptr:
            fn = (FUNCTYPE(return_type, *args))(fn_ptr.value)
            functions.append((py_name, fn))
        elif __debug__ == True:
            print('Function {} could not be loaded. (__debug__ == True)'.format(py_name))
    return functions

API_VERSION_1_0 = MAKE_VERSION(1,0,0)
`

// postInitialization loads the loader family into the module namespace.
const postInitialization = `
# Load the loader functions in the module namespace
loc = locals()
for name, fnptr in load_functions(%s(0), %s, %s):
    loc[name] = fnptr
del loc
`

// Emitter is an append-only output stream.
type Emitter struct {
	buf bytes.Buffer
}

// New creates an empty emitter.
func New() *Emitter {
	return &Emitter{}
}

// Bytes returns the generated source.
func (e *Emitter) Bytes() []byte {
	return e.buf.Bytes()
}

// String returns the generated source.
func (e *Emitter) String() string {
	return e.buf.String()
}

// Imports writes the module header and the ctypes imports.
func (e *Emitter) Imports() {
	names := append(append([]string{}, registry.CtypesImports...), "cast", "Structure", "Union", "POINTER")
	e.buf.WriteString(header)
	e.printf("from ctypes import (%s)\n", strings.Join(names, ", "))
	e.buf.WriteString("from platform import system\n\n")
}

// Initialization writes the library loading code, the system type aliases
// and the runtime helpers used by the later blocks.
func (e *Emitter) Initialization(systemTypes []registry.SystemType) {
	e.buf.WriteString(initialization)
	e.buf.WriteString("\n# System types\n")
	for _, st := range systemTypes {
		e.printf("%s = %s\n", st.Name, st.Ctype)
	}
	e.buf.WriteString(helpers)
}

// Section writes a block comment.
func (e *Emitter) Section(title string) {
	e.printf("\n# %s\n\n", title)
}

// PostInitialization writes the block loading the global commands through
// the bootstrap command.
func (e *Emitter) PostInitialization(owner, family, bootstrap string) error {
	if owner == "" || family == "" || bootstrap == "" {
		return errMissing("post-initialization", "owner, family and bootstrap")
	}
	e.printf(postInitialization, owner, family, bootstrap)
	return nil
}

func (e *Emitter) printf(format string, args ...any) {
	fmt.Fprintf(&e.buf, format, args...)
}
