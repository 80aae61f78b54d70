package schema

// Type categories of <type> declarations.
const (
	CategoryHandle      = "handle"
	CategoryBasetype    = "basetype"
	CategoryBitmask     = "bitmask"
	CategoryEnum        = "enum"
	CategoryFuncPointer = "funcpointer"
	CategoryStruct      = "struct"
	CategoryUnion       = "union"
)

// DefineHandle marks a dispatchable handle.
const DefineHandle = "VK_DEFINE_HANDLE"

// ArrayDim is one [N] suffix of a declarator. Constant is set when the
// length names an enumeration constant rather than a literal.
type ArrayDim struct {
	Length   string
	Constant bool
}

// Decl is a C declarator: a structure member, a parameter or a return type.
// Type is the raw spelling of the base type.
type Decl struct {
	Name     string
	Type     string
	Pointers int
	Dims     []ArrayDim
	BitWidth int
}

// Handle is a <type category="handle"> declaration.
type Handle struct {
	Name         string
	Alias        string
	Dispatchable bool
}

// Basetype is a <type category="basetype"> declaration. Type is empty for
// opaque platform typedefs.
type Basetype struct {
	Name string
	Type string
}

// Bitmask is a <type category="bitmask"> declaration.
type Bitmask struct {
	Name  string
	Type  string
	Alias string
}

// EnumType is a <type category="enum"> placeholder naming an enumeration.
type EnumType struct {
	Name  string
	Alias string
}

// FuncPointer is a <type category="funcpointer"> declaration.
type FuncPointer struct {
	Name   string
	Return Decl
	Params []Decl
}

// Struct is a <type category="struct"> or <type category="union"> declaration.
type Struct struct {
	Name    string
	Union   bool
	Alias   string
	Members []Decl
}

// EnumValue is an <enum> element, either inside an <enums> group or inside
// an extension <require> block.
type EnumValue struct {
	Name      string
	Value     string
	BitPos    string
	Alias     string
	Offset    string
	Dir       string
	Extends   string
	ExtNumber string
}

// EnumGroup is an <enums> group.
type EnumGroup struct {
	Name     string
	Type     string
	BitWidth int
	Members  []EnumValue
}

// Command is a <command> declaration.
type Command struct {
	Name   string
	Alias  string
	Return Decl
	Params []Decl
}

// Extension is an <extension> declaration with the enum additions of all its
// <require> blocks.
type Extension struct {
	Name        string
	Number      int
	Supported   string
	Placeholder bool
	Enums       []EnumValue
}
