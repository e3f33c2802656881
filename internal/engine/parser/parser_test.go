package parser

import (
	"strings"
	"testing"

	"doq/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string, opts Options) Definition {
	t.Helper()
	defs, err := Parse([]byte(src), opts)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	return defs[0]
}

func TestParse_Signatures(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		params []Parameter
		rtype  string
	}{
		{
			name: "no arguments",
			src:  "def foo(): pass",
		},
		{
			name:   "one argument",
			src:    "def foo(arg1): pass",
			params: []Parameter{{Argument: "arg1"}},
		},
		{
			name:   "args and kwargs",
			src:    "def foo(*args, **kwargs): pass",
			params: []Parameter{{Argument: "args"}, {Argument: "kwargs"}},
		},
		{
			name: "defaults",
			src:  "def foo(arg1='foo', arg2=None): pass",
			params: []Parameter{
				{Argument: "arg1", Default: "'foo'"},
				{Argument: "arg2", Default: "None"},
			},
		},
		{
			name: "annotations",
			src:  "def foo(arg1: str, arg2: Callable[List[init]]): pass",
			params: []Parameter{
				{Argument: "arg1", Annotation: "str"},
				{Argument: "arg2", Annotation: "Callable[List[init]]"},
			},
		},
		{
			name: "keyword-only marker",
			src:  "def foo(arg1: str='foo', *, arg2: str='foo'): pass",
			params: []Parameter{
				{Argument: "arg1", Annotation: "str", Default: "'foo'"},
				{Argument: "arg2", Annotation: "str", Default: "'foo'"},
			},
		},
		{
			name:   "return type",
			src:    "def foo(arg1) -> List[str]: pass",
			params: []Parameter{{Argument: "arg1"}},
			rtype:  "List[str]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := parseOne(t, tt.src, Options{})
			assert.Equal(t, KindFunction, def.Kind)
			assert.Equal(t, "foo", def.Name)
			assert.Equal(t, tt.params, def.Params)
			assert.Equal(t, tt.rtype, def.ReturnType)
			assert.Equal(t, Position{Line: 1, Column: 0}, def.Start)
			assert.Equal(t, Position{Line: 1, Column: len(tt.src)}, def.End)
			assert.False(t, def.HasDocstring)
		})
	}
}

func TestParse_MultipleFunctions(t *testing.T) {
	src := strings.Join([]string{
		"def bar(arg1) -> List[str]:",
		"    pass",
		"",
		"",
		"def foo(arg1, arg2):",
		"    pass",
	}, "\n")

	defs, err := Parse([]byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "bar", defs[0].Name)
	assert.Equal(t, "List[str]", defs[0].ReturnType)
	assert.Equal(t, 1, defs[0].Start.Line)

	assert.Equal(t, "foo", defs[1].Name)
	assert.Equal(t, Position{Line: 5, Column: 0}, defs[1].Start)
	assert.Equal(t, Position{Line: 6, Column: 8}, defs[1].End)
	assert.Len(t, defs[1].Params, 2)
}

func TestParse_Class(t *testing.T) {
	src := strings.Join([]string{
		"class Foo:",
		"   def bar(self, arg1) -> List[str]:",
		"       pass",
		"   def foo(self, arg1, arg2):",
		"       pass",
	}, "\n")

	cls := parseOne(t, src, Options{})
	assert.True(t, cls.IsClass())
	assert.Equal(t, "Foo", cls.Name)
	assert.Equal(t, Position{Line: 1, Column: 0}, cls.Start)
	assert.Equal(t, Position{Line: 5, Column: 11}, cls.End)
	require.Len(t, cls.Children, 2)

	bar := cls.Children[0]
	assert.Equal(t, "bar", bar.Name)
	assert.Equal(t, Position{Line: 2, Column: 3}, bar.Start)
	assert.Equal(t, []Parameter{{Argument: "arg1"}}, bar.Params)
	assert.Equal(t, "List[str]", bar.ReturnType)

	foo := cls.Children[1]
	assert.Equal(t, "foo", foo.Name)
	assert.Equal(t, Position{Line: 4, Column: 3}, foo.Start)
	assert.Equal(t, []Parameter{{Argument: "arg1"}, {Argument: "arg2"}}, foo.Params)
}

func TestParse_ClassOrderedByFirstMethod(t *testing.T) {
	src := strings.Join([]string{
		"def top():",
		"    pass",
		"",
		"",
		"class Foo:",
		"    def bar(self):",
		"        pass",
		"",
		"",
		"class Empty:",
		"    x = 1",
	}, "\n")

	defs, err := Parse([]byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, "top", defs[0].Name)
	assert.Equal(t, "Foo", defs[1].Name)
	assert.Equal(t, "Empty", defs[2].Name)
	assert.Empty(t, defs[1].Children[0].Params)
}

func TestParse_ClassMethodDropsFirstParameter(t *testing.T) {
	src := strings.Join([]string{
		"class A:",
		"    @classmethod",
		"    def make(cls, x):",
		"        pass",
		"",
		"    @staticmethod",
		"    def helper(y):",
		"        pass",
	}, "\n")

	cls := parseOne(t, src, Options{})
	require.Len(t, cls.Children, 2)

	factory := cls.Children[0]
	assert.Equal(t, []string{"classmethod"}, factory.Decorators)
	assert.Equal(t, []Parameter{{Argument: "x"}}, factory.Params)
	assert.Equal(t, Position{Line: 3, Column: 4}, factory.Start)

	helper := cls.Children[1]
	assert.Equal(t, []Parameter{{Argument: "y"}}, helper.Params)
}

func TestParse_OmissionsApplyToFirstParameterOnly(t *testing.T) {
	opts := Options{Omissions: []string{"self"}}

	def := parseOne(t, "def foo(self, arg): pass", opts)
	assert.Equal(t, []Parameter{{Argument: "arg"}}, def.Params)

	def = parseOne(t, "def foo(arg, self): pass", opts)
	assert.Equal(t, []Parameter{{Argument: "arg"}, {Argument: "self"}}, def.Params)
}

func TestParse_NestedFunctionsKeepReceiver(t *testing.T) {
	src := strings.Join([]string{
		"class A:",
		"    def m(self):",
		"        def helper(self, x):",
		"            pass",
		"        return helper",
	}, "\n")

	cls := parseOne(t, src, Options{})
	require.Len(t, cls.Children, 1)
	m := cls.Children[0]
	assert.Empty(t, m.Params)
	require.Len(t, m.Children, 1)
	assert.Equal(t, []Parameter{{Argument: "self"}, {Argument: "x"}}, m.Children[0].Params)
}

func TestParse_DocstringDetection(t *testing.T) {
	withDoc := strings.Join([]string{
		"def foo(arg1):",
		`    """foo.`,
		"",
		"    :param arg1:",
		`    """`,
		"    pass",
	}, "\n")
	assert.True(t, parseOne(t, withDoc, Options{}).HasDocstring)

	commentFirst := strings.Join([]string{
		"def foo():",
		"    # leading comment",
		`    "doc"`,
	}, "\n")
	assert.True(t, parseOne(t, commentFirst, Options{}).HasDocstring)

	notFirst := strings.Join([]string{
		"def foo():",
		"    x = 1",
		`    """late."""`,
	}, "\n")
	assert.False(t, parseOne(t, notFirst, Options{}).HasDocstring)

	classDoc := strings.Join([]string{
		"class Foo:",
		`    """Foo."""`,
	}, "\n")
	assert.True(t, parseOne(t, classDoc, Options{}).HasDocstring)
}

func TestParse_AsyncColumn(t *testing.T) {
	def := parseOne(t, "async def fetch(url):\n    pass\n", Options{})
	assert.True(t, def.IsAsync)
	assert.Equal(t, Position{Line: 1, Column: 0}, def.Start)

	cls := parseOne(t, "class A:\n    async def go(self):\n        pass\n", Options{})
	require.Len(t, cls.Children, 1)
	assert.True(t, cls.Children[0].IsAsync)
	assert.Equal(t, 4, cls.Children[0].Start.Column)
}

func TestParse_ExceptionsAndYields(t *testing.T) {
	src := strings.Join([]string{
		"def gen(items):",
		"    for i in items:",
		"        yield i",
		"    if not items:",
		`        raise ValueError("empty")`,
		"    raise",
	}, "\n")

	def := parseOne(t, src, Options{})
	assert.Equal(t, []string{"i"}, def.Yields)
	assert.Equal(t, []string{"ValueError"}, def.Exceptions)

	def = parseOne(t, src, Options{IgnoreYield: true})
	assert.Empty(t, def.Yields)
	assert.Equal(t, []string{"ValueError"}, def.Exceptions)

	def = parseOne(t, src, Options{IgnoreException: true})
	assert.Equal(t, []string{"i"}, def.Yields)
	assert.Empty(t, def.Exceptions)

	def = parseOne(t, src, Options{IgnoreException: true, IgnoreYield: true})
	assert.Empty(t, def.Yields)
	assert.Empty(t, def.Exceptions)
}

func TestParse_EffectsStopAtNestedScopes(t *testing.T) {
	src := strings.Join([]string{
		"def outer():",
		"    def inner():",
		"        raise KeyError",
		"    return inner",
	}, "\n")

	outer := parseOne(t, src, Options{})
	assert.Empty(t, outer.Exceptions)
	require.Len(t, outer.Children, 1)
	assert.Equal(t, "inner", outer.Children[0].Name)
	assert.Equal(t, []string{"KeyError"}, outer.Children[0].Exceptions)
}

func TestParse_DefinitionsInsideCompoundStatements(t *testing.T) {
	src := strings.Join([]string{
		"if True:",
		"    def a():",
		"        pass",
		"try:",
		"    def b():",
		"        pass",
		"except ImportError:",
		"    pass",
	}, "\n")

	defs, err := Parse([]byte(src), Options{})
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "a", defs[0].Name)
	assert.Equal(t, "b", defs[1].Name)
}

func TestParse_Strict(t *testing.T) {
	src := []byte("def foo(:\n    pass\n")

	_, err := Parse(src, Options{})
	assert.NoError(t, err)

	_, err = Parse(src, Options{Strict: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSyntax))
}

func TestParse_ReturnTypeFromSignatureText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		// The arrow only appears in a comment between the colon and the body.
		{"arrow in comment", "def foo(a):  # -> int\n    pass\n", ""},
		{"recovered parameter list", "def foo(a, b c) -> int:\n    pass\n", "int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := parseOne(t, tt.src, Options{})
			assert.Equal(t, "foo", def.Name)
			assert.Equal(t, tt.want, def.ReturnType)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	defs, err := Parse(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestIsSupportedPath(t *testing.T) {
	assert.True(t, IsSupportedPath("pkg/mod.py"))
	assert.True(t, IsSupportedPath("MOD.PY"))
	assert.False(t, IsSupportedPath("mod.pyi"))
	assert.False(t, IsSupportedPath("README.md"))
}
