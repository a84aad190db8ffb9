package compiler

import (
	"reflect"
	"strings"
	"testing"

	"flc/pkg/builtins"
	"flc/pkg/errors"
	"flc/pkg/parser"
	"flc/pkg/source"
)

func parseModule(t *testing.T, path, src string) *parser.Module {
	t.Helper()
	mod, err := parser.ParseSource(source.NewSourceFile(path+".fl", "", src), path)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	return mod
}

func compileModules(t *testing.T, mods ...*parser.Module) string {
	t.Helper()
	out, err := CompileProgram(&parser.Program{Modules: mods})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return out
}

func compileMain(t *testing.T, src string) string {
	t.Helper()
	return compileModules(t, parseModule(t, parser.MainModulePath, src))
}

func snippet(t *testing.T, name string) string {
	t.Helper()
	m, ok := builtins.Lookup(name)
	if !ok {
		t.Fatalf("no standard module %s", name)
	}
	return m.Snippet()
}

func checkOutput(t *testing.T, expected, got string) {
	t.Helper()
	if got != expected {
		t.Errorf("output mismatch\n--- expected ---\n%s\n--- got ---\n%s", expected, got)
	}
}

func TestCompileStatements(t *testing.T) {
	src := `adopt io
keep x = 1 + 2 * 3
keep name: str = "hi\n"
keep empty
x += 1
if x == 7 {
    io::print("seven")
} else if x != 8 {
    x = 0
} else {
    x = NO
}
`
	expected := snippet(t, "io") + `

(() => {
  let x = (1 + (2 * 3));
  let name = "hi\n";
  let empty;
  x += 1;
  if (x === 7) {
    io.print("seven");
  } else if (x !== 8) {
    x = 0;
  } else {
    x = false;
  }
})();`

	checkOutput(t, expected, compileMain(t, src))
}

func TestCompileExpressions(t *testing.T) {
	src := `adopt io
keep add = (a, b) => a + b
keep sum = (nums...) => {
    keep total = 0
    go nums by n {
        total += n
    }
    return total
}
go 0 to 3 by i {
    io::print(add(i, sum(1, 2)[0]))
}
stay NO {
    native => {debugger;}
}
keep v = native => {return 42;}
keep neg = -x.y
keep s = 3.toString()
keep list = [1, 2.5, YES, "q"]
keep ok = !(a || b) && c >= 1
keep oct = 010
keep fl = 007.5
keep m = 010.toString()
`
	expected := snippet(t, "io") + `

` + rangeHelperSource + `

(() => {
  let add = ((a, b) => {
    return (a + b);
  });
  let sum = ((...nums) => {
    let total = 0;
    for (let n of nums) {
      total += n;
    }
    return total;
  });
  for (let i of __flc_range(0, 3)) {
    io.print(add(i, sum(1, 2)[0]));
  }
  while (false) {
    debugger;
  }
  let v = (() => {return 42;})();
  let neg = (-x.y);
  let s = (3).toString();
  let list = [1, 2.5, true, "q"];
  let ok = ((!(a || b)) && (c >= 1));
  let oct = 10;
  let fl = 7.5;
  let m = (10).toString();
})();`

	checkOutput(t, expected, compileMain(t, src))
}

func TestClosureBodiesCompileAlike(t *testing.T) {
	expr := compileMain(t, "keep f = (x) => x + 1\n")
	block := compileMain(t, "keep f = (x) => {\n    return x + 1\n}\n")
	if expr != block {
		t.Errorf("expected identical output\n%s\n---\n%s", expr, block)
	}
}

func TestCompileClasses(t *testing.T) {
	src := `keep Animal = boy {
    share keep name = ""
    keep secret = 1
    share keep init = (name) => {
        self.name = name
    }
    share keep speak = () => self.name + self.secret
    keep hidden = () => {
        return self.secret
    }
}
keep Dog = boy : Animal {
    share keep init = (name, tricks...) => {
        self.tricks = tricks
    }
}
keep d = makeout Dog("rex", 1, 2)
keep me = self
`
	expected := `(() => {
  class Animal {
    name = "";
    #secret = 1;
    constructor(name) {
      this.name = name;
    }
    speak() {
      return (this.name + this.#secret);
    }
    #hidden() {
      return this.#secret;
    }
  }
  class Dog extends Animal {
    constructor(name, ...tricks) {
      super(name, ...tricks);
      this.tricks = tricks;
    }
  }
  let d = new Dog("rex", 1, 2);
  let me = self;
})();`

	checkOutput(t, expected, compileMain(t, src))
}

func TestClassMemberNamedConstructor(t *testing.T) {
	src := `keep Box = boy {
    keep constructor = 1
    share keep read = () => self.constructor
}
keep Tag = boy {
    share keep constructor = "t"
}
`
	expected := `(() => {
  class Box {
    #$constructor = 1;
    read() {
      return this.#$constructor;
    }
  }
  class Tag {
    $constructor = "t";
  }
})();`

	checkOutput(t, expected, compileMain(t, src))
}

func TestCompileQualifiedParent(t *testing.T) {
	src := `adopt zoo
keep Cat = boy : zoo::Animal {
    keep lives = 9
}
`
	expected := `(() => {
  const zoo = __flc_mod_zoo;
  class Cat extends zoo.Animal {
    #lives = 9;
  }
})();`

	checkOutput(t, expected, compileMain(t, src))
}

func TestRepeatedAdopts(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name: "same path twice",
			src:  "adopt lib.util\nadopt lib.util\nutil::run()\n",
			expected: `(() => {
  const util = __flc_mod_lib$util;
  util.run();
})();`,
		},
		{
			name: "same last segment",
			src:  "adopt lib.util\nadopt other.util\nadopt lib.util\nutil::run()\n",
			expected: `(() => {
  let util = __flc_mod_lib$util;
  util = __flc_mod_other$util;
  util = __flc_mod_lib$util;
  util.run();
})();`,
		},
		{
			name: "stdlib and file module",
			src:  "adopt io\nadopt io\nadopt lib.io\n",
			expected: snippet(t, "io") + `

(() => {
  const io = __flc_mod_lib$io;
})();`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkOutput(t, tt.expected, compileMain(t, tt.src))
		})
	}
}

func TestCompileModules(t *testing.T) {
	util := parseModule(t, "util", `adopt math
keep hidden = 41
share keep answer = hidden + 1
share keep Point = boy {
    share keep x = 0
}
`)
	shapes := parseModule(t, "lib.shapes", `adopt math
adopt util
share keep area = (r) => math::PI * r * r
`)
	main := parseModule(t, parser.MainModulePath, `adopt io
adopt lib.shapes
adopt util
io::print(shapes::area(util::answer))
keep p = makeout util::Point()
`)

	expected := snippet(t, "math") + "\n" + snippet(t, "io") + `

const __flc_mod_util = (() => {
  let hidden = 41;
  let answer = (hidden + 1);
  class Point {
    x = 0;
  }
  return {
    get answer() { return answer; },
    set answer(__flc_v) { answer = __flc_v; },
    get Point() { return Point; },
    set Point(__flc_v) { Point = __flc_v; },
  };
})();

const __flc_mod_lib$shapes = (() => {
  const util = __flc_mod_util;
  let area = ((r) => {
    return ((math.PI * r) * r);
  });
  return {
    get area() { return area; },
    set area(__flc_v) { area = __flc_v; },
  };
})();

(() => {
  const shapes = __flc_mod_lib$shapes;
  const util = __flc_mod_util;
  io.print(shapes.area(util.answer));
  let p = new util.Point();
})();`

	checkOutput(t, expected, compileModules(t, util, shapes, main))
}

func TestStdlibInlinedOnce(t *testing.T) {
	a := parseModule(t, "a", "adopt io\nadopt math\nshare keep x = math::PI\n")
	b := parseModule(t, "b", "adopt math\nadopt io.print\nshare keep y = math::E\n")
	main := parseModule(t, parser.MainModulePath, "adopt a\nadopt b\nadopt math\n")

	c := NewCompiler()
	out, err := c.Compile(&parser.Program{Modules: []*parser.Module{a, b, main}})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	for _, name := range []string{"math", "io"} {
		if n := strings.Count(out, snippet(t, name)); n != 1 {
			t.Errorf("expected one definition of %s, got %d", name, n)
		}
	}
	if got := c.Stats().StdlibModules; !reflect.DeepEqual(got, []string{"io", "math"}) {
		t.Errorf("expected [io math], got %v", got)
	}
	if c.Stats().UsesRange {
		t.Errorf("no range in this program")
	}
	if strings.Contains(out, rangeHelper) {
		t.Errorf("range helper emitted without use")
	}
	if c.Stats().Modules != 3 {
		t.Errorf("expected 3 modules, got %d", c.Stats().Modules)
	}
}

func TestPrivateBindingsAreNotExported(t *testing.T) {
	lib := parseModule(t, "lib", "keep secret = 1\nshare keep open = 2\nkeep helper = () => secret\n")
	out := compileModules(t, lib)

	start := strings.Index(out, "return {")
	if start < 0 {
		t.Fatalf("no export object in\n%s", out)
	}
	exports := out[start:]
	if strings.Contains(exports, "secret") || strings.Contains(exports, "helper") {
		t.Errorf("private bindings leaked into exports:\n%s", exports)
	}
	if !strings.Contains(exports, "get open() { return open; },") {
		t.Errorf("shared binding missing from exports:\n%s", exports)
	}
}

func TestModuleWithoutShares(t *testing.T) {
	out := compileModules(t, parseModule(t, "quiet", "keep x = 1\n"))
	expected := `const __flc_mod_quiet = (() => {
  let x = 1;
  return {};
})();`
	checkOutput(t, expected, out)
}

func TestNamespaceAndMemberAccessStayDistinct(t *testing.T) {
	src := `keep Box = boy {
    keep item = 0
    share keep get = () => self.item
    share keep peek = () => self::item
}
`
	out := compileMain(t, src)
	if !strings.Contains(out, "return this.#item;") {
		t.Errorf("member access on self should reach the private field:\n%s", out)
	}
	if !strings.Contains(out, "return this.item;") {
		t.Errorf("namespace access must not be rewritten to a private field:\n%s", out)
	}
}

func TestReservedNamesAreMangled(t *testing.T) {
	src := `keep class = 1
keep __flc_range = 2
keep classy = class + 1
keep f = (new, in...) => new
go items by this {
    io::print(this)
}
`
	expected := `(() => {
  let $class = 1;
  let $__flc_range = 2;
  let classy = ($class + 1);
  let f = (($new, ...$in) => {
    return $new;
  });
  for (let $this of items) {
    io.print($this);
  }
})();`

	checkOutput(t, expected, compileMain(t, src))
}

func TestJSName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x", "x"},
		{"class", "$class"},
		{"classy", "classy"},
		{"in", "$in"},
		{"index", "index"},
		{"undefined", "$undefined"},
		{"self", "self"},
		{"__flc_mod_a", "$__flc_mod_a"},
		{"_flc", "_flc"},
		{"yield_", "yield_"},
	}

	for _, tt := range tests {
		if got := jsName(tt.input); got != tt.expected {
			t.Errorf("jsName(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestJSNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"000", "0"},
		{"7", "7"},
		{"010", "10"},
		{"100", "100"},
		{"0.5", "0.5"},
		{"00.25", "0.25"},
		{"007.5", "7.5"},
		{"10.0", "10.0"},
	}

	for _, tt := range tests {
		if got := jsNumber(tt.input); got != tt.expected {
			t.Errorf("jsNumber(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestJSString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"back\\slash", `"back\\slash"`},
		{"a\nb\tc\rd", `"a\nb\tc\rd"`},
		{"nul\x00", `"nul\u0000"`},
		{"bell\x07", `"bell\u0007"`},
		{"sep\u2028", `"sep\u2028"`},
		{"héllo", `"héllo"`},
	}

	for _, tt := range tests {
		if got := jsString(tt.input); got != tt.expected {
			t.Errorf("jsString(%q): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestUnknownNodeIsInternalError(t *testing.T) {
	tests := []struct {
		name string
		stmt parser.Statement
	}{
		{"nil statement", nil},
		{"nil expression", &parser.ExpressionStatement{}},
		{"nil nested expression", &parser.ReturnStatement{ReturnValue: &parser.CallExpression{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := &parser.Program{Modules: []*parser.Module{{
				Path:       parser.MainModulePath,
				Statements: []parser.Statement{tt.stmt},
			}}}
			_, err := CompileProgram(prog)
			fe, ok := errors.AsFlcError(err)
			if !ok {
				t.Fatalf("expected a FlcError, got %T (%v)", err, err)
			}
			if fe.Kind() != "Internal" {
				t.Errorf("expected kind Internal, got %s", fe.Kind())
			}
		})
	}
}

func TestCompileIsRepeatable(t *testing.T) {
	prog := &parser.Program{Modules: []*parser.Module{
		parseModule(t, parser.MainModulePath, "adopt io\ngo 1 to 2 by i {\n    io::print(i)\n}\n"),
	}}
	c := NewCompiler()
	first, err := c.Compile(prog)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := c.Compile(prog)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Errorf("second compile differs\n%s\n---\n%s", first, second)
	}
}
