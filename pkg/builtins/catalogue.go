package builtins

var ioModule = &Module{
	Name:       "io",
	JSName:     "io",
	Definition: "{ print: (...args) => console.log(...args) }",
}

var mathModule = &Module{
	Name:   "math",
	JSName: "math",
	Definition: "{ " +
		"floor: (x) => Math.floor(x), " +
		"ceil: (x) => Math.ceil(x), " +
		"round: (x) => Math.round(x), " +
		"abs: (x) => Math.abs(x), " +
		"sqrt: (x) => Math.sqrt(x), " +
		"pow: (x, y) => Math.pow(x, y), " +
		"min: (...args) => Math.min(...args), " +
		"max: (...args) => Math.max(...args), " +
		"random: () => Math.random(), " +
		"PI: Math.PI, " +
		"E: Math.E " +
		"}",
}

var strModule = &Module{
	Name:   "str",
	JSName: "str",
	Definition: "{ " +
		"len: (s) => s.length, " +
		"upper: (s) => s.toUpperCase(), " +
		"lower: (s) => s.toLowerCase(), " +
		"trim: (s) => s.trim(), " +
		"split: (s, sep) => s.split(sep), " +
		"join: (arr, sep) => arr.join(sep), " +
		"includes: (s, sub) => s.includes(sub), " +
		"replace: (s, from, to) => s.replace(from, to), " +
		"slice: (s, start, end) => s.slice(start, end) " +
		"}",
}

var arrModule = &Module{
	Name:   "arr",
	JSName: "arr",
	Definition: "{ " +
		"len: (a) => a.length, " +
		"push: (a, v) => { a.push(v); return a; }, " +
		"pop: (a) => a.pop(), " +
		"shift: (a) => a.shift(), " +
		"slice: (a, s, e) => a.slice(s, e), " +
		"map: (a, fn) => a.map(fn), " +
		"filter: (a, fn) => a.filter(fn), " +
		"reduce: (a, fn, init) => a.reduce(fn, init), " +
		"find: (a, fn) => a.find(fn), " +
		"sort: (a, fn) => [...a].sort(fn), " +
		"reverse: (a) => [...a].reverse(), " +
		"includes: (a, v) => a.includes(v) " +
		"}",
}
