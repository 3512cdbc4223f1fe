package langhelper

// extensionLanguage maps source file extensions to language names, the
// same table the helper script's find/sort pipeline counts against.
var extensionLanguage = map[string]string{
	".go":     "Go",
	".py":     "Python",
	".js":     "JavaScript",
	".jsx":    "JavaScript",
	".ts":     "TypeScript",
	".tsx":    "TypeScript",
	".java":   "Java",
	".kt":     "Kotlin",
	".rs":     "Rust",
	".rb":     "Ruby",
	".php":    "PHP",
	".c":      "C",
	".cpp":    "C++",
	".cc":     "C++",
	".cs":     "C#",
	".swift":  "Swift",
	".scala":  "Scala",
	".ex":     "Elixir",
	".exs":    "Elixir",
	".hs":     "Haskell",
	".sh":     "Shell",
}

// buildMarkers maps a root-level file whose presence identifies a build
// system to the system's name, checked in this fixed priority order.
var buildMarkers = []struct {
	file string
	name string
}{
	{"go.mod", "go"},
	{"package.json", "npm"},
	{"Cargo.toml", "cargo"},
	{"pyproject.toml", "poetry/pip"},
	{"requirements.txt", "pip"},
	{"pom.xml", "maven"},
	{"build.gradle", "gradle"},
	{"Gemfile", "bundler"},
	{"Makefile", "make"},
}
