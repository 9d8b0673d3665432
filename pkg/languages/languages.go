package languages

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/messages"
)

// Language is one row of the language table.
type Language struct {
	ID             string
	Name           string
	Image          string
	SourceFile     string
	CompileCommand []string
	RunCommand     []string
	Env            []string
}

func (l Language) IsCompiled() bool {
	return len(l.CompileCommand) > 0
}

func (l Language) Spec() messages.LanguageSpec {
	return messages.LanguageSpec{ID: l.ID, Name: l.Name, Compiled: l.IsCompiled()}
}

type Registry struct {
	mu        sync.RWMutex
	languages map[string]Language
}

func NewRegistry() *Registry {
	r := &Registry{
		languages: make(map[string]Language),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) Register(lang Language) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lang.ID = strings.ToLower(lang.ID)
	r.languages[lang.ID] = lang
}

func (r *Registry) Get(id string) (Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.languages[strings.ToLower(id)]
	if !ok {
		return Language{}, errors.ErrInvalidLanguageType
	}
	return lang, nil
}

// List returns every registered language ordered by ID.
func (r *Registry) List() []Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]Language, 0, len(r.languages))
	for _, l := range r.languages {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i].ID < langs[j].ID })
	return langs
}

type fileEntry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Image      string   `yaml:"image"`
	SourceFile string   `yaml:"source_file"`
	Compile    string   `yaml:"compile"`
	Run        string   `yaml:"run"`
	Env        []string `yaml:"env"`
}

type fileTable struct {
	Languages []fileEntry `yaml:"languages"`
}

// LoadFile registers every language listed in a YAML table. Entries with an
// existing ID replace the built-in row.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.Load(data)
}

func (r *Registry) Load(data []byte) error {
	var table fileTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("parse language table: %w", err)
	}

	for _, entry := range table.Languages {
		lang, err := entry.toLanguage()
		if err != nil {
			return err
		}
		r.Register(lang)
	}
	return nil
}

func (e fileEntry) toLanguage() (Language, error) {
	if e.ID == "" || e.Image == "" || e.SourceFile == "" || e.Run == "" {
		return Language{}, fmt.Errorf("language %q: id, image, source_file and run are required", e.ID)
	}
	run, err := shlex.Split(e.Run)
	if err != nil {
		return Language{}, fmt.Errorf("language %q: parse run command: %w", e.ID, err)
	}
	var compile []string
	if e.Compile != "" {
		compile, err = shlex.Split(e.Compile)
		if err != nil {
			return Language{}, fmt.Errorf("language %q: parse compile command: %w", e.ID, err)
		}
	}
	name := e.Name
	if name == "" {
		name = e.ID
	}
	return Language{
		ID:             e.ID,
		Name:           name,
		Image:          e.Image,
		SourceFile:     e.SourceFile,
		CompileCommand: compile,
		RunCommand:     run,
		Env:            e.Env,
	}, nil
}

func (r *Registry) registerDefaults() {
	r.Register(Language{
		ID:             "cpp",
		Name:           "C++",
		Image:          "gcc:13",
		SourceFile:     "solution.cpp",
		CompileCommand: []string{"g++", "-O2", "-static", "-std=c++17", "-o", "solution", "solution.cpp"},
		RunCommand:     []string{"./solution"},
	})

	r.Register(Language{
		ID:             "c",
		Name:           "C",
		Image:          "gcc:13",
		SourceFile:     "solution.c",
		CompileCommand: []string{"gcc", "-O2", "-static", "-std=c17", "-o", "solution", "solution.c", "-lm"},
		RunCommand:     []string{"./solution"},
	})

	r.Register(Language{
		ID:         "python",
		Name:       "Python",
		Image:      "python:3.12-slim",
		SourceFile: "solution.py",
		RunCommand: []string{"python3", "solution.py"},
		Env:        []string{"PYTHONDONTWRITEBYTECODE=1"},
	})

	r.Register(Language{
		ID:         "javascript",
		Name:       "JavaScript",
		Image:      "node:20-slim",
		SourceFile: "solution.js",
		RunCommand: []string{"node", "solution.js"},
	})

	r.Register(Language{
		ID:             "java",
		Name:           "Java",
		Image:          "eclipse-temurin:21",
		SourceFile:     "Main.java",
		CompileCommand: []string{"javac", "-encoding", "UTF-8", "Main.java"},
		RunCommand:     []string{"java", "-Xss64m", "-XX:+UseSerialGC", "Main"},
		Env:            []string{"JAVA_TOOL_OPTIONS=-Xshare:off"},
	})
}
