package pulse

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"sort"

	"github.com/hashicorp/golang-lru/v2"
)

//go:embed shaders/*.wgsl
var bundledShaders embed.FS

var (
	ErrFunctionNotFound = errors.New("shader function not found")
	ErrWrongStage       = errors.New("shader function has wrong stage")
)

// matches the entry points of a wgsl source file,
// e.g. "@vertex fn basic_vertex("
var reEntryPoint = regexp.MustCompile(`@(vertex|fragment)\s+fn\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

var reComment = regexp.MustCompile(`(?s)/\*.*?\*/|//[^\n]*`)

// maximum number of compiled shader modules kept alive by a library
const maxCachedModules = 8

// ShaderFunction is an entry point of a compiled shader module.
type ShaderFunction struct {
	Name   string
	Stage  Stage
	Module ShaderModule
}

type entryPoint struct {
	file  string
	stage Stage
}

// ShaderLibrary gives access to the shader functions of a set of wgsl files
// by their entry point name. Shader modules are compiled on first use.
//
// At most maxCachedModules compiled modules are kept. Evicting a module
// releases it, which invalidates every ShaderFunction previously returned
// for that module. Build pipelines from a function before loading functions
// of more than maxCachedModules other files.
type ShaderLibrary struct {
	device  Device
	sources map[string]string
	entries map[string]entryPoint
	modules *lru.Cache[string, ShaderModule]
}

// DefaultLibrary returns a library of the shaders bundled with this package.
func DefaultLibrary(device Device) (*ShaderLibrary, error) {
	sub, err := fs.Sub(bundledShaders, "shaders")
	if err != nil {
		return nil, err
	}

	return NewShaderLibrary(device, sub)
}

// NewShaderLibrary indexes all *.wgsl files in the root of fsys.
func NewShaderLibrary(device Device, fsys fs.FS) (*ShaderLibrary, error) {
	files, err := fs.Glob(fsys, "*.wgsl")
	if err != nil {
		return nil, fmt.Errorf("list shader files: %w", err)
	}

	lib := &ShaderLibrary{
		device:  device,
		sources: map[string]string{},
		entries: map[string]entryPoint{},
	}

	for _, file := range files {
		code, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read shader %q: %w", file, err)
		}

		lib.sources[file] = string(code)

		for _, match := range reEntryPoint.FindAllStringSubmatch(stripComments(string(code)), -1) {
			name := match[2]

			if prev, ok := lib.entries[name]; ok {
				return nil, fmt.Errorf("entry point %q defined in %q and %q", name, prev.file, file)
			}

			lib.entries[name] = entryPoint{file: file, stage: parseStage(match[1])}
		}
	}

	lib.modules, _ = lru.NewWithEvict[string, ShaderModule](maxCachedModules, releaseModuleOnEviction)

	return lib, nil
}

// FunctionNames returns the sorted names of all entry points in this library.
func (lib *ShaderLibrary) FunctionNames() []string {
	var names []string
	for name := range lib.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Function returns the entry point with the given name, compiling the shader
// module containing it if needed.
func (lib *ShaderLibrary) Function(name string) (ShaderFunction, error) {
	entry, ok := lib.entries[name]
	if !ok {
		return ShaderFunction{}, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}

	module, err := lib.module(entry.file)
	if err != nil {
		return ShaderFunction{}, err
	}

	return ShaderFunction{Name: name, Stage: entry.stage, Module: module}, nil
}

// StageFunction works like Function, but also verifies that the entry
// point is defined for the given stage.
func (lib *ShaderLibrary) StageFunction(name string, stage Stage) (ShaderFunction, error) {
	fn, err := lib.Function(name)
	if err != nil {
		return ShaderFunction{}, err
	}

	if fn.Stage != stage {
		return ShaderFunction{}, fmt.Errorf("%w: %q is a %s function, expected %s", ErrWrongStage, name, fn.Stage, stage)
	}

	return fn, nil
}

func (lib *ShaderLibrary) module(file string) (ShaderModule, error) {
	if module, ok := lib.modules.Get(file); ok {
		return module, nil
	}

	slog.Debug("Compile shader module", slog.String("file", file))

	module, err := lib.device.NewShaderModule(path.Base(file), lib.sources[file])
	if err != nil {
		return nil, err
	}

	lib.modules.Add(file, module)

	return module, nil
}

// Release releases all compiled shader modules.
func (lib *ShaderLibrary) Release() {
	lib.modules.Purge()
}

// stripComments replaces line and block comments with a single space.
func stripComments(code string) string {
	return reComment.ReplaceAllString(code, " ")
}

func parseStage(value string) Stage {
	switch value {
	case "vertex":
		return StageVertex
	case "fragment":
		return StageFragment
	}

	panic(fmt.Sprintf("unknown shader stage %q", value))
}

func releaseModuleOnEviction(_ string, module ShaderModule) {
	module.Release()
}
