package modules

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"flc/pkg/errors"
)

// FileSystemResolver resolves adopt paths to source files. A path a.b.c
// names the file a/b/c<ext>, searched first from the entry directory (the
// root of the file system) and then from the importing file's directory.
type FileSystemResolver struct {
	name      string   // Human-readable name
	fs        ModuleFS // File system rooted at the entry directory
	priority  int      // Resolution priority
	extension string   // File extension appended to every candidate
	baseDir   string   // OS directory fs is rooted at, for display only
}

// NewFileSystemResolver creates a resolver over filesystem. baseDir is the
// directory filesystem stands for; it only affects diagnostics.
func NewFileSystemResolver(filesystem fs.FS, baseDir string) *FileSystemResolver {
	var moduleFS ModuleFS

	// Wrap the fs.FS to implement ModuleFS if needed
	if mfs, ok := filesystem.(ModuleFS); ok {
		moduleFS = mfs
	} else {
		moduleFS = &fsWrapper{filesystem}
	}

	return &FileSystemResolver{
		name:      "FileSystem",
		fs:        moduleFS,
		priority:  100, // Lower priority than the builtin resolver
		extension: ".fl",
		baseDir:   baseDir,
	}
}

// Name returns the resolver name
func (r *FileSystemResolver) Name() string {
	return r.name
}

// CanResolve accepts any well-formed dotted path
func (r *FileSystemResolver) CanResolve(specifier string) bool {
	if specifier == "" {
		return false
	}
	for _, seg := range strings.Split(specifier, ".") {
		if seg == "" {
			return false
		}
	}
	return true
}

// Priority returns the resolver priority
func (r *FileSystemResolver) Priority() int {
	return r.priority
}

// FS returns the file system the resolver reads from
func (r *FileSystemResolver) FS() ModuleFS {
	return r.fs
}

// Resolve maps specifier to a file. When neither search location holds it
// the error is an *errors.ResolveError naming both directories.
func (r *FileSystemResolver) Resolve(specifier string, fromPath string) (*ResolvedModule, error) {
	segs := strings.Split(specifier, ".")
	fromDir := "."
	if fromPath != "" {
		fromDir = path.Dir(fromPath)
	}

	candidates := []string{
		path.Join(segs...) + r.extension,
		path.Join(fromDir, path.Join(segs...)) + r.extension,
	}

	for _, candidate := range candidates {
		if !r.isFile(candidate) {
			continue
		}
		src, err := r.openFile(candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", candidate, err)
		}
		return &ResolvedModule{
			Specifier:    specifier,
			ResolvedPath: candidate,
			DisplayPath:  r.DisplayPath(candidate),
			Source:       src,
			Resolver:     r.name,
		}, nil
	}

	return nil, &errors.ResolveError{
		ImportPath: specifier,
		Searched:   []string{r.DisplayPath("."), r.DisplayPath(fromDir)},
	}
}

// DisplayPath turns a path inside the file system into the path users see.
func (r *FileSystemResolver) DisplayPath(p string) string {
	if r.baseDir == "" {
		return p
	}
	return filepath.Join(r.baseDir, filepath.FromSlash(p))
}

// SetExtension sets the file extension appended during resolution
func (r *FileSystemResolver) SetExtension(ext string) {
	r.extension = ext
}

// isFile checks if a path exists and is a file (not a directory)
func (r *FileSystemResolver) isFile(p string) bool {
	info, err := fs.Stat(r.fs, p)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// openFile opens a file and returns a ReadCloser
func (r *FileSystemResolver) openFile(p string) (io.ReadCloser, error) {
	return r.fs.Open(p)
}

// fsWrapper wraps a generic fs.FS to implement ModuleFS
type fsWrapper struct {
	fs.FS
}

func (w *fsWrapper) ReadFile(name string) ([]byte, error) {
	if rfs, ok := w.FS.(fs.ReadFileFS); ok {
		return rfs.ReadFile(name)
	}

	// Fallback implementation
	file, err := w.FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
