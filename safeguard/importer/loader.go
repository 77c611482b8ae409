package importer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/LerianStudio/lib-safeguard/safeguard/log"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Errors surfaced through Module.Lookup. Load itself never returns errors.
var (
	ErrNilModule     = errors.New("module is nil")
	ErrInvalidSymbol = errors.New("invalid symbol name")
)

// Loader resolves packages by name against a single interpreter instance.
// It is safe for concurrent use; a package is resolved once and its handle is
// cached, so repeated loads of the same path return the same *Module.
type Loader struct {
	logger log.Logger
	gopath string

	mu     sync.Mutex
	interp *interp.Interpreter
	loaded map[string]*Module
}

// LoaderOption configures a Loader at construction time.
type LoaderOption func(*Loader)

// WithLogger sets the logger used to report resolution failures. Defaults to
// a no-op logger.
func WithLogger(logger log.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithGoPath makes source packages under gopath/src resolvable by import
// path, in addition to the standard library.
func WithGoPath(gopath string) LoaderOption {
	return func(l *Loader) {
		l.gopath = gopath
	}
}

// NewLoader creates a Loader with the standard library symbol table loaded.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		logger: log.NewNop(),
		loaded: make(map[string]*Module),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.interp = interp.New(interp.Options{GoPath: l.gopath})
	if err := l.interp.Use(stdlib.Symbols); err != nil {
		l.logger.Log(context.Background(), log.LevelWarn,
			"loading standard library symbols failed", log.Err(err))
	}

	return l
}

// loadConfig carries per-Load options.
type loadConfig struct {
	alias     string
	namespace *Namespace
	overwrite bool
}

// LoadOption configures a single Load call.
type LoadOption func(*loadConfig)

// As binds the module under the given alias instead of its last path segment.
func As(alias string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.alias = alias
	}
}

// Into binds the resolved module into the given namespace on success.
func Into(ns *Namespace) LoadOption {
	return func(cfg *loadConfig) {
		cfg.namespace = ns
	}
}

// Overwrite controls whether an existing namespace binding of the same name
// is replaced. Defaults to true.
func Overwrite(allow bool) LoadOption {
	return func(cfg *loadConfig) {
		cfg.overwrite = allow
	}
}

// Load resolves name, dot-separated ("encoding.json") or slash-separated
// ("encoding/json") and of arbitrary depth, to its deepest package and
// returns a live handle.
//
// On any resolution failure (unknown package, syntax error or failing
// initialization in its source) Load logs the cause at error level and
// returns nil, the absence sentinel; nothing is bound into the namespace in
// that case. Load never panics and never returns an error value.
func (l *Loader) Load(name string, opts ...LoadOption) *Module {
	cfg := loadConfig{overwrite: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	pkgPath, err := normalize(name)
	if err != nil {
		l.logError(name, err)
		return nil
	}

	module, err := l.resolve(pkgPath)
	if err != nil {
		l.logError(name, err)
		return nil
	}

	if cfg.namespace != nil {
		l.bind(&cfg, pkgPath, module)
	}

	return module
}

// bind places the resolved module into the namespace. For a nested path the
// top-level package is additionally bound under its own name, when it is
// itself resolvable; both bindings honor the overwrite flag.
func (l *Loader) bind(cfg *loadConfig, pkgPath string, module *Module) {
	if top, _, nested := strings.Cut(pkgPath, "/"); nested {
		if topModule, err := l.resolve(top); err == nil {
			cfg.namespace.Bind(top, topModule, cfg.overwrite)
		} else {
			l.logger.Log(context.Background(), log.LevelDebug,
				"top-level package not resolvable",
				log.String("package", top), log.Err(err))
		}
	}

	name := cfg.alias
	if name == "" {
		name = module.Name()
	}

	cfg.namespace.Bind(name, module, cfg.overwrite)
}

// resolve imports pkgPath into the interpreter, caching the handle. A panic
// inside the interpreter is converted to an error so it never escapes.
func (l *Loader) resolve(pkgPath string) (module *Module, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.loaded[pkgPath]; ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			module = nil
			err = fmt.Errorf("resolve %q: %v", pkgPath, r)
		}
	}()

	ident := identFor(pkgPath)
	if _, err := l.interp.Eval(fmt.Sprintf("import %s %q", ident, pkgPath)); err != nil {
		return nil, err
	}

	module = &Module{loader: l, path: pkgPath, ident: ident}
	l.loaded[pkgPath] = module

	return module, nil
}

func (l *Loader) logError(name string, err error) {
	l.logger.Log(context.Background(), log.LevelError, "module resolution failed",
		log.String("module", name), log.Err(err))
}

// Module is a live handle to a resolved package.
type Module struct {
	loader *Loader
	path   string
	ident  string
}

// Path returns the resolved package path, slash-separated.
func (m *Module) Path() string {
	return m.path
}

// Name returns the last segment of the package path.
func (m *Module) Name() string {
	return path.Base(m.path)
}

// Lookup resolves an exported symbol of the package and returns its value.
// A nil module (the absence sentinel) yields ErrNilModule.
func (m *Module) Lookup(symbol string) (reflect.Value, error) {
	if m == nil {
		return reflect.Value{}, ErrNilModule
	}

	if !validIdent(symbol) {
		return reflect.Value{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}

	m.loader.mu.Lock()
	defer m.loader.mu.Unlock()

	value, err := m.loader.interp.Eval(m.ident + "." + symbol)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("lookup %s.%s: %w", m.path, symbol, err)
	}

	return value, nil
}

// normalize converts a dotted module name to a package path. Names that
// already contain slashes are taken as package paths verbatim, since dots can
// be legitimate there (e.g. domain-qualified paths).
func normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty module name")
	}

	pkgPath := name
	if !strings.Contains(name, "/") {
		pkgPath = strings.ReplaceAll(name, ".", "/")
	}

	for _, segment := range strings.Split(pkgPath, "/") {
		if segment == "" {
			return "", fmt.Errorf("malformed module name %q", name)
		}
	}

	return pkgPath, nil
}

// identFor derives a collision-free interpreter identifier for a package path.
func identFor(pkgPath string) string {
	replacer := strings.NewReplacer("/", "_", ".", "_", "-", "_")
	return "pkg_" + replacer.Replace(pkgPath)
}

// validIdent reports whether s is a plain Go identifier.
func validIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}

	return true
}
