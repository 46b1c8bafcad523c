// Package source loads documents for comparison from local files, standard
// input, plain HTTP endpoints and git hosting providers.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/structdiff/structdiff/diff"
)

const (
	// FormatJSON decodes documents with encoding/json.
	FormatJSON = "json"
	// FormatYAML decodes documents with yaml.v3 and canonicalizes the result.
	FormatYAML = "yaml"
)

// Options adjust how Load resolves and decodes a document argument.
type Options struct {
	// Ref selects the commit, branch or tag for repository sources. Empty
	// means "main".
	Ref string
	// Path is the in-repository file path for repository sources.
	Path string
	// Format forces a decode format instead of detecting one from the file
	// extension.
	Format string
	// Logger receives download and decode progress at debug level.
	Logger zerolog.Logger
}

// Load resolves arg into a decoded document. "-" reads standard input,
// http(s):// URLs are fetched with a plain GET, github:// and gitlab:// URLs
// download a single repository file, and anything else is read from the local
// filesystem.
func Load(ctx context.Context, arg string, opts Options) (any, error) {
	doc, err := load(ctx, arg, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug().
		Str("source", arg).
		Str("kind", diff.KindOf(doc).String()).
		Msg("loaded document")
	return doc, nil
}

func load(ctx context.Context, arg string, opts Options) (any, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return Decode(data, formatFor("", opts))
	}

	u, err := url.Parse(arg)
	if err != nil {
		return LoadFile(arg, opts)
	}

	switch u.Scheme {
	case "http", "https":
		data, err := fetchURL(ctx, arg, opts.Logger)
		if err != nil {
			return nil, err
		}
		return Decode(data, formatFor(u.Path, opts))
	case "github":
		src, err := newGithubSource(u, opts.Logger)
		if err != nil {
			return nil, err
		}
		return loadRepo(ctx, src, opts)
	case "gitlab":
		src, err := newGitlabSource(u, opts.Logger)
		if err != nil {
			return nil, err
		}
		return loadRepo(ctx, src, opts)
	case "file":
		return LoadFile(strings.TrimPrefix(arg, "file:"), opts)
	default:
		return LoadFile(arg, opts)
	}
}

func loadRepo(ctx context.Context, src repoSource, opts Options) (any, error) {
	if opts.Path == "" {
		return nil, errors.New("repository sources need a file path, set one with --path")
	}
	ref := opts.Ref
	if ref == "" {
		ref = "main"
	}
	data, err := fetchRepo(ctx, src, ref, opts.Path)
	if err != nil {
		return nil, err
	}
	return Decode(data, formatFor(opts.Path, opts))
}

// LoadFile reads and decodes a single document from the filesystem.
func LoadFile(path string, opts Options) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Decode(data, formatFor(path, opts))
}

// LoadDir decodes every JSON and YAML document directly under dir, keyed by
// file name, for grouped comparison with diff.CompareDocs.
func LoadDir(dir string, opts Options) (map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read document directory: %w", err)
	}

	docs := make(map[string]any, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		doc, err := LoadFile(filepath.Join(dir, name), opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		docs[name] = doc
	}
	return docs, nil
}

// Decode unmarshals data according to format. YAML documents are
// canonicalized to the JSON value domain, numbers become float64 and mapping
// keys become strings, so documents compare consistently across formats.
func Decode(data []byte, format string) (any, error) {
	switch format {
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode YAML document: %w", err)
		}
		return canonicalize(doc), nil
	case FormatJSON, "":
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode JSON document: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}
}

// DetectFormat picks a decode format from a file extension. Everything that
// is not YAML decodes as JSON.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func formatFor(path string, opts Options) string {
	if opts.Format != "" {
		return opts.Format
	}
	return DetectFormat(path)
}

// canonicalize rewrites a decoded YAML value into the shapes encoding/json
// produces. Scalars outside the JSON domain pass through untouched.
func canonicalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			out[key] = canonicalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for key, item := range val {
			out[fmt.Sprint(key)] = canonicalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = canonicalize(item)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return v
	}
}
