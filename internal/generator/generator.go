// Package generator emits project sources (Prisma schema, Express routers,
// React list views, API tests) by substituting model names into templates.
package generator

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"autodevstack/internal/aiservice"
	"autodevstack/internal/common/fsutil"
	"autodevstack/internal/prompts"
	"autodevstack/pkg/types"
)

// Template names, as found in the embedded set or the override directory.
const (
	TemplateCrud          = "express-crud.ts.txt"
	TemplateTest          = "user-api.test.ts.txt"
	TemplateList          = "UserList.tsx.txt"
	TemplateServer        = "server.ts.txt"
	TemplateIndexPage     = "index.tsx.txt"
	TemplateAdaptersIndex = "adapters-index.js.txt"
)

//go:embed templates/*.txt
var builtin embed.FS

var (
	modelPattern = regexp.MustCompile(`model (\w+) \{`)
	fencePattern = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n(.*?)```")
)

var filesWritten = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "autodevstack",
		Subsystem: "scaffold",
		Name:      "files_written_total",
		Help:      "Generated files by kind",
	},
	[]string{"kind"},
)

func init() {
	prometheus.MustRegister(filesWritten)
}

// Generator renders templates into a project directory.
type Generator struct {
	// TemplatesDir, when set, shadows the embedded templates file by file.
	TemplatesDir string
	Log          zerolog.Logger
}

// New returns a Generator reading overrides from templatesDir.
func New(templatesDir string, log zerolog.Logger) *Generator {
	return &Generator{TemplatesDir: templatesDir, Log: log}
}

// ParseModels returns the model names declared in a Prisma schema, in order.
func ParseModels(schema string) []string {
	var out []string
	for _, m := range modelPattern.FindAllStringSubmatch(schema, -1) {
		out = append(out, m[1])
	}
	return out
}

// ExtractCode returns the body of the first fenced code block in s and true.
// Without a block (inline backticks do not count) it returns s trimmed and
// false.
func ExtractCode(s string) (string, bool) {
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return strings.TrimSpace(s), false
}

// GenerateSchema asks the AI service for a Prisma schema describing spec.
func GenerateSchema(ctx context.Context, ai aiservice.Caller, spec string) (string, error) {
	res := ai.Call(ctx, prompts.PrismaSchema(spec), aiservice.Options{Task: types.TaskTextGeneration})
	if res.Degraded() {
		return "", fmt.Errorf("schema generation: %s", res.Content)
	}
	schema, fenced := ExtractCode(res.Content)
	if schema == "" {
		return "", errors.New("schema generation: empty reply")
	}
	// An unfenced reply is only taken as a schema when it declares models.
	if !fenced && len(ParseModels(schema)) == 0 {
		return "", errors.New("schema generation: reply has neither a code block nor model declarations")
	}
	return schema, nil
}

// Template returns the named template, preferring the override directory.
func (g *Generator) Template(name string) (string, error) {
	if g.TemplatesDir != "" {
		b, err := os.ReadFile(filepath.Join(g.TemplatesDir, name))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("read template %s: %w", name, err)
		}
	}
	b, err := builtin.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("unknown template %s: %w", name, err)
	}
	return string(b), nil
}

// GenerateCrud writes src/adapters/<model>Router.ts for every model.
func (g *Generator) GenerateCrud(schema, projectDir string) ([]string, error) {
	return g.perModel(schema, TemplateCrud, "router", func(model string) string {
		return filepath.Join(projectDir, "src", "adapters", strings.ToLower(model)+"Router.ts")
	})
}

// GenerateTests writes src/adapters/<model>-api.test.ts for every model.
func (g *Generator) GenerateTests(schema, projectDir string) ([]string, error) {
	return g.perModel(schema, TemplateTest, "test", func(model string) string {
		return filepath.Join(projectDir, "src", "adapters", strings.ToLower(model)+"-api.test.ts")
	})
}

// GenerateComponents writes src/components/<Model>List.tsx for every model.
func (g *Generator) GenerateComponents(schema, projectDir string) ([]string, error) {
	return g.perModel(schema, TemplateList, "component", func(model string) string {
		return filepath.Join(projectDir, "src", "components", model+"List.tsx")
	})
}

// WriteAdaptersIndex writes the router loader src/adapters/index.js.
func (g *Generator) WriteAdaptersIndex(projectDir string) (string, error) {
	return g.copyTemplate(TemplateAdaptersIndex, "index", filepath.Join(projectDir, "src", "adapters", "index.js"))
}

// WriteServer writes the Express entry point src/adapters/server.ts.
func (g *Generator) WriteServer(projectDir string) (string, error) {
	return g.copyTemplate(TemplateServer, "server", filepath.Join(projectDir, "src", "adapters", "server.ts"))
}

// WriteIndexPage writes the Next.js landing page pages/index.tsx.
func (g *Generator) WriteIndexPage(projectDir string) (string, error) {
	return g.copyTemplate(TemplateIndexPage, "page", filepath.Join(projectDir, "pages", "index.tsx"))
}

func (g *Generator) perModel(schema, tmplName, kind string, outPath func(model string) string) ([]string, error) {
	models := ParseModels(schema)
	if len(models) == 0 {
		return nil, nil
	}
	tmpl, err := g.Template(tmplName)
	if err != nil {
		return nil, err
	}
	var written []string
	for _, model := range models {
		p := outPath(model)
		if err := fsutil.WriteFile(p, substitute(tmpl, model)); err != nil {
			return written, err
		}
		filesWritten.WithLabelValues(kind).Inc()
		g.Log.Info().Str("model", model).Str("path", p).Msgf("generated %s", kind)
		written = append(written, p)
	}
	return written, nil
}

func (g *Generator) copyTemplate(tmplName, kind, path string) (string, error) {
	tmpl, err := g.Template(tmplName)
	if err != nil {
		return "", err
	}
	if err := fsutil.WriteFile(path, tmpl); err != nil {
		return "", err
	}
	filesWritten.WithLabelValues(kind).Inc()
	g.Log.Debug().Str("path", path).Msgf("wrote %s", kind)
	return path, nil
}

// substitute renames the User placeholder model. The Prisma client accessor
// is lowerCamelCase while file names and routes use the all-lowercase form.
func substitute(tmpl, model string) string {
	return strings.NewReplacer(
		"prisma.user", "prisma."+lowerFirst(model),
		"User", model,
		"user", strings.ToLower(model),
	).Replace(tmpl)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
