package scaffold

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"autodevstack/internal/aiservice"
	"autodevstack/internal/execx"
	"autodevstack/internal/generator"
	"autodevstack/internal/ports"
)

const aiSchema = "Sure:\n```prisma\nmodel User {\n  id Int @id\n}\n\nmodel Post {\n  id Int @id\n}\n```"

type stubAI struct{ res aiservice.Result }

func (s stubAI) Call(context.Context, string, aiservice.Options) aiservice.Result { return s.res }

type fakeMigrator struct {
	resets, migrates int
	err              error
}

func (f *fakeMigrator) ResetMigrations(context.Context, string) { f.resets++ }
func (f *fakeMigrator) Migrate(context.Context, string) error {
	f.migrates++
	return f.err
}

func newOrchestrator(t *testing.T, m Migrator, find func(int, int) (int, error)) *Orchestrator {
	t.Helper()
	return New(Config{
		ProjectsDir:   filepath.Join(t.TempDir(), "projects"),
		AI:            stubAI{res: aiservice.Result{Role: "assistant", Content: aiSchema}},
		Generator:     generator.New("", zerolog.Nop()),
		Prisma:        m,
		BackendPorts:  Range{3001, 3999},
		FrontendPorts: Range{3000, 3999},
		Logger:        zerolog.Nop(),
		FindPort:      find,
		Now:           func() time.Time { return time.UnixMilli(1700000000000) },
	})
}

func fixedPorts(start, _ int) (int, error) { return start, nil }

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRunCreate(t *testing.T) {
	m := &fakeMigrator{}
	o := newOrchestrator(t, m, fixedPorts)
	p, err := o.RunCreate(context.Background(), Options{Spec: "blog", ProjectName: "blog"})
	require.NoError(t, err)

	require.Equal(t, 3001, p.BackendPort)
	require.Equal(t, 3000, p.FrontendPort)
	require.Equal(t, []string{"User", "Post"}, p.Models)
	require.Equal(t, 1, m.resets)
	require.Equal(t, 1, m.migrates)

	for _, d := range Layout {
		fi, err := os.Stat(filepath.Join(p.Dir, d))
		require.NoError(t, err)
		require.True(t, fi.IsDir())
	}
	require.Equal(t, "PORT=3001\n", readFile(t, filepath.Join(p.Dir, ".env")))
	require.Equal(t, "NEXT_PUBLIC_API_URL=http://localhost:3001\n", readFile(t, filepath.Join(p.Dir, "pages", ".env")))
	require.True(t, strings.HasPrefix(readFile(t, filepath.Join(p.Dir, "prisma", "schema.prisma")), "generator client"))

	for _, rel := range []string{
		"src/adapters/userRouter.ts",
		"src/adapters/postRouter.ts",
		"src/adapters/index.js",
		"src/adapters/user-api.test.ts",
		"src/adapters/post-api.test.ts",
		"src/adapters/server.ts",
		"src/components/UserList.tsx",
		"src/components/PostList.tsx",
		"pages/index.tsx",
		"package.json",
	} {
		require.FileExists(t, filepath.Join(p.Dir, filepath.FromSlash(rel)))
	}

	var pkg PackageJSON
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(p.Dir, "package.json"))), &pkg))
	require.Equal(t, "blog", pkg.Name)
	require.Equal(t, "next dev -p 3000", pkg.Scripts["dev"])
	require.Equal(t, "ts-node src/adapters/server.ts", pkg.Scripts["api"])
	require.Equal(t, "^5.1.0", pkg.Dependencies["express"])
}

func TestRunCreateFrontendAvoidsBackendPort(t *testing.T) {
	// 3000 is busy, so both scans would settle on 3001.
	find := func(start, end int) (int, error) {
		if start <= 3001 {
			return 3001, nil
		}
		return start, nil
	}
	p, err := newOrchestrator(t, &fakeMigrator{}, find).RunCreate(context.Background(), Options{Spec: "x", ProjectName: "x"})
	require.NoError(t, err)
	require.Equal(t, 3001, p.BackendPort)
	require.Equal(t, 3002, p.FrontendPort)
}

func TestRunCreatePortExhausted(t *testing.T) {
	find := func(start, end int) (int, error) { return 0, ports.ErrNoFreePort }
	_, err := newOrchestrator(t, &fakeMigrator{}, find).RunCreate(context.Background(), Options{Spec: "x", ProjectName: "x"})
	require.True(t, ports.IsNoFreePort(err), "got %v", err)
}

func TestRunCreateDefaultsName(t *testing.T) {
	p, err := newOrchestrator(t, &fakeMigrator{}, fixedPorts).RunCreate(context.Background(), Options{Spec: "x"})
	require.NoError(t, err)
	require.Equal(t, "project-1700000000000", p.Name)
}

func TestRunCreateSkipMigrate(t *testing.T) {
	m := &fakeMigrator{}
	_, err := newOrchestrator(t, m, fixedPorts).RunCreate(context.Background(), Options{Spec: "x", ProjectName: "x", SkipMigrate: true})
	require.NoError(t, err)
	require.Zero(t, m.resets)
	require.Zero(t, m.migrates)
}

func TestRunCreateMigrateFailureStops(t *testing.T) {
	m := &fakeMigrator{err: errors.New("db down")}
	p, err := newOrchestrator(t, m, fixedPorts).RunCreate(context.Background(), Options{Spec: "x", ProjectName: "x"})
	require.ErrorContains(t, err, "db down")
	require.NoFileExists(t, filepath.Join(p.Dir, "package.json"))
}

func TestRunCreateValidation(t *testing.T) {
	o := newOrchestrator(t, &fakeMigrator{}, fixedPorts)
	_, err := o.RunCreate(context.Background(), Options{})
	require.ErrorIs(t, err, ErrEmptySpec)
	_, err = o.RunCreate(context.Background(), Options{Spec: "x", DB: "mysql"})
	require.ErrorIs(t, err, ErrUnsupportedStack)
	_, err = o.RunCreate(context.Background(), Options{Spec: "x", ProjectName: "../evil"})
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestRunCreateDegradedAI(t *testing.T) {
	o := newOrchestrator(t, &fakeMigrator{}, fixedPorts)
	o.cfg.AI = stubAI{res: aiservice.Result{Role: "system", Content: "[AIService error]: nope"}}
	_, err := o.RunCreate(context.Background(), Options{Spec: "x", ProjectName: "x"})
	require.ErrorContains(t, err, "nope")
}

func TestRunGenerate(t *testing.T) {
	o := newOrchestrator(t, &fakeMigrator{}, fixedPorts)
	dir := filepath.Join(t.TempDir(), "app")
	_, err := o.RunGenerate(context.Background(), dir)
	require.ErrorIs(t, err, ErrNoSchema)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "prisma"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prisma", "schema.prisma"), []byte("model Tag {\n  id Int @id\n}\n"), 0o644))
	p, err := o.RunGenerate(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, []string{"Tag"}, p.Models)
	require.FileExists(t, filepath.Join(dir, "src", "adapters", "tagRouter.ts"))
	require.FileExists(t, filepath.Join(dir, "src", "components", "TagList.tsx"))
	require.FileExists(t, filepath.Join(dir, "src", "adapters", "tag-api.test.ts"))
}

type recordingRunner struct {
	calls []string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, c execx.Cmd) (execx.Result, error) {
	r.calls = append(r.calls, c.String())
	return execx.Result{}, r.err
}

func TestInstallerInstallAndStart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WritePackageJSON(dir, "demo", 0))

	r := &recordingRunner{}
	var started execx.Cmd
	in := NewInstaller(r, zerolog.Nop())
	in.StartDetached = func(c execx.Cmd) (*exec.Cmd, error) {
		started = c
		return nil, nil
	}
	require.NoError(t, in.Install(context.Background(), dir))
	require.Equal(t, []string{"npm install concurrently", "npm install"}, r.calls)

	require.NoError(t, in.Start(dir))
	require.Equal(t, "npm run start", started.String())
	require.Equal(t, dir, started.Dir)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "package.json"))), &doc))
	scripts := doc["scripts"].(map[string]any)
	require.Equal(t, StartScript, scripts["start"])
	require.Equal(t, "next dev", scripts["dev"])
	require.Equal(t, "demo", doc["name"])
}

func TestInstallerStopsAtFirstFailure(t *testing.T) {
	r := &recordingRunner{err: errors.New("offline")}
	err := NewInstaller(r, zerolog.Nop()).Install(context.Background(), t.TempDir())
	require.ErrorContains(t, err, "offline")
	require.Len(t, r.calls, 1)
}
