package esbuild_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/extbuild/internal/adapters/esbuild"
	"go.trai.ch/extbuild/internal/core/domain"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func moduleTask(t *testing.T, category, entry string, files map[string]string) domain.BuildTask {
	t.Helper()
	root := t.TempDir()
	c, ok := domain.DefaultCategories().Lookup(category)
	require.True(t, ok)

	moduleRoot := filepath.Join(root, "src", c.Plural, "demo")
	writeFiles(t, moduleRoot, files)
	lang, ok := domain.ClassifyLanguage(entry)
	require.True(t, ok)

	return domain.BuildTask{
		SourcePath: filepath.Join(moduleRoot, entry),
		OutputPath: filepath.Join(root, "out", c.Plural, "demo", "index.js"),
		ModuleRoot: moduleRoot,
		Module:     "demo",
		Category:   c,
		Language:   lang,
		Label:      c.Name + "/demo",
	}
}

func compileOnce(t *testing.T, task domain.BuildTask, cfg *domain.CompilerConfig) domain.CompileResult {
	t.Helper()
	session, err := esbuild.New().Open(context.Background(), task, cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, session.Close()) }()
	return session.Compile(context.Background())
}

func readOutput(t *testing.T, task domain.BuildTask) string {
	t.Helper()
	out, err := os.ReadFile(task.OutputPath)
	require.NoError(t, err)
	return string(out)
}

func TestCompile_AppProfileKeepsSharedDepsExternal(t *testing.T) {
	task := moduleTask(t, "panel", "index.ts", map[string]string{
		"index.ts": `import { ref } from "vue";
import { label } from "./label";
export default { id: "demo", setup() { return ref(label as string); } };
`,
		"label.ts": `export const label = "Demo panel";`,
	})

	res := compileOnce(t, task, &domain.CompilerConfig{})
	require.False(t, res.Failed(), res.Summary())

	out := readOutput(t, task)
	assert.Contains(t, out, `from"vue"`)
	assert.Contains(t, out, "Demo panel")
	assert.Equal(t, []string{
		filepath.Join(task.ModuleRoot, "index.ts"),
		filepath.Join(task.ModuleRoot, "label.ts"),
	}, res.Inputs)
}

func TestCompile_APIProfileIsCommonJS(t *testing.T) {
	task := moduleTask(t, "hook", "index.js", map[string]string{
		"index.js": `export default ({ action }) => { action("items.create", () => process.env.NODE_ENV); };`,
	})

	res := compileOnce(t, task, nil)
	require.False(t, res.Failed(), res.Summary())

	out := readOutput(t, task)
	assert.Contains(t, out, "module.exports")
	assert.Contains(t, out, "module.exports = module.exports.default || module.exports;")
	assert.Contains(t, out, `"production"`)
	assert.NotContains(t, out, "process.env.NODE_ENV")
}

func TestCompile_SyntaxErrorIsReported(t *testing.T) {
	task := moduleTask(t, "panel", "index.js", map[string]string{
		"index.js": "export default {\n  id: 'demo',\n  broken: ,\n};\n",
	})

	res := compileOnce(t, task, nil)
	require.True(t, res.Failed())
	require.Len(t, res.Errors, 1)

	e := res.Errors[0]
	assert.Equal(t, filepath.Join(task.ModuleRoot, "index.js"), e.File)
	assert.Equal(t, 3, e.Line)
	assert.Equal(t, 11, e.Column)
	assert.Contains(t, e.Frame, "broken: ,")
	assert.NoFileExists(t, task.OutputPath)
}

func TestCompile_UnresolvedImport(t *testing.T) {
	task := moduleTask(t, "panel", "index.js", map[string]string{
		"index.js": `import missing from "./missing"; export default missing;`,
	})

	res := compileOnce(t, task, nil)
	require.True(t, res.Failed())
	assert.Contains(t, res.Summary(), `Could not resolve "./missing"`)
}

func TestCompile_RebuildPicksUpChanges(t *testing.T) {
	task := moduleTask(t, "panel", "index.js", map[string]string{
		"index.js": `export default "first";`,
	})

	session, err := esbuild.New().Open(context.Background(), task, nil)
	require.NoError(t, err)
	defer session.Close()

	require.False(t, session.Compile(context.Background()).Failed())
	assert.Contains(t, readOutput(t, task), "first")

	writeFiles(t, task.ModuleRoot, map[string]string{
		"index.js": `import extra from "./extra"; export default "second" + extra;`,
		"extra.js": `export default "!";`,
	})
	res := session.Compile(context.Background())
	require.False(t, res.Failed(), res.Summary())
	assert.Contains(t, readOutput(t, task), "second")
	assert.Contains(t, res.Inputs, filepath.Join(task.ModuleRoot, "extra.js"))
}

func TestCompile_ManifestMismatch(t *testing.T) {
	files := map[string]string{
		"index.js":     `export default {};`,
		"package.json": `{"name": "demo", "directus:extension": {"type": "interface"}}`,
	}

	t.Run("fails by default", func(t *testing.T) {
		task := moduleTask(t, "panel", "index.js", files)
		res := compileOnce(t, task, nil)
		require.True(t, res.Failed())
		assert.Contains(t, res.Errors[0].Message, domain.ErrManifestMismatch.Error())
		assert.Equal(t, "extbuild:manifest", res.Errors[0].Plugin)
	})

	t.Run("force bypasses the check", func(t *testing.T) {
		task := moduleTask(t, "panel", "index.js", files)
		res := compileOnce(t, task, &domain.CompilerConfig{Force: true})
		assert.False(t, res.Failed(), res.Summary())
	})

	t.Run("matching type passes", func(t *testing.T) {
		task := moduleTask(t, "interface", "index.js", files)
		res := compileOnce(t, task, nil)
		assert.False(t, res.Failed(), res.Summary())
	})
}

func TestCompile_Plugins(t *testing.T) {
	task := moduleTask(t, "panel", "index.js", map[string]string{
		"index.js":    `import icon from "./icon.svg"; import lib from "@lib/util"; export default icon + lib + __VERSION__;`,
		"icon.svg":    `<svg id="demo-icon"></svg>`,
		"lib/util.js": `export default "util-marker";`,
	})
	cfg := &domain.CompilerConfig{Plugins: []domain.PluginSpec{
		{Name: "svg", Loader: map[string]string{".svg": "text"}},
		{Name: "env", Define: map[string]string{"__VERSION__": `"v-first"`}, Banner: "/* banner-one */"},
		{
			Name:   "overrides",
			Define: map[string]string{"__VERSION__": `"v-second"`},
			Alias:  map[string]string{"@lib/util": "./lib/util.js"},
			Banner: "/* banner-two */",
		},
	}}

	res := compileOnce(t, task, cfg)
	require.False(t, res.Failed(), res.Summary())

	out := readOutput(t, task)
	assert.Contains(t, out, "demo-icon")
	assert.Contains(t, out, "util-marker")
	assert.Contains(t, out, "v-second")
	assert.NotContains(t, out, "v-first")
	assert.Contains(t, out, "/* banner-one */\n/* banner-two */")
}

func TestCompile_SingleFileModule(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(root, "src", "hooks", "audit.ts")
	// A sibling manifest is not consulted for single files.
	writeFiles(t, filepath.Dir(source), map[string]string{
		"audit.ts":     `export default (): string => "audit";`,
		"package.json": `{"directus:extension": {"type": "panel"}}`,
	})
	hook, _ := domain.DefaultCategories().Lookup("hook")
	task := domain.BuildTask{
		SourcePath: source,
		OutputPath: filepath.Join(root, "out", "hooks", "audit.js"),
		ModuleRoot: source,
		Module:     "audit.ts",
		Category:   hook,
		Language:   domain.LanguageTypeScript,
		Label:      "hook/audit.ts",
	}

	res := compileOnce(t, task, nil)
	require.False(t, res.Failed(), res.Summary())
	assert.FileExists(t, task.OutputPath)
}

func TestCompile_CanceledContext(t *testing.T) {
	task := moduleTask(t, "panel", "index.js", map[string]string{"index.js": `export default 1;`})
	session, err := esbuild.New().Open(context.Background(), task, nil)
	require.NoError(t, err)
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, session.Compile(ctx).Failed())
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	task := moduleTask(t, "panel", "index.js", map[string]string{"index.js": `export default 1;`})
	session, err := esbuild.New().Open(context.Background(), task, nil)
	require.NoError(t, err)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
}
