package scaffold

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"autodevstack/internal/common/fsutil"
)

// StartScript runs the API and the Next.js dev server together.
const StartScript = `concurrently "npm:api" "npm:dev"`

// Dependencies are the npm packages every generated project pins.
var Dependencies = map[string]string{
	"next":           "^15.3.5",
	"react":          "^19.1.0",
	"react-dom":      "^19.1.0",
	"express":        "^5.1.0",
	"prisma":         "^6.11.1",
	"@prisma/client": "^6.11.1",
	"ts-node":        "^10.9.2",
	"typescript":     "^5.8.3",
	"dotenv":         "^17.2.0",
	"jest":           "^30.0.4",
}

// DevDependencies back the generated API tests.
var DevDependencies = map[string]string{
	"supertest": "^7.1.1",
}

// PackageJSON is the generated package manifest.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// WritePackageJSON writes package.json for a new project. The dev server is
// pinned to frontendPort when it is set.
func WritePackageJSON(projectDir, name string, frontendPort int) error {
	dev := "next dev"
	if frontendPort > 0 {
		dev = fmt.Sprintf("next dev -p %d", frontendPort)
	}
	pkg := PackageJSON{
		Name:    name,
		Version: "1.0.0",
		Scripts: map[string]string{
			"dev":  dev,
			"api":  "ts-node src/adapters/server.ts",
			"test": "jest",
		},
		Dependencies:    copyMap(Dependencies),
		DevDependencies: copyMap(DevDependencies),
	}
	b, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFile(filepath.Join(projectDir, "package.json"), string(b)+"\n")
}

// SetStartScript adds scripts.start to an existing package.json, keeping
// every other field.
func SetStartScript(projectDir string) error {
	path := filepath.Join(projectDir, "package.json")
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	scripts, _ := doc["scripts"].(map[string]any)
	if scripts == nil {
		scripts = map[string]any{}
	}
	scripts["start"] = StartScript
	doc["scripts"] = scripts
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, string(out)+"\n")
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
