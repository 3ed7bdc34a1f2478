package prompts

import (
	"strings"
	"testing"
)

func TestDebugFix(t *testing.T) {
	p := DebugFix("const a = 1", "TypeError: x")
	for _, want := range []string{"[CODE CONTEXT]\nconst a = 1\n", "[ERROR]\nTypeError: x\n", "FIX:\n```typescript"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestPrismaSchemaQuotesDescription(t *testing.T) {
	p := PrismaSchema(`blog with "posts"`)
	if !strings.Contains(p, `Description: "blog with \"posts\""`) {
		t.Fatalf("unexpected prompt: %s", p)
	}
	if !strings.Contains(p, "PostgreSQL Prisma") {
		t.Fatalf("missing instruction: %s", p)
	}
}
