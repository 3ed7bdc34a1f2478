// Package prompts holds the LLM prompt templates.
package prompts

import "fmt"

// DebugFix asks for a corrected version of code given the error log.
func DebugFix(code, errLog string) string {
	return fmt.Sprintf("\n[CODE CONTEXT]\n%s\n\n[ERROR]\n%s\n\nAnswer:\nFILE: src/app.ts\nFIX:\n```typescript\n// fixed code\n```\n", code, errLog)
}

// PrismaSchema asks for a PostgreSQL Prisma schema matching description.
func PrismaSchema(description string) string {
	return fmt.Sprintf("\nDescription: %q\nGenerate a PostgreSQL Prisma model with relations and indexes. "+
		"Reply with the schema in a single ```prisma code block.\n", description)
}
