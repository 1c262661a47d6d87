// Package migrations embeds the schema and applies it statement by statement.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

// Apply runs every embedded migration in file-name order. The statements are
// idempotent, so Apply may run on every start.
func Apply(ctx context.Context, db *pgxpool.Pool) error {
	script, err := Script()
	if err != nil {
		return err
	}
	for _, stmt := range Statements(script) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

// Script concatenates the embedded migrations in file-name order.
func Script() (string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return "", err
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var createTable = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-z0-9_]+)`)

// Tables lists the tables the migrations create.
func Tables() ([]string, error) {
	script, err := Script()
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, m := range createTable.FindAllStringSubmatch(script, -1) {
		tables = append(tables, m[1])
	}
	return tables, nil
}

// Statements strips "--" line comments and splits the script on semicolons.
func Statements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var stmts []string
	for _, part := range strings.Split(b.String(), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
