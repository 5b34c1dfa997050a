package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

	// Both sqlite and postgres run the same files, so driver-specific
	// syntax is rejected.
	nonPortable = map[string]*regexp.Regexp{
		"postgres cast":      regexp.MustCompile(`::\w`),
		"serial column":      regexp.MustCompile(`(?i)\b(big)?serial\b`),
		"uuid generator":     regexp.MustCompile(`(?i)gen_random_uuid\(`),
		"enum type":          regexp.MustCompile(`(?i)create\s+type\b`),
		"sqlite autoinc":     regexp.MustCompile(`(?i)\bautoincrement\b`),
		"postgres jsonb":     regexp.MustCompile(`(?i)\bjsonb\b`),
		"postgres timestamp": regexp.MustCompile(`(?i)\btimestamptz\b`),
	}
)

// ValidateDir validates the migrations in an on-disk directory.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateEmbedded validates the migrations compiled into the binary.
func ValidateEmbedded() error {
	return ValidateFS(embedded, embeddedDir)
}

// ValidateFS checks migration filenames, goose headers and portability.
func ValidateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
		for label, re := range nonPortable {
			if re.MatchString(txt) {
				return fmt.Errorf("migration %q uses non-portable syntax (%s)", name, label)
			}
		}
	}

	return nil
}
