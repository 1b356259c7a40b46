package mysql

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const serverSection = "mysqld"

// SetBindAddress sets bind-address in the [mysqld] section of an option file.
// Existing lines are rewritten in place (bind_address spelling included); the
// section is created when missing. It reports whether content changed.
func SetBindAddress(content, addr string) (string, bool) {
	want := "bind-address=" + addr
	lines := strings.Split(content, "\n")
	trailingNewline := strings.HasSuffix(content, "\n")
	if trailingNewline || content == "" {
		lines = lines[:len(lines)-1]
	}

	section := ""
	sectionEnd := -1
	found := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if section == serverSection && sectionEnd < 0 {
				sectionEnd = i
			}
			section = strings.ToLower(strings.Trim(trimmed, "[]"))
			continue
		}
		if section != serverSection || !isBindAddress(trimmed) {
			continue
		}
		found = true
		lines[i] = want
	}

	if !found {
		switch {
		case section == serverSection && sectionEnd < 0:
			lines = append(lines, want)
		case sectionEnd >= 0:
			for sectionEnd > 0 && strings.TrimSpace(lines[sectionEnd-1]) == "" {
				sectionEnd--
			}
			lines = append(lines[:sectionEnd], append([]string{want}, lines[sectionEnd:]...)...)
		default:
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) != "" {
				lines = append(lines, "")
			}
			lines = append(lines, "["+serverSection+"]", want)
		}
	}

	updated := strings.Join(lines, "\n")
	if trailingNewline || !found {
		updated += "\n"
	}
	return updated, updated != content
}

func isBindAddress(line string) bool {
	if strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
		return false
	}
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return false
	}
	key = strings.ReplaceAll(strings.TrimSpace(key), "_", "-")
	return key == "bind-address"
}

// UpdateBindAddress rewrites path when its bind-address differs from addr
func UpdateBindAddress(path, addr string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated, changed := SetBindAddress(string(data), addr)
	if !changed {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
