package core

import (
	"path"
	"strings"
)

// DefaultExtension is used when a record carries no Extension field.
const DefaultExtension = "md"

var fileNameReplacer = strings.NewReplacer(
	"/", "-", "|", "-", `\`, "-", ":", "-", "'", "-", `"`, "-",
	"(", "-", ")", "-", "（", "-", "）", "-", "{", "-", "}", "-",
	"<", "-", ">", "-", ".", "-", "*", "-",
)

// SanitizeFileName replaces characters that are unsafe in note names with "-"
// and trims surrounding whitespace. Distinct titles may collide.
func SanitizeFileName(name string) string {
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// FolderPath returns root, or root/SubFolder when the record has one.
func FolderPath(root string, f Fields) string {
	if f.SubFolder == "" {
		return root
	}
	return root + "/" + f.SubFolder
}

// NotePath derives the vault path for a record.
func NotePath(root string, f Fields) string {
	ext := DefaultExtension
	if f.Extension != nil {
		ext = *f.Extension
	}
	return FolderPath(root, f) + "/" + SanitizeFileName(f.Title) + "." + ext
}

// IsDotPath reports whether p is hidden: it starts with "." or its final
// segment does. Such paths are written raw instead of modified. Notes inside
// a dot folder deeper in the vault are not hidden.
func IsDotPath(p string) bool {
	p = strings.TrimPrefix(p, "./")
	if p == "" {
		return false
	}
	return strings.HasPrefix(p, ".") || strings.HasPrefix(path.Base(p), ".")
}
