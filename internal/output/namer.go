// Package output names and writes generated presentations.
package output

import (
	"path/filepath"
	"strings"

	"sheetDeck/internal/fields"

	"golang.org/x/text/unicode/norm"
)

const Extension = ".pptx"

// Naming selects the fields that name a record's output and their fallbacks.
type Naming struct {
	FolderField   string
	FileField     string
	DefaultFolder string
	DefaultFile   string
}

// DefaultNaming uses "Folder Name" and "Case Study Name", falling back to
// "Default" and "Slide".
func DefaultNaming() Naming {
	return Naming{
		FolderField:   "Folder Name",
		FileField:     "Case Study Name",
		DefaultFolder: "Default",
		DefaultFile:   "Slide",
	}
}

// Resolve returns the output directory and file path for fs under base.
func (n Naming) Resolve(fs fields.FieldSet, base string) (dir, file string) {
	folder := cleanName(fs.Text(n.FolderField), n.DefaultFolder)
	name := cleanName(fs.Text(n.FileField), n.DefaultFile)

	dir = filepath.Join(base, folder)
	return dir, filepath.Join(dir, name+Extension)
}

// cleanName trims and NFC-normalizes a name and keeps it to one path
// element. Blank, "." and ".." names fall back to def.
func cleanName(name, def string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r < 0x20 {
			return '_'
		}
		return r
	}, name)

	if name == "" || name == "." || name == ".." {
		return def
	}
	return name
}
