package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ScriptsFS holds the tengo input scripts that drive scripted scenes.
//
//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// PrefabsFS holds the player tuning and scene files.
//
//go:embed *.yaml
var PrefabsFS embed.FS

// DiskDir is checked before the embedded files so tuning can be edited
// without rebuilding.
var DiskDir = "prefabs"

// LoadScript reads a scene input script. name may omit the scripts/ prefix
// and the .tengo extension.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// Load reads a player tuning or scene file. name may omit the .yaml
// extension.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// ModTime reports when the disk copy of name last changed. ok is false for
// files that only exist embedded.
func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	info, err := os.Stat(diskPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// cleanPrefabPath maps a scene or player name to its file under prefabs/.
// A bare name like "hover" gets the .yaml extension.
func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPath(clean string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(clean))
}
