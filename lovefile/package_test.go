package lovefile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func fakeLoader(t *testing.T) string {
	loader := filepath.Join(t.TempDir(), "love.exe")
	writeFiles(t, filepath.Dir(loader), map[string]string{"love.exe": ""})
	return loader
}

func TestPackage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.lua":                  "print('hi')",
		"conf.lua":                  "",
		"data/territories.json":     "{}",
		"WaW_Game.love":             "stale archive",
		"data/old/WaW_Game.love":    "stale archive",
		"data/territories_ref.json": "{}",
	})
	output := filepath.Join(dir, "WaW_Game.love")
	if err := Package(dir, output, fakeLoader(t)); err != nil {
		t.Fatal(err)
	}

	got, err := Contents(output)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"conf.lua", "data/territories.json", "data/territories_ref.json", "main.lua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := os.Stat(filepath.Join(dir, DefaultLauncherName)); !os.IsNotExist(err) {
		t.Errorf("launcher should be removed, got %v", err)
	}
}

func TestPackageOutsideDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.lua": ""})
	output := filepath.Join(t.TempDir(), "game.love")
	p := Packager{LauncherName: "run.bat"}
	if err := p.Package(dir, output, fakeLoader(t)); err != nil {
		t.Fatal(err)
	}
	got, err := Contents(output)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"main.lua"}) {
		t.Errorf("unexpected contents %v", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(output))
	if len(entries) != 1 {
		t.Errorf("temporary files left: %v", entries)
	}
}

func TestPackageErrors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"main.lua": ""})

	output := filepath.Join(t.TempDir(), "game.love")
	if err := Package(dir, output, filepath.Join(dir, "missing.exe")); err == nil {
		t.Error("expected error for a missing loader")
	}

	// unwritable target: the launcher must still be removed
	output = filepath.Join(t.TempDir(), "missing", "game.love")
	if err := Package(dir, output, fakeLoader(t)); err == nil {
		t.Error("expected error for an invalid output")
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultLauncherName)); !os.IsNotExist(err) {
		t.Errorf("launcher should be removed, got %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("no archive should be written, got %v", err)
	}

	if err := Package(filepath.Join(dir, "main.lua"), output, fakeLoader(t)); err == nil {
		t.Error("expected error for a non directory source")
	}
}

func TestLauncher(t *testing.T) {
	got := Launcher(`C:\Program Files\LOVE\love.exe`)
	if want := "@echo off\r\n\"C:\\Program Files\\LOVE\\love.exe\" \"%~dp0\"\r\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
