// Bundles a game directory into a .love archive (a plain zip file),
// with a transient launcher script.
package lovefile

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultLauncherName is the name of the launcher script.
const DefaultLauncherName = "launch_love.bat"

// Packager bundles directories. The zero value is ready to use.
type Packager struct {
	// LauncherName defaults to DefaultLauncherName.
	LauncherName string
}

func (p Packager) launcherName() string {
	if p.LauncherName == "" {
		return DefaultLauncherName
	}
	return p.LauncherName
}

// Launcher returns the content of the launcher script, which starts
// `loader` on the directory containing the script.
func Launcher(loader string) string {
	return fmt.Sprintf("@echo off\r\n\"%s\" \"%%~dp0\"\r\n", loader)
}

// Package writes the launcher script in `dir`, then archives every regular
// file of `dir` into `output`. Files named as the output archive, and the
// launcher itself, are excluded.
// The launcher is removed when Package returns, even on failure, and
// `output` is only created once the archive is complete.
func (p Packager) Package(dir, output, loader string) (err error) {
	if _, err = os.Stat(loader); err != nil {
		return fmt.Errorf("lovefile: invalid loader: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("lovefile: %s is not a directory", dir)
	}

	launcher := filepath.Join(dir, p.launcherName())
	if err = os.WriteFile(launcher, []byte(Launcher(loader)), 0o644); err != nil {
		return err
	}
	defer func() {
		if errR := os.Remove(launcher); errR != nil && err == nil {
			err = errR
		}
	}()

	files, err := p.collect(dir, filepath.Base(output))
	if err != nil {
		return err
	}
	return writeArchive(output, dir, files)
}

// collect returns the relative paths of the files to archive, sorted.
func (p Packager) collect(dir, archiveName string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if d.Name() == archiveName || rel == p.launcherName() {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	sort.Strings(files)
	return files, err
}

func addFile(zw *zip.Writer, dir, rel string) error {
	f, err := os.Open(filepath.Join(dir, rel))
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.ToSlash(rel)
	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// writeArchive goes through a temporary file, renamed on success.
func writeArchive(output, dir string, files []string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+"-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}

	zw := zip.NewWriter(tmp)
	for _, rel := range files {
		if err = addFile(zw, dir, rel); err != nil {
			return fmt.Errorf("lovefile: %s: %w", rel, err)
		}
	}
	if err = zw.Close(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), output)
}

// Package uses a default Packager.
func Package(dir, output, loader string) error {
	return Packager{}.Package(dir, output, loader)
}

// Contents lists the entries of an archive.
func Contents(archive string) ([]string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out := make([]string, len(r.File))
	for i, f := range r.File {
		out[i] = f.Name
	}
	return out, nil
}
