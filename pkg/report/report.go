// Package report writes the final scan snapshot to disk: one sorted
// host list per capability, plus the failure list. The engine itself
// performs no file I/O; everything here runs after the run has ended.
package report

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/modelscan"
)

const (
	ext        = ".txt"
	failedFile = "failed_hosts" + ext

	// Capability names are arbitrary strings; file names are not.
	maxNameLen = 45
)

var unsafeChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SafeName turns a capability name into a usable file-name component.
func SafeName(capability string) string {
	name := unsafeChars.ReplaceAllString(capability, "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ToLower(name)

	runes := []rune(name)
	if len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}
	return name
}

type Writer struct {
	// Directory the report files land in
	Dir string
}

// Write lays down the whole snapshot. Stale report files from earlier
// runs are cleared first so the directory always reflects exactly one
// run.
func (w *Writer) Write(snap modelscan.Snapshot) error {
	if err := w.prepare(); err != nil {
		return err
	}

	for capability, hosts := range snap.Index {
		fpath := filepath.Join(w.Dir, SafeName(capability)+ext)
		if err := w.writeHosts(fpath, hosts); err != nil {
			return errors.Wrapf(err, "failed to write report for %q", capability)
		}
	}

	if err := w.writeHosts(filepath.Join(w.Dir, failedFile), snap.Failed); err != nil {
		return errors.Wrap(err, "failed to write failure list")
	}

	log.Info().Str("dir", w.Dir).Int("capabilities", len(snap.Index)).
		Int("failed", len(snap.Failed)).Msg("reports written")
	return nil
}

func (w *Writer) prepare() error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create report directory")
	}

	stale, err := filepath.Glob(filepath.Join(w.Dir, "*"+ext))
	if err != nil {
		return errors.Wrap(err, "invalid report glob")
	}
	for _, fpath := range stale {
		if err := os.Remove(fpath); err != nil {
			return errors.Wrapf(err, "failed to clear stale report %s", fpath)
		}
	}
	return nil
}

func (w *Writer) writeHosts(fpath string, hosts []modelscan.HostKey) error {
	lines := make([]string, len(hosts))
	for i, host := range hosts {
		lines[i] = host.String()
	}
	return os.WriteFile(fpath, []byte(strings.Join(lines, "\n")), 0o644)
}
