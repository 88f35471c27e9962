// Package console renders the interactive surface: banner, in-place
// progress line, final summary. Nothing here feeds back into the scan.
package console

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/modelscan"
)

var frames = []string{
	"scanning",
	"scanning.",
	"scanning..",
	"scanning...",
}

var (
	header  = color.New(color.FgCyan, color.Bold)
	accent  = color.New(color.FgYellow)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	subdued = color.New(color.Faint)
)

func Banner(version string) {
	header.Println("modelscan - inference node hunter")
	subdued.Printf("version %s\n\n", version)
}

// Renderer keeps the rotating frame for the progress line.
type Renderer struct {
	frame int
}

// Progress redraws the one-line status. Safe to call from the monitor
// goroutine; the scan never waits on it.
func (r *Renderer) Progress(p modelscan.Progress) {
	frame := frames[r.frame%len(frames)]
	r.frame++
	fmt.Printf("\r%s %d/%d hosts | %d capabilities",
		accent.Sprint(frame), p.Scanned, p.Total, p.Capabilities)
}

func Summary(rep *modelscan.Report) {
	fmt.Println()
	if rep.Cancelled {
		bad.Println("scan cancelled, partial results kept")
	}

	valid := 0
	for _, hosts := range rep.Index {
		valid += len(hosts)
	}

	good.Printf("capabilities: %d (%d host entries)\n", len(rep.Index), valid)
	bad.Printf("failed hosts: %d\n", len(rep.Failed))
	subdued.Printf("scanned %d/%d distinct hosts, %d targets dropped at parse\n",
		rep.Scanned, rep.Total, rep.Dropped)
}
