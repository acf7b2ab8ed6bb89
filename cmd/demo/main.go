// Command demo drives a vlist.List against a synthetic 50,000-row dataset in
// a real terminal: arrow keys and the mouse wheel scroll, Enter selects,
// Ctrl-Q quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v3"
	"github.com/pkg/profile"
	"golang.org/x/term"

	vlist "github.com/floor/vlist"
)

func main() {
	cpuProfile := flag.Bool("cpuprofile", false, "record a CPU profile to./cpu.pprof for the duration of the run")
	rows := flag.Int("rows", 50_000, "number of synthetic rows to serve")
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "demo: stdout is not a terminal")
		os.Exit(1)
	}

	if err := run(*rows); err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
}

func run(rowCount int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	cfg := vlist.DefaultConfig(vlist.NewStaticAdapter(syntheticItems(rowCount)))
	cfg.Virtual.ItemSize = 1
	cfg.Virtual.Overscan = 10
	cfg.Virtual.MaxScroll = rowCount
	cfg.Selection.Enabled = true
	cfg.Selection.Mode = vlist.SelectionSingle
	cfg.Stats.Elements = map[string]string{"footer-stats": "{shown} of {total}"}
	cfg.Layout = vlist.LayoutNode{Name: "root", Children: []vlist.LayoutNode{
		{Name: "viewport"},
		{Name: "footer-stats"},
	}}

	list, err := vlist.New(termTemplate, cfg)
	if err != nil {
		return err
	}
	defer list.Destroy()

	w, h := screen.Size()
	view := newView(list, screen, w, h)
	view.resize(w, h)
	if err := list.Load(context.Background()); err != nil {
		view.status = err.Error()
	}
	view.draw()

	for {
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			w, h := screen.Size()
			view.resize(w, h)
			screen.Sync()
		case *tcell.EventKey:
			if view.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			view.handleMouse(ev)
		}
		view.draw()
	}
}
