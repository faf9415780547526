// internal/app/commands.go
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inkmark/internal/document"
	"inkmark/internal/logger"
)

// CommandFunc is the signature for ":" commands.
type CommandFunc func(args []string) error

// executeCommand parses and runs one command line.
func (a *App) executeCommand(cmdStr string) {
	cmdStr = strings.TrimSpace(cmdStr)
	if cmdStr == "" {
		return
	}
	parts := strings.Fields(cmdStr)
	cmdName := parts[0]
	args := parts[1:]

	cmdFunc, exists := a.commands[cmdName]
	if !exists {
		a.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}
	logger.Debugf("app: executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		a.statusBar.SetTemporaryMessage("%s: %v", cmdName, err)
	}
}

func (a *App) registerCommands() {
	a.commands["w"] = func(args []string) error {
		if len(args) > 0 {
			return a.ed.SaveToFile(args[0])
		}
		return a.ed.Save()
	}
	a.commands["wq"] = func(args []string) error {
		if err := a.commands["w"](args); err != nil {
			return err
		}
		a.signalQuit()
		return nil
	}
	a.commands["q"] = func(args []string) error {
		if a.ed.Dirty() {
			return fmt.Errorf("unsaved changes (use :q! to discard)")
		}
		a.signalQuit()
		return nil
	}
	a.commands["q!"] = func(args []string) error {
		a.signalQuit()
		return nil
	}

	a.commands["open"] = func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: open <file.pdf>")
		}
		return a.ed.Load(context.Background(), document.FileSource{Path: args[0]})
	}
	a.commands["new"] = func(args []string) error {
		return a.ed.NewBlank(context.Background())
	}
	a.commands["export"] = func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: export <file.pdf>")
		}
		return a.ed.SaveToFile(args[0])
	}

	a.commands["convert"] = func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: convert <file.docx>")
		}
		blob, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		return a.ed.ImportConverted(context.Background(), name, blob)
	}
	a.commands["docx"] = func(args []string) error {
		return a.ed.OpenDocxEditor()
	}

	a.commands["zoom"] = func(args []string) error {
		if len(args) == 0 {
			a.statusBar.SetTemporaryMessage("Zoom: %.0f%%", a.ed.Zoom()*100)
			return nil
		}
		// Accepts a factor ("1.5") or a percentage ("150%").
		raw := strings.TrimSuffix(args[0], "%")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("bad zoom %q", args[0])
		}
		if strings.HasSuffix(args[0], "%") || v > 10 {
			v /= 100
		}
		a.ed.SetZoom(v)
		return nil
	}
	a.commands["goto"] = func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: goto <page>")
		}
		page, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad page %q", args[0])
		}
		if a.ed.Surface(page) == nil {
			return fmt.Errorf("no page %d", page)
		}
		a.gotoPage(page)
		return nil
	}

	a.commands["theme"] = func(args []string) error {
		if len(args) == 0 {
			a.statusBar.SetTemporaryMessage("Current theme: %s", a.themeManager.Current().Name)
			return nil
		}
		name := strings.Join(args, " ")
		if err := a.themeManager.SetTheme(name); err != nil {
			return fmt.Errorf("%w. Available: %s", err, strings.Join(a.themeManager.ListThemes(), ", "))
		}
		a.statusBar.SetTemporaryMessage("Theme set to: %s", name)
		return nil
	}
	a.commands["themes"] = func(args []string) error {
		a.statusBar.SetTemporaryMessage("Available themes: %s", strings.Join(a.themeManager.ListThemes(), ", "))
		return nil
	}

	a.commands["undo"] = func(args []string) error {
		a.ed.Undo()
		return nil
	}
	a.commands["redo"] = func(args []string) error {
		a.ed.Redo()
		return nil
	}
}
