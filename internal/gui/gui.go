//go:build !nogui

// Package gui is the desktop front end: files dropped on the left half of
// the window go to the media list, on the right half to the subtitle list.
package gui

import (
	"context"
	"fmt"

	"ezsubs/internal/config"
	"ezsubs/internal/errors"
	"ezsubs/internal/log"
	"ezsubs/internal/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the GUI application
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	cfg     *config.Config
	session *session.Session
	ctx     context.Context

	panes      [2]*filePane
	status     *widget.Label
	syncButton *widget.Button

	// alert presents a message; replaced in tests.
	alert func(title, message string, isErr bool)
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, s *session.Session) *App {
	return newApp(app.NewWithID("io.github.ezsubs"), cfg, s)
}

func newApp(fyneApp fyne.App, cfg *config.Config, s *session.Session) *App {
	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
		session: s,
		ctx:     context.Background(),
	}
	a.alert = a.showDialog
	a.window = fyneApp.NewWindow("ezsubs")
	a.window.Resize(fyne.NewSize(900, 560))
	a.window.SetContent(a.buildContent())
	a.window.SetOnDropped(a.HandleDrop)
	return a
}

func (a *App) buildContent() fyne.CanvasObject {
	a.panes[session.Media] = newFilePane(a.session.Media())
	a.panes[session.Subtitles] = newFilePane(a.session.Subtitles())

	a.status = widget.NewLabel("Drop videos on the left and subtitles on the right.")
	a.syncButton = widget.NewButtonWithIcon("Sync", theme.ConfirmIcon(), func() { a.Sync() })
	a.syncButton.Importance = widget.HighImportance

	lists := container.NewGridWithColumns(2,
		a.panes[session.Media].content(),
		a.panes[session.Subtitles].content(),
	)
	bottom := container.NewBorder(nil, nil, nil, a.syncButton, a.status)
	return container.NewBorder(nil, bottom, nil, nil, lists)
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() {
	a.window.ShowAndRun()
}

// ShowError shows an error dialog
func (a *App) ShowError(title string, err error) {
	log.LogWithError(err).Error(title)
	a.alert(title, err.Error(), true)
}

// ShowInfo shows an information dialog
func (a *App) ShowInfo(title, message string) {
	a.alert(title, message, false)
}

func (a *App) showDialog(title, message string, isErr bool) {
	if isErr {
		dialog.ShowError(fmt.Errorf("%s", message), a.window)
		return
	}
	dialog.ShowInformation(title, message, a.window)
}

// sideAt maps a drop position to the list under it.
func (a *App) sideAt(pos fyne.Position) session.Side {
	width := a.window.Canvas().Size().Width
	if width > 0 && pos.X >= width/2 {
		return session.Subtitles
	}
	return session.Media
}

// HandleDrop receives files dropped on the window.
func (a *App) HandleDrop(pos fyne.Position, uris []fyne.URI) {
	paths := make([]string, 0, len(uris))
	for _, u := range uris {
		if u.Scheme() != "file" {
			log.LogWithFields(log.F("uri", u.String())).Warn("Ignoring non-file drop")
			continue
		}
		paths = append(paths, u.Path())
	}
	if len(paths) > 0 {
		a.Drop(a.sideAt(pos), paths)
	}
}

// Drop adds paths to a list in the background. The channel receives the
// result after the list has been redrawn.
func (a *App) Drop(side session.Side, paths []string) <-chan session.DropResult {
	out := make(chan session.DropResult, 1)
	a.status.SetText(fmt.Sprintf("Collecting %d item(s)...", len(paths)))
	go func() {
		defer close(out)
		res := a.session.DropWait(a.ctx, side, paths)
		a.panes[side].refresh()
		switch {
		case res.Discarded:
			a.status.SetText(fmt.Sprintf("Drop into %s discarded", side))
		case len(res.Warnings) > 0:
			a.status.SetText(fmt.Sprintf("Added %d file(s) to %s, %d path(s) skipped", res.Added, side, len(res.Warnings)))
		default:
			a.status.SetText(fmt.Sprintf("Added %d file(s) to %s", res.Added, side))
		}
		out <- res
	}()
	return out
}

// Sync renames the subtitles and reports the outcome in a dialog. The
// channel receives the report once the dialog is up.
func (a *App) Sync() <-chan *session.SyncReport {
	out := make(chan *session.SyncReport, 1)
	a.syncButton.Disable()
	a.status.SetText("Renaming subtitles...")
	go func() {
		defer close(out)
		report := <-a.session.SyncAsync()
		a.panes[session.Subtitles].refresh()
		a.syncButton.Enable()

		switch {
		case report.Mismatch != nil:
			a.status.SetText("Lists differ in length")
			a.alert("Cannot sync", report.Summary(), true)
		case !report.OK():
			a.status.SetText("Some renames failed")
			a.alert("Sync finished with errors", report.Summary(), true)
		default:
			a.status.SetText("Sync finished")
			a.ShowInfo("Sync finished", report.Summary())
		}
		out <- report
	}()
	return out
}

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	if f.session == nil {
		return nil, errors.New("no session")
	}
	return NewApp(f.config, f.session), nil
}

// StartGUI runs the desktop application until its window is closed.
func StartGUI(cfg *config.Config, s *session.Session) error {
	ui, err := NewFactory(cfg, s).Create()
	if err != nil {
		return err
	}
	ui.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
