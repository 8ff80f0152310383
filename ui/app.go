package ui

import (
	"context"
	"sync"
	"sync/atomic"

	"emperror.dev/errors"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/yhkl-dev/naviplayer/config"
	"github.com/yhkl-dev/naviplayer/control"
	"github.com/yhkl-dev/naviplayer/coverart"
	"github.com/yhkl-dev/naviplayer/domain"
	"github.com/yhkl-dev/naviplayer/player"
)

// App represents the TUI application
type App struct {
	tviewApp *tview.Application
	cfg      *config.Config
	playlist *domain.Playlist
	logger   zerolog.Logger
	player   *control.Player
	keys     *KeyBindingManager
	theme    Theme

	rootFlex     *tview.Flex
	header       *tview.TextView
	cover        *tview.TextView
	status       *tview.TextView
	footer       *tview.TextView
	progressView *ProgressBarView
	volumeView   *VolumeBarView
	timeViews    []*timeView
	buttons      []*controlButton
	focusables   []tview.Primitive
	helpView     *HelpView
	playlistView *PlaylistView

	coverConverter *coverart.Converter
	statusText     string

	mu       sync.Mutex
	pending  []func()
	wake     chan struct{}
	quit     chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewApp creates a new TUI application with dependency injection
func NewApp(cfg *config.Config, playlist *domain.Playlist, logger zerolog.Logger) *App {
	return &App{
		tviewApp:       tview.NewApplication().EnableMouse(true),
		cfg:            cfg,
		playlist:       playlist,
		logger:         logger,
		keys:           NewKeyBindingManager(),
		theme:          themeFrom(cfg.UI.Theme),
		coverConverter: coverart.NewConverter(0, 0),
		wake:           make(chan struct{}, 1),
		quit:           make(chan struct{}),
	}
}

// Dispatch queues f for the UI goroutine and never blocks, so backends may call
// it from inside UI handlers. Work queued after Stop is dropped.
func (a *App) Dispatch(f func()) {
	if a.stopped.Load() {
		return
	}
	a.mu.Lock()
	a.pending = append(a.pending, f)
	a.mu.Unlock()
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// forward hands the queued work to tview in order until the app stops
func (a *App) forward() {
	for {
		select {
		case <-a.quit:
			return
		case <-a.wake:
		}
		a.mu.Lock()
		batch := a.pending
		a.pending = nil
		a.mu.Unlock()
		if len(batch) == 0 {
			continue
		}
		a.tviewApp.QueueUpdateDraw(func() {
			for _, f := range batch {
				f()
			}
		})
	}
}

// Run builds the player around media and blocks until the UI stops
func (a *App) Run(ctx context.Context, media player.Media) error {
	a.build(media)
	a.player.Mount(ctx)
	defer a.player.Unmount()
	go a.forward()
	go a.loadCover(ctx)

	if a.stopped.Load() {
		return nil
	}
	a.logger.Info().Int("tracks", a.playlist.Len()).Str("backend", a.cfg.Player.Backend).Msg("start naviplayer")
	err := a.tviewApp.Run()
	a.markStopped()
	return errors.Wrap(err, "terminal ui")
}

// build creates the player and the widgets without starting the terminal
func (a *App) build(media player.Media) {
	opts := control.OptionsFromConfig(a.cfg)
	opts.Dispatch = a.Dispatch
	opts.Logger = a.logger
	if track, _, ok := a.playlist.Current(); ok {
		opts.Src = track.Src
	}
	a.player = control.NewPlayer(media, opts, a.callbacks())

	a.createHomepage()
	a.setupInputHandlers()
	a.tviewApp.SetBeforeDrawFunc(func(tcell.Screen) bool {
		a.refresh()
		return false
	})
}

// Stop stops the application
func (a *App) Stop() {
	if a.markStopped() {
		a.tviewApp.Stop()
	}
}

// markStopped reports whether this call stopped the app
func (a *App) markStopped() bool {
	first := false
	a.stopOnce.Do(func() {
		first = true
		a.stopped.Store(true)
		close(a.quit)
	})
	return first
}

func (a *App) callbacks() control.Callbacks {
	return control.Callbacks{
		OnLoadStart: func(player.Event) { a.setStatus("[yellow]Loading...") },
		OnCanPlay:   func(player.Event) { a.setStatus("") },
		OnWaiting:   func(player.Event) { a.setStatus("[yellow]Buffering...") },
		OnPlaying:   func(player.Event) { a.setStatus("") },
		OnEnded:     func(player.Event) { a.trackEnded() },
		OnError: func(e player.Event) {
			err := e.Target.Err()
			if err == nil {
				err = errors.New("media error")
			}
			a.showError(err)
		},
		OnListen: func(e player.Event) {
			a.logger.Debug().Float64("time", e.Target.CurrentTime()).Msg("listen")
		},
		OnMuteChange: func(muted bool) {
			a.logger.Debug().Bool("muted", muted).Msg("mute changed")
		},
		OnClickNext:              a.playNext,
		OnClickPrevious:          a.playPrevious,
		OnPlayError:              a.showError,
		OnChangeCurrentTimeError: a.showError,
	}
}

func (a *App) playNext() {
	if track, ok := a.playlist.Next(); ok {
		a.changeTrack(track)
	}
}

func (a *App) playPrevious() {
	if track, ok := a.playlist.Previous(); ok {
		a.changeTrack(track)
	}
}

// selectTrack plays the track at index from the playlist view
func (a *App) selectTrack(index int) {
	if track, ok := a.playlist.Select(index); ok {
		a.changeTrack(track)
	}
}

func (a *App) changeTrack(track domain.Track) {
	a.logger.Info().Str("src", track.Src).Msg("change track")
	a.player.SetSrc(track.Src)
	a.refreshHeader()
}

// trackEnded advances the playlist, a single track just stops
func (a *App) trackEnded() {
	if a.playlist.Len() > 1 {
		a.playNext()
	}
}

func (a *App) showError(err error) {
	a.setStatus("[red]" + tview.Escape(err.Error()))
}

func (a *App) setStatus(text string) {
	a.statusText = text
}

func (a *App) refreshHeader() {
	if a.cfg.UI.Header != "" {
		a.header.SetText(a.cfg.UI.Header)
		return
	}
	track, index, _ := a.playlist.Current()
	a.header.SetText(headerText(track, index, a.playlist.Len()))
}

// loadCover converts the header image off the UI goroutine
func (a *App) loadCover(ctx context.Context) {
	source := a.cfg.UI.HeaderImage
	if source == "" {
		return
	}
	art, err := a.coverConverter.Convert(ctx, source)
	if err != nil {
		a.logger.Warn().Err(err).Str("source", source).Msg("cannot load cover art")
	} else {
		art = tview.Escape(art)
	}
	a.Dispatch(func() { a.cover.SetText(art) })
}

// refresh copies the player state into the widgets before every draw
func (a *App) refresh() {
	for _, b := range a.buttons {
		b.refresh()
	}
	for _, v := range a.timeViews {
		v.SetText(a.player.TimeLabel(v.kind).Text())
	}

	var focused string
	for _, b := range a.buttons {
		if b.HasFocus() {
			focused = b.label()
		}
	}
	if a.progressView != nil && a.progressView.HasFocus() {
		focused = describe(a.player.ProgressBar().Accessibility())
	}
	if a.volumeView != nil && a.volumeView.HasFocus() {
		focused = describe(a.player.VolumeBar().Accessibility())
	}
	if focused != "" {
		focused = "[darkgray]" + tview.Escape(focused) + "[-]"
	}
	a.status.SetText(statusLine(a.statusText, focused))
}
