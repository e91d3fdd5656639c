package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/veilwm/veil/internal/config"
	"github.com/veilwm/veil/internal/gles"
	"github.com/veilwm/veil/internal/host"
	"github.com/veilwm/veil/internal/logger"
	"github.com/veilwm/veil/internal/protocol"
	"github.com/veilwm/veil/internal/wayland"
)

var debugFrameRate int

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Run the compositor core against a headless backend",
	Long: `Runs the embedded Wayland server with a loopback protocol display and a
headless renderer, simulating the host engine's frame loop with a ticker.
Useful to observe socket binding, client accepts, and dispatch without a
real XR engine or GPU.`,
	RunE: runDebug,
}

func init() {
	debugCmd.Flags().IntVar(&debugFrameRate, "fps", 60, "simulated host frame rate")
}

func runDebug(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if cfg.Logging.LogLevel != "" {
		if lvl, err := log.ParseLevel(cfg.Logging.LogLevel); err == nil {
			logger.Logger.SetLevel(lvl)
		}
	}

	display, err := protocol.NewLoopback()
	if err != nil {
		return err
	}

	opts := []wayland.Option{
		wayland.WithSocketBase(cfg.Compositor.SocketBase),
		wayland.WithSocketSearchRange(cfg.Compositor.SocketSearchRange),
		wayland.WithQueueCapacity(cfg.Compositor.DestroyQueueCap),
		wayland.WithOutput(host.Output{
			Name:    cfg.Output.Name,
			Width:   cfg.Output.Width,
			Height:  cfg.Output.Height,
			Refresh: cfg.Output.RefreshMHz,
			Scale:   cfg.Output.Scale,
		}),
	}
	if cfg.Compositor.RuntimeDir != "" {
		opts = append(opts, wayland.WithSocketDir(cfg.Compositor.RuntimeDir))
	}

	srv, err := wayland.New(headlessEngine{}, display, gles.NewHeadlessRenderer, opts...)
	if err != nil {
		return err
	}
	defer srv.Close()

	srv.State().OnNewClient(func(id protocol.ClientID) {
		logger.Info("client joined", "client", id)
	})

	logger.Info("debug compositor running", "socket", srv.SocketName(), "fps", debugFrameRate)
	logger.Infof("connect clients with WAYLAND_DISPLAY=%s", srv.SocketName())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopErr := make(chan error, 1)
	go func() { loopErr <- srv.Wait() }()

	tick := time.NewTicker(time.Second / time.Duration(debugFrameRate))
	defer tick.Stop()

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return srv.Close()
		case err := <-loopErr:
			return err
		case at := <-tick.C:
			frame++
			draw := frameDraw{frame: frame, at: at}
			if err := srv.Update(draw); err != nil {
				return err
			}
			srv.FrameEvent(draw)
		}
	}
}

// headlessEngine stands in for the host XR engine. The zero handles are
// fine: the headless renderer never dereferences them.
type headlessEngine struct{}

func (headlessEngine) GraphicsBackend() host.GraphicsBackend { return host.BackendOpenGLESEGL }
func (headlessEngine) EGLDisplay() host.ForeignHandle        { return 0 }
func (headlessEngine) EGLConfig() host.ForeignHandle         { return 0 }
func (headlessEngine) EGLContext() host.ForeignHandle        { return 0 }

// frameDraw is the per-frame token the simulated render loop hands out.
type frameDraw struct {
	frame uint64
	at    time.Time
}

func (d frameDraw) FrameIndex() uint64              { return d.frame }
func (d frameDraw) PredictedDisplayTime() time.Time { return d.at }
