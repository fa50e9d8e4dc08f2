package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mymaps/mymaps/internal/animation"
	"github.com/mymaps/mymaps/internal/config"
	"github.com/mymaps/mymaps/internal/dispatcher"
	"github.com/mymaps/mymaps/internal/geo"
	"github.com/mymaps/mymaps/internal/library"
	"github.com/mymaps/mymaps/internal/logging"
	intOtel "github.com/mymaps/mymaps/internal/otel"
	"github.com/mymaps/mymaps/internal/render"
	"github.com/mymaps/mymaps/internal/render/headless"
	"github.com/mymaps/mymaps/internal/session"
	"github.com/mymaps/mymaps/internal/storage"
	"github.com/mymaps/mymaps/pkg/core"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const (
	ServiceName = "mymaps"

	// ConfigDirEnv names the directory holding mymaps.cfg.json
	ConfigDirEnv = "MYMAPS_CONFIG_DIR"
)

const usage = `usage:
  mymaps list
  mymaps show <index>
  mymaps create <title> [<title|description|lat,lng>...]`

var errUsage = errors.New(usage)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds everything one CLI invocation needs
type app struct {
	SessionID        string
	SessionStartTime time.Time

	slogManager *logging.SlogManager
	logger      *slog.Logger
	logFile     *os.File
	otel        *intOtel.Provider

	store      storage.Store
	scheduler  *animation.Scheduler
	dispatcher *dispatcher.Dispatcher
	controller *session.Controller
	cancel     context.CancelFunc

	mu       sync.Mutex
	surfaces []*headless.Surface
}

func configDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	return "."
}

func newApp(ctx context.Context, dir string) (*app, error) {
	a := &app{
		SessionID:        uuid.NewString(),
		SessionStartTime: time.Now(),
	}

	a.slogManager = logging.NewSlogManager(ServiceName)
	a.slogManager.Setup(nil, "warn", nil)
	a.logger = a.slogManager.Logger()

	if err := config.Load(dir); err != nil {
		a.logger.Warn("Failed to load config, using defaults!", "error", err, "dir", dir)
	}
	level := config.GetString("logLevel")

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		a.logger.Error("Failed to create logs directory", "error", err, "path", logsDir)
	} else {
		path := logging.LogFilePath(logsDir, ServiceName, a.SessionStartTime)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			a.logger.Error("Failed to create/open log file!", "error", err, "path", path)
		} else {
			a.logFile = f
		}
	}

	otelCfg := config.GetOTelConfig()
	var otelLogProvider *sdklog.LoggerProvider
	if otelCfg.Enabled && a.logFile != nil {
		p, err := intOtel.New(intOtel.Config{
			Enabled:      true,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    a.logFile,
		})
		if err != nil {
			a.logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			a.otel = p
			otelLogProvider = p.LoggerProvider()
		}
	}

	var logOut io.Writer = os.Stderr
	if a.logFile != nil {
		logOut = a.logFile
	}
	a.slogManager.WithContext(a.logContext)
	a.slogManager.Setup(fileOrNil(a.logFile), level, otelLogProvider)
	a.logger = a.slogManager.Logger()
	if a.otel != nil && a.otel.Enabled() {
		a.logger.Info("OTel provider initialized", "otelVersion", intOtel.Version(), "serviceName", otelCfg.ServiceName)
	}

	store, err := createStore(config.GetStorageConfig(), logOut, level)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := store.Init(); err != nil {
		a.Close()
		return nil, fmt.Errorf("initializing %s storage: %w", config.GetStorageConfig().Type, err)
	}
	a.store = store

	animCfg := config.GetAnimationConfig()
	a.scheduler, err = animation.NewScheduler(animation.Config{
		Duration:  animCfg.Duration,
		Tick:      animCfg.Tick,
		Overshoot: animCfg.Overshoot,
	}, a.logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating animation scheduler: %w", err)
	}

	a.dispatcher, err = dispatcher.New(logging.NewDispatcherLogger(a.logger))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	camCfg := config.GetCameraConfig()
	a.controller = session.New(session.Dependencies{
		Library: library.New(a.store, a.logger, library.SampleMaps),
		Orchestrator: render.NewOrchestrator(render.Dependencies{
			Scheduler: a.scheduler,
			Logger:    a.logger,
			Camera: render.CameraConfig{
				PaddingX: camCfg.PaddingX,
				PaddingY: camCfg.PaddingY,
				Tilt:     camCfg.Tilt,
			},
		}),
		Surfaces: a.openSurface,
		Logger:   a.logger,
	})
	a.controller.RegisterHandlers(a.dispatcher)

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go a.scheduler.Run(runCtx)

	if err := a.controller.Start(runCtx); err != nil {
		// samples are still usable
		a.logger.Error("Failed to load saved maps", "error", err)
	}
	return a, nil
}

func fileOrNil(f *os.File) io.Writer {
	if f == nil {
		return nil
	}
	return f
}

func (a *app) logContext() []slog.Attr {
	return []slog.Attr{slog.String("session", a.SessionID)}
}

// openSurface creates a headless surface and fires its ready signal
func (a *app) openSurface(ctx context.Context, title string) (*render.ReadySignal, error) {
	s := headless.New(a.logger.With("surface", title))
	a.mu.Lock()
	a.surfaces = append(a.surfaces, s)
	a.mu.Unlock()

	ready := render.NewReadySignal()
	if err := ready.Deliver(s); err != nil {
		return nil, err
	}
	return ready, nil
}

func (a *app) lastSurface() *headless.Surface {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.surfaces) == 0 {
		return nil
	}
	return a.surfaces[len(a.surfaces)-1]
}

// Close releases everything newApp acquired
func (a *app) Close() {
	if a.controller != nil {
		a.controller.Close()
	}
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	a.mu.Lock()
	for _, s := range a.surfaces {
		s.Close()
	}
	a.mu.Unlock()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close storage", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.slogManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", err)
	}
	if a.otel != nil {
		if err := a.otel.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shut down OTel: %v\n", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	a, err := newApp(ctx, configDir())
	if err != nil {
		return err
	}
	defer a.Close()

	switch strings.ToLower(args[0]) {
	case "list":
		return a.list(out)
	case "show":
		if len(args) != 2 {
			return errUsage
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid map index %q: %w", args[1], err)
		}
		return a.show(ctx, index, out)
	case "create":
		if len(args) < 2 {
			return errUsage
		}
		return a.create(args[1], args[2:], out)
	default:
		return errUsage
	}
}

func (a *app) list(out io.Writer) error {
	result, err := a.dispatcher.Dispatch(dispatcher.Event{Command: session.CmdList})
	if err != nil {
		return err
	}
	for i, m := range result.([]core.UserMap) {
		fmt.Fprintf(out, "%d\t%s\t(%d places)\n", i, m.Title, len(m.Places))
	}
	return nil
}

func (a *app) show(ctx context.Context, index int, out io.Writer) error {
	result, err := a.dispatcher.Dispatch(dispatcher.Event{Command: session.CmdSelect, Payload: index})
	if err != nil {
		return err
	}
	pass := result.(*render.Pass)

	waitErr := pass.Wait(ctx)

	fmt.Fprintf(out, "%s\n", pass.Title)
	if s := a.lastSurface(); s != nil {
		for _, m := range s.Markers() {
			fmt.Fprintf(out, "  pin %-24s %9.5f %10.5f  %s\n",
				m.Options.Title, m.Options.Position.Lat, m.Options.Position.Lng, m.Options.Snippet)
		}
		if pass.Camera == nil {
			fmt.Fprintln(out, "  camera: default view")
		} else {
			cam := s.Camera()
			r := pass.Camera.Region
			fmt.Fprintf(out, "  bounds: S %.5f W %.5f N %.5f E %.5f\n", r.South, r.West, r.North, r.East)
			fmt.Fprintf(out, "  camera: %.5f, %.5f zoom %.2f\n", cam.Target.Lat, cam.Target.Lng, cam.Zoom)
		}
	}
	fmt.Fprintf(out, "  %d/%d pins settled\n", pass.Completed(), len(pass.Animations))
	return waitErr
}

func (a *app) create(title string, specs []string, out io.Writer) error {
	places := make([]core.Place, 0, len(specs))
	for _, spec := range specs {
		p, err := geo.PlaceFromString(spec)
		if err != nil {
			return err
		}
		places = append(places, p)
	}

	result, err := a.dispatcher.Dispatch(dispatcher.Event{
		Command: session.CmdCreate,
		Payload: core.NewUserMap(title, places...),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %d\t%s\t(%d places)\n", result.(int), title, len(places))
	return nil
}
