package sim

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/frame"
	"github.com/san-kum/springsim/internal/spring"
	"github.com/san-kum/springsim/internal/trace"
)

// Runner plays scenarios on a fresh spring system each time.
type Runner struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run builds every spring of cfg, sets them all in motion on the same frame
// and drives the system with the configured looper until it goes idle.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := r.logger.With(zap.String("scenario", cfg.Name), zap.String("looper", cfg.Looper))

	// Springs are kicked under a stepping looper so a batch looper does not
	// run the first spring to rest before the next one starts.
	sys := spring.NewSystem(spring.NewSteppingLooper())
	rec := trace.NewRecorder()
	rec.Attach(sys)

	springs := make([]*spring.Spring, len(cfg.Springs))
	monitors := make([]*analysis.EnergyMonitor, len(cfg.Springs))
	for i, spec := range cfg.Springs {
		sc, err := spec.SpringConfig()
		if err != nil {
			return nil, fmt.Errorf("spring %s: %w", spec.Name, err)
		}
		s := sys.CreateSpringWithConfig(sc).
			SetRestSpeedThreshold(spec.RestSpeedThreshold).
			SetRestDisplacementThreshold(spec.RestDisplacementThreshold).
			SetOvershootClampingEnabled(spec.OvershootClamping)
		rec.Watch(spec.Name, s)
		monitors[i] = analysis.NewEnergyMonitor()
		s.AddListener(monitors[i])
		s.AddListener(&spring.ListenerFuncs{AtRest: func(s *spring.Spring) {
			log.Debug("spring at rest",
				zap.String("spring", spec.Name),
				zap.Float64("value", s.CurrentValue()),
				zap.Float64("t_ms", sys.Time()))
		}})
		s.SetCurrentValue(spec.From)
		springs[i] = s
	}
	for i, spec := range cfg.Springs {
		springs[i].SetVelocity(spec.Velocity)
		springs[i].SetEndValue(spec.To)
	}

	log.Debug("scenario started", zap.Int("springs", len(springs)))
	start := time.Now()

	err := r.drive(ctx, sys, cfg)

	res := &Result{
		Name:       cfg.Name,
		Looper:     cfg.Looper,
		TimestepMs: cfg.TimestepMs,
		Frames:     rec.Frames(),
		Springs:    make([]SpringResult, len(springs)),
	}
	for i, s := range springs {
		sc, _ := s.Config()
		samples := rec.Samples(s.ID())
		if n := len(samples); n > 0 && samples[n-1].TimeMs > res.DurationMs {
			res.DurationMs = samples[n-1].TimeMs
		}
		res.Springs[i] = SpringResult{
			ID:         s.ID(),
			Name:       cfg.Springs[i].Name,
			Config:     sc,
			From:       cfg.Springs[i].From,
			To:         cfg.Springs[i].To,
			Final:      spring.PhysicsState{Position: s.CurrentValue(), Velocity: s.Velocity()},
			AtRest:     s.IsAtRest(),
			Counts:     rec.Counts(s.ID()),
			EnergyRise: monitors[i].Value(),
			Samples:    samples,
		}
	}

	if err != nil {
		log.Warn("scenario stopped early", zap.Error(err), zap.Int("frames", res.Frames))
		return res, err
	}
	log.Info("scenario settled",
		zap.Int("frames", res.Frames),
		zap.Float64("sim_ms", res.DurationMs),
		zap.Duration("wall", time.Since(start)))
	return res, nil
}

func (r *Runner) drive(ctx context.Context, sys *spring.System, cfg *config.Config) error {
	if sys.IsIdle() {
		return nil
	}

	switch cfg.Looper {
	case config.LooperBatch:
		looper := spring.NewSimulationLooper(cfg.TimestepMs)
		looper.MaxIterations = cfg.MaxFrames
		sys.SetLooper(looper)
		looper.Run()

	case config.LooperStep:
		looper := sys.Looper().(*spring.SteppingLooper)
		for n := 0; !sys.IsIdle() && (cfg.MaxFrames == 0 || n < cfg.MaxFrames); n++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			looper.Step(cfg.TimestepMs)
		}

	case config.LooperAnimation:
		frames := frame.NewLoop(time.Duration(cfg.TimestepMs * float64(time.Millisecond)))
		looper := spring.NewAnimationLooper(frames)
		sys.SetLooper(looper)
		looper.Run()
		if err := frames.RunUntilDrained(ctx, cfg.MaxFrames); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %q", config.ErrUnknownLooper, cfg.Looper)
	}

	if !sys.IsIdle() {
		return ErrFrameLimit
	}
	return nil
}
