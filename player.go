package nv12play

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pion/logging"

	ilogging "github.com/pion/nv12play/internal/logging"
	"github.com/pion/nv12play/pkg/event"
	"github.com/pion/nv12play/pkg/frame"
	"github.com/pion/nv12play/pkg/gpu"
	"github.com/pion/nv12play/pkg/prop"
)

// FrameSource provides raw frames. ReadNextFrame returns false once the
// stream is exhausted.
//
// A source that also has an Err method reports through it why the stream
// ended early.
type FrameSource interface {
	ReadNextFrame(buf []byte) bool
	Close() error
}

// Config configures a Player.
type Config struct {
	Video prop.Video
	// Renderer is RendererCPU or RendererGPU.
	Renderer string
	// Clock defaults to SystemClock.
	Clock Clock
	// SleepGranularity defaults to DefaultSleepGranularity.
	SleepGranularity time.Duration
}

// Stats summarizes a playback.
type Stats struct {
	Presented int
	Dropped   int
	Elapsed   time.Duration
}

// FPS is the effective presentation rate.
func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Presented) / s.Elapsed.Seconds()
}

// Player drives source, renderer and device from a single goroutine.
type Player struct {
	id       string
	video    prop.Video
	src      FrameSource
	dev      gpu.Device
	renderer Renderer
	events   event.Source
	pacer    *Pacer
	clock    Clock
	buf      []byte
	stats    Stats
	scope    gpu.Scope
	released bool
	log      logging.LeveledLogger
}

// New creates a player owning src and dev. On error every resource passed in
// or created so far has been released.
func New(cfg Config, src FrameSource, dev gpu.Device, events event.Source) (_ *Player, err error) {
	p := &Player{
		id:     uuid.New().String(),
		video:  cfg.Video,
		src:    src,
		dev:    dev,
		events: events,
		clock:  cfg.Clock,
		log:    ilogging.NewLogger("player"),
	}
	if p.clock == nil {
		p.clock = SystemClock
	}
	p.scope.Add(dev)
	p.scope.Add(gpu.ReleaserFunc(src.Close))
	defer func() {
		if err != nil {
			if releaseErr := p.scope.Release(); releaseErr != nil {
				p.log.Warnf("failed to release resources: %v", releaseErr)
			}
		}
	}()

	if err := cfg.Video.Validate(); err != nil {
		return nil, err
	}
	if p.events == nil {
		p.events = event.Multi(nil)
	}

	renderer, err := NewRenderer(cfg.Renderer)
	if err != nil {
		return nil, err
	}
	if err := renderer.Init(dev, cfg.Video); err != nil {
		return nil, fmt.Errorf("failed to initialize %s renderer: %w", renderer.Name(), err)
	}
	p.scope.Add(renderer)
	p.renderer = renderer

	p.buf = make([]byte, cfg.Video.FrameSize())
	p.pacer = NewPacer(p.clock, cfg.Video.Interval(), cfg.SleepGranularity)
	p.log.Infof("player %s: %s renderer, %s, one frame every %v", p.id, renderer.Name(), cfg.Video, p.pacer.Interval())
	return p, nil
}

// ID identifies the playback session in logs.
func (p *Player) ID() string {
	return p.id
}

// Stats returns the statistics so far.
func (p *Player) Stats() Stats {
	return p.stats
}

// Run plays until the source is exhausted or a Quit event arrives, then
// releases every resource. exitCode is the Quit event's code, or 0 when the
// stream ended. A frame in progress always completes before events are
// checked again.
func (p *Player) Run() (exitCode int, err error) {
	if p.released {
		return 1, errPlayerReleased
	}
	defer func() {
		if releaseErr := p.release(); releaseErr != nil {
			err = errors.Join(err, releaseErr)
		}
	}()

	start := p.clock.Now()
	p.pacer.Reset()
	for {
		if code, quit := p.drainEvents(); quit {
			p.finish(start, "quit")
			return code, nil
		}

		if !p.pacer.Due() {
			p.pacer.Wait()
			continue
		}

		if !p.renderNextFrame() {
			p.finish(start, "end of stream")
			if es, ok := p.src.(interface{ Err() error }); ok && es.Err() != nil {
				return 1, fmt.Errorf("failed to read frame: %w", es.Err())
			}
			return 0, nil
		}
		p.pacer.Mark()
	}
}

// drainEvents consumes every pending event. The code of the last Quit wins.
func (p *Player) drainEvents() (code int, quit bool) {
	for {
		e, ok := p.events.Poll()
		if !ok {
			return code, quit
		}
		switch e.Type {
		case event.Quit:
			p.log.Debugf("quit requested with code %d", e.Code)
			code, quit = e.Code, true
		case event.Key:
			p.log.Tracef("key %q", rune(e.Code))
		}
	}
}

// renderNextFrame returns false at end of stream. Any other failure drops
// the frame.
func (p *Player) renderNextFrame() bool {
	if !p.src.ReadNextFrame(p.buf) {
		return false
	}

	begin := p.clock.Now()
	if err := p.present(); err != nil {
		p.stats.Dropped++
		if IsTransient(err) {
			p.log.Warnf("dropped frame %d: %v", p.frameIndex(), err)
		} else {
			p.log.Errorf("dropped frame %d: %v", p.frameIndex(), err)
		}
		return true
	}
	p.stats.Presented++
	p.log.Tracef("presented frame %d in %v", p.frameIndex(), p.clock.Now().Sub(begin))
	return true
}

func (p *Player) present() error {
	f, err := frame.NewNV12(p.buf, p.video.Width, p.video.Height)
	if err != nil {
		return err
	}
	if err := p.renderer.Convert(f); err != nil {
		return err
	}
	if err := p.renderer.Draw(); err != nil {
		return err
	}
	return p.dev.Present()
}

func (p *Player) frameIndex() int {
	return p.stats.Presented + p.stats.Dropped
}

func (p *Player) finish(start time.Time, reason string) {
	p.stats.Elapsed = p.clock.Now().Sub(start)
	p.log.Infof("player %s stopped on %s: presented %d frames, dropped %d in %v (%.1f fps)",
		p.id, reason, p.stats.Presented, p.stats.Dropped, p.stats.Elapsed, p.stats.FPS())
}

func (p *Player) release() error {
	if p.released {
		return nil
	}
	p.released = true
	return p.scope.Release()
}

// Close releases the player's resources without playing. It is a no-op
// after Run.
func (p *Player) Close() error {
	return p.release()
}
