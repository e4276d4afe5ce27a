// Package spin rotates a sphere from touch drags with three strategies: direct
// quaternion mapping, a homegrown inertial model and a host physics body.
package spin

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akmonengine/spin/actor"
	"github.com/akmonengine/spin/rotation"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// TorqueApplier is the entry point of a host physics engine body
type TorqueApplier interface {
	ApplyTorqueImpulse(axis mgl64.Vec3, magnitude float64)
}

// Snapshot is a read-only view of the scene, published after each update
type Snapshot struct {
	Mode Mode
	// Orientation is the target orientation of the sphere, Presentation the
	// one shown when the snapshot was taken
	Orientation  mgl64.Quat
	Presentation mgl64.Quat
	// AnchorOrientation and Scale place the parent node of the sphere,
	// PresentationScale is the scale shown while a pinch animates
	AnchorOrientation mgl64.Quat
	Scale             float64
	PresentationScale float64

	Touched             bool
	AngularVelocity     mgl64.Vec3
	AngularAcceleration mgl64.Vec3

	Time float64
}

// Controller turns drag gestures and render ticks into rotations of a single
// sphere. Every method posts its work to one update queue: gestures and ticks
// never run concurrently and are applied in the order they were posted.
type Controller struct {
	queue  *UpdateQueue
	logger *zap.Logger
	clock  func() float64

	config Config
	mode   Mode

	sphere *actor.VirtualObject
	// touched is the last object a drag began on
	touched *actor.VirtualObject

	// anchor is the parent node of the sphere, moved by the host physics
	anchor *actor.RigidBody
	host   TorqueApplier

	previousScale float64
	scaleAnim     scaleAnimation
	lastHostTick  float64
	hasHostTick   bool

	events   Events
	snapshot atomic.Pointer[Snapshot]
}

type Option func(*Controller)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock sets the time source, in seconds, of the presentation
// animations. Tick timestamps must come from the same clock.
func WithClock(clock func() float64) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithTorqueApplier replaces the built-in host physics body as the receiver
// of the torque impulses.
func WithTorqueApplier(host TorqueApplier) Option {
	return func(c *Controller) {
		c.host = host
	}
}

func NewController(config Config, opts ...Option) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	body, err := actor.NewRotationState(config.Mass, config.Radius)
	if err != nil {
		return nil, fmt.Errorf("create rotation state: %w", err)
	}

	anchor := actor.NewRigidBody(actor.NewTransform(), &actor.Sphere{Radius: config.Radius}, config.Mass)
	anchor.Material.AngularDamping = config.Host.AngularDamping

	start := time.Now()
	c := &Controller{
		logger:        zap.NewNop(),
		clock:         func() float64 { return time.Since(start).Seconds() },
		config:        config,
		mode:          config.Mode,
		sphere:        actor.NewVirtualObject(body),
		anchor:        anchor,
		host:          anchor,
		previousScale: anchor.Transform.Scale,
		scaleAnim:     scaleAnimation{from: anchor.Transform.Scale, to: anchor.Transform.Scale},
		events:        NewEvents(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.Stringer("object", c.sphere.ID))
	c.queue = NewUpdateQueue(c.logger)
	c.publish()

	return c, nil
}

// Now returns the controller clock
func (c *Controller) Now() float64 {
	return c.clock()
}

// Begin starts a drag on the sphere at point. The point is in anchor space,
// or in the sphere local space for the host physics mode.
func (c *Controller) Begin(point mgl64.Vec3) error {
	return c.post(func() {
		c.touched = c.sphere
		if !c.touched.Touch(point) {
			c.logger.Debug("touch ignored", zap.Any("point", point))
			return
		}
		c.events.emit(TouchBeginEvent{Object: c.touched, Point: *c.touched.PreviousTouch})
	})
}

// Change moves the running drag to point. Without a running drag it does
// nothing.
func (c *Controller) Change(point mgl64.Vec3) error {
	return c.post(func() {
		o := c.touched
		if o == nil || o.PreviousTouch == nil {
			return
		}

		previous := *o.PreviousTouch
		current := point.Normalize()
		if !rotation.IsValidVec(current) {
			c.logger.Debug("touch ignored", zap.Any("point", point))
			return
		}

		applied := false
		switch c.mode {
		case ModeQuaternion:
			applied = o.Rotate(previous, current, c.clock(), c.config.AnimationDuration)
		case ModeInertialHomegrown:
			applied = o.ApplyTorque(previous, current)
		case ModeInertialHostPhysics:
			// the host body works on the surface of the real sphere
			r := c.config.Radius
			axis, magnitude, ok := rotation.HostTorque(previous.Mul(r), current.Mul(r), mgl64.Vec3{}, c.anchor.Transform.Rotation)
			if ok {
				c.host.ApplyTorqueImpulse(axis, magnitude)
			}
			applied = ok
		}
		if !applied {
			c.logger.Debug("degenerate drag ignored", zap.Stringer("mode", c.mode))
		}

		o.Touch(current)
	})
}

// End finishes the drag. In the homegrown inertial mode the sphere keeps
// its angular velocity and coasts.
func (c *Controller) End() error {
	return c.post(func() {
		c.clear(false)
	})
}

// Interrupt drops the drag when the finger left the sphere
func (c *Controller) Interrupt() error {
	return c.post(func() {
		c.clear(true)
	})
}

// Tick advances the simulation of the active mode to now
func (c *Controller) Tick(now float64) error {
	return c.post(func() {
		switch c.mode {
		case ModeInertialHomegrown:
			c.integrate(now)
		case ModeInertialHostPhysics:
			c.stepHost(now)
		}
	})
}

// SetMode switches the rotation strategy. A running drag is dropped and the
// sphere stops, so no motion carries over from one model to the other.
// Selecting the active mode again drops the drag and stops the sphere too,
// without a MODE_CHANGE event.
func (c *Controller) SetMode(mode Mode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidConfig, mode)
	}

	return c.post(func() {
		from := c.mode

		c.clear(true)
		c.sphere.PhysicsBody.Reset()
		c.mode = mode

		if mode == ModeInertialHostPhysics {
			c.anchor.ResetTransform()
			c.hasHostTick = false
		} else {
			// the anchor was turned by the host physics: move its rotation
			// onto the sphere and put the anchor back
			now := c.clock()
			anchorOrientation := c.anchor.Transform.Rotation
			c.anchor.Transform.SetRotation(mgl64.QuatIdent())
			c.anchor.ResetTransform()
			c.sphere.SetOrientation(anchorOrientation.Mul(c.sphere.Presentation(now)), now, 0)
		}

		if from == mode {
			return
		}
		c.events.emit(ModeChangeEvent{From: from, To: mode})
		c.logger.Info("rotation mode changed", zap.Stringer("from", from), zap.Stringer("to", mode))
	})
}

// BeginPinch records the scale a pinch starts from
func (c *Controller) BeginPinch() error {
	return c.post(func() {
		c.previousScale = c.anchor.Transform.Scale
	})
}

// ChangePinch scales the anchor by zoom relative to the pinch start. The
// presented scale follows over the configured animation duration.
func (c *Controller) ChangePinch(zoom float64) error {
	return c.post(func() {
		if !(zoom > 0) || !rotation.IsValidVec(mgl64.Vec3{zoom, 0, 0}) {
			c.logger.Debug("pinch ignored", zap.Float64("zoom", zoom))
			return
		}

		now := c.clock()
		target := c.previousScale * zoom
		c.scaleAnim = scaleAnimation{
			from:     c.scaleAnim.at(now),
			to:       target,
			start:    now,
			duration: c.config.AnimationDuration,
		}
		c.anchor.Transform.Scale = target
	})
}

// Subscribe adds a listener, run on the update queue
func (c *Controller) Subscribe(eventType EventType, listener EventListener) error {
	return c.post(func() {
		c.events.Subscribe(eventType, listener)
	})
}

// Snapshot returns the state published by the last update
func (c *Controller) Snapshot() Snapshot {
	return *c.snapshot.Load()
}

// Inspect runs fn on the update queue and waits for it. fn must not call the
// controller.
func (c *Controller) Inspect(fn func(sphere *actor.VirtualObject, anchor *actor.RigidBody)) error {
	return c.queue.Sync(func() {
		fn(c.sphere, c.anchor)
	})
}

// Flush waits until every update posted so far ran
func (c *Controller) Flush() error {
	return c.queue.Sync(func() {})
}

// Close runs the pending updates and stops the queue
func (c *Controller) Close() {
	c.queue.Close()
}

func (c *Controller) post(job Job) error {
	return c.queue.Async(func() {
		job()
		c.events.flush()
		c.publish()
	})
}

func (c *Controller) clear(interrupted bool) {
	o := c.touched
	if o == nil {
		return
	}

	wasTouched := o.IsTouched()
	o.ClearTouch()
	if wasTouched {
		c.events.emit(TouchEndEvent{Object: o, Interrupted: interrupted})
	}
}

func (c *Controller) integrate(now float64) {
	o := c.touched
	if o == nil {
		return
	}

	q, ok := o.PhysicsBody.Integrate(now)
	if !ok {
		return
	}

	// compose onto what is shown, not onto a target still being animated to
	o.SetOrientation(rotation.Compose(q, o.Presentation(now)), now, 0)
}

func (c *Controller) stepHost(now float64) {
	if !c.hasHostTick {
		c.lastHostTick = now
		c.hasHostTick = true
		c.events.processSleepEvents(c.anchor)
		return
	}

	dt := now - c.lastHostTick
	c.lastHostTick = now

	c.anchor.Integrate(dt)
	c.anchor.TrySleep(dt, c.config.Host.SleepTime, c.config.Host.SleepVelocity)
	c.events.processSleepEvents(c.anchor)
}

func (c *Controller) publish() {
	now := c.clock()
	body := c.sphere.PhysicsBody

	c.snapshot.Store(&Snapshot{
		Mode:                c.mode,
		Orientation:         c.sphere.Orientation(),
		Presentation:        c.sphere.Presentation(now),
		AnchorOrientation:   c.anchor.Transform.Rotation,
		Scale:               c.anchor.Transform.Scale,
		PresentationScale:   c.scaleAnim.at(now),
		Touched:             c.sphere.IsTouched(),
		AngularVelocity:     body.AngularVelocity,
		AngularAcceleration: body.AngularAcceleration,
		Time:                now,
	})
}

// scaleAnimation moves the presented anchor scale linearly toward a pinch
// target
type scaleAnimation struct {
	from     float64
	to       float64
	start    float64
	duration float64
}

func (a scaleAnimation) at(now float64) float64 {
	if a.duration <= 0 || now >= a.start+a.duration {
		return a.to
	}
	if now <= a.start {
		return a.from
	}

	return a.from + (a.to-a.from)*(now-a.start)/a.duration
}
