// Package bridge gathers the active material of the host and translates it.
//
// A [Collector] is what the transport layer calls on every pull. It never
// returns an error to its caller: environment problems and internal failures
// become an error payload ({"error": "..."}), which the engine-side client
// tells apart from a result by the presence of the "error" key.
//
// The host object graph is read on the main thread. When a pump is
// configured, the whole gather-and-translate step is marshaled onto it with
// [mainthread.Call].
package bridge

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gslbridge/pkg/errors"
	"github.com/matzehuels/gslbridge/pkg/ir"
	"github.com/matzehuels/gslbridge/pkg/mainthread"
	"github.com/matzehuels/gslbridge/pkg/source"
	"github.com/matzehuels/gslbridge/pkg/translate"
)

// Collector turns the host's current state into an IR payload.
//
// The Collector holds no per-request state; concurrent Collect calls are
// serialized by the pump.
type Collector struct {
	Host       source.Host
	Pump       *mainthread.Pump
	Translator *translate.Translator
	Logger     *log.Logger

	// Destination returns the export root for texture copies. It is
	// consulted on every request so preference changes apply immediately.
	// Nil disables copying.
	Destination func() string
}

// NewCollector creates a collector. A nil pump runs translations on the
// calling goroutine; a nil translator uses the built-in handlers.
func NewCollector(host source.Host, pump *mainthread.Pump, tr *translate.Translator, logger *log.Logger) *Collector {
	if logger == nil {
		logger = log.Default()
	}
	if tr == nil {
		tr = translate.New(nil, nil, logger)
	}
	return &Collector{
		Host:       host,
		Pump:       pump,
		Translator: tr,
		Logger:     logger,
	}
}

// Collect returns the translation of the active material, or an error
// payload describing why none is available.
func (c *Collector) Collect(ctx context.Context) ir.Payload {
	res, err := c.Gather(ctx)
	if err != nil {
		msg := Message(err)
		if errors.IsEnvironment(err) {
			c.Logger.Debug("nothing to export", "reason", msg)
		} else {
			c.Logger.Error("export failed", "err", err)
		}
		return ir.ErrorPayload(msg)
	}
	return ir.Payload{Result: res}
}

// Gather is Collect with a structured error instead of an error payload.
func (c *Collector) Gather(ctx context.Context) (*ir.Result, error) {
	if c.Host == nil {
		return nil, errors.New(errors.ErrCodeNoGraphAPI, "bpy unavailable")
	}
	if c.Pump == nil {
		return c.gather(ctx)
	}
	return mainthread.Call(ctx, c.Pump, func() (*ir.Result, error) {
		return c.gather(ctx)
	})
}

// gather runs on the main thread.
func (c *Collector) gather(ctx context.Context) (res *ir.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errors.New(errors.ErrCodeInternal, "%v", r)
		}
	}()

	obj, err := c.Host.ActiveObject()
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New(errors.ErrCodeNoActiveObject, "no active object")
	}

	opts := translate.Options{}
	if c.Destination != nil {
		opts.DestDir = c.Destination()
	}
	return c.Translator.Translate(ctx, obj.ActiveMaterial(), opts)
}

// Message renders err for the error payload. Coded errors keep their
// message (and cause, if any) without the code prefix.
func Message(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}
