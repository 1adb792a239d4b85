package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/ShareBridge/internal/callback"
	"github.com/GriffinCanCode/ShareBridge/internal/imaging"
	"github.com/GriffinCanCode/ShareBridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ShareBridge/internal/pageref"
	"github.com/GriffinCanCode/ShareBridge/internal/settings"
	"github.com/GriffinCanCode/ShareBridge/internal/share"
	"github.com/GriffinCanCode/ShareBridge/internal/shared/id"
	"github.com/GriffinCanCode/ShareBridge/internal/upload"
)

// ImageProcessor decodes and normalizes image bytes.
type ImageProcessor interface {
	Process(data []byte) (imaging.Result, error)
}

// Recorder receives per-invocation measurements.
type Recorder interface {
	RecordShare(outcome, kind string)
	ObserveStage(stage string, d time.Duration)
}

// Options wires a Pipeline. Processor, Uploader and Builder are required.
type Options struct {
	Processor      ImageProcessor
	Uploader       upload.Uploader
	Builder        *pageref.Builder
	Scheme         string // deep link scheme, defaults to callback.DefaultScheme
	DefaultProject string // used when the store has no project name
	Logger         *logging.Logger
	Clock          func() time.Time
	IDs            *id.Generator
}

// Pipeline is stateless between runs and safe for concurrent use.
type Pipeline struct {
	processor      ImageProcessor
	uploader       upload.Uploader
	builder        *pageref.Builder
	scheme         string
	defaultProject string
	logger         *logging.Logger
	now            func() time.Time
	ids            *id.Generator
	recorder       Recorder
}

// Result describes how an invocation ended.
type Result struct {
	InvocationID id.InvocationID
	Kind         share.Kind
	Outcome      callback.Outcome
	// Stage is the last stage entered: StageCompleted on success, the
	// failing stage otherwise.
	Stage     Stage
	Err       error
	TargetURL string
	DeepLink  string
}

// New creates a pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		processor:      opts.Processor,
		uploader:       opts.Uploader,
		builder:        opts.Builder,
		scheme:         opts.Scheme,
		defaultProject: opts.DefaultProject,
		logger:         opts.Logger,
		now:            opts.Clock,
		ids:            opts.IDs,
	}
	if p.scheme == "" {
		p.scheme = callback.DefaultScheme
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.ids == nil {
		p.ids = id.Default()
	}
	return p
}

// WithMetrics attaches a recorder.
func (p *Pipeline) WithMetrics(r Recorder) *Pipeline {
	p.recorder = r
	return p
}

// run carries the state of a single invocation.
type run struct {
	p       *Pipeline
	log     *logging.Logger
	result  Result
	entered time.Time
}

// Run processes payload for host. The store is read once, up front. Run
// always returns a Result and always completes host exactly once, before
// returning.
func (p *Pipeline) Run(ctx context.Context, host callback.Host, store settings.Getter, payload share.Payload) Result {
	guard := callback.NewCompletion(host)
	defer guard.Release()

	r := &run{p: p, result: Result{InvocationID: p.ids.NewInvocation(), Stage: StageIdle}}
	r.log = p.logger.ForInvocation(r.result.InvocationID.String())
	defer r.finish()

	cfg := settings.Read(store, p.defaultProject)
	r.log.Debug("share invocation started",
		zap.String("project", cfg.ProjectName),
		zap.Int("attachments", len(payload.Attachments)),
	)

	r.enter(StageClassifying)
	sel, err := share.Classify(payload)
	if err != nil {
		return r.fail(err)
	}
	r.result.Kind = sel.Kind

	r.enter(StageExtracting)
	req, err := share.Resolve(ctx, payload, sel)
	if err != nil {
		return r.fail(err)
	}

	var ref pageref.Reference
	switch req := req.(type) {
	case share.LinkShare, share.TextShare:
		link, err := share.Extract(req)
		if err != nil {
			return r.fail(err)
		}
		r.log.Debug("link extracted",
			zap.String("title", link.Title),
			zap.String("url", link.URL.String()),
		)
		ref = pageref.ForLink(link)

	case share.ImageShare:
		img, err := p.processor.Process(req.Bytes)
		if err != nil {
			return r.fail(err)
		}
		r.log.Debug("image processed",
			zap.String("format", img.Format),
			zap.Bool("normalized", img.Normalized),
			zap.String("capture_date", img.Metadata.CaptureDate),
		)

		r.enter(StageUploading)
		if !cfg.HasToken() {
			return r.fail(share.ErrCredentialMissing)
		}
		hosted, err := p.uploader.Upload(ctx, cfg.UploadToken, img.Bytes)
		if err != nil {
			return r.fail(err)
		}
		r.log.Debug("image uploaded", zap.String("hosted_url", hosted))
		ref = pageref.ForImage(hosted, img.Metadata, p.now())

	default:
		return r.fail(fmt.Errorf("%w: unhandled request %T", share.ErrClassification, req))
	}

	r.enter(StageBuildingReference)
	target := p.builder.URL(cfg.ProjectName, ref)
	r.result.TargetURL = target
	r.log.Debug("page reference built", zap.String("target_url", target))

	link, err := callback.DeepLink(p.scheme, target)
	if err != nil {
		return r.fail(err)
	}
	r.result.DeepLink = link.String()
	r.log.Debug("callback url built", zap.String("callback_url", r.result.DeepLink))

	r.enter(StageDispatching)
	outcome, err := callback.ForHost(host, r.log).Dispatch(ctx, link)
	if err != nil {
		return r.fail(err)
	}

	r.enter(StageCompleted)
	r.result.Outcome = outcome
	return r.result
}

func (r *run) enter(stage Stage) {
	r.observe()
	r.result.Stage = stage
	r.entered = time.Now()
	r.log.Debug("stage entered", zap.String("stage", string(stage)))
}

func (r *run) observe() {
	if r.p.recorder == nil || r.entered.IsZero() {
		return
	}
	r.p.recorder.ObserveStage(string(r.result.Stage), time.Since(r.entered))
}

func (r *run) fail(err error) Result {
	r.result.Outcome = callback.Undeliverable
	r.result.Err = err
	return r.result
}

// finish logs and records the outcome. It runs before the completion guard
// is released.
func (r *run) finish() {
	if r.result.Stage != StageCompleted {
		r.observe()
	}
	kind := share.KindOf(r.result.Err)
	if r.p.recorder != nil {
		r.p.recorder.RecordShare(string(r.result.Outcome), kind)
	}

	fields := []zap.Field{
		zap.String("outcome", string(r.result.Outcome)),
		zap.String("stage", string(r.result.Stage)),
		zap.String("share_kind", string(r.result.Kind)),
	}
	if r.result.Err != nil {
		r.log.Warn("share failed", append(fields, zap.String("failure", kind), zap.Error(r.result.Err))...)
		return
	}
	r.log.Info("share completed", fields...)
}
