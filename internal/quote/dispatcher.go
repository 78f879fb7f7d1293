package quote

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neontj/signquote/internal/pricing"
	"github.com/neontj/signquote/pkg/email"
	"github.com/neontj/signquote/pkg/file"
	"github.com/neontj/signquote/pkg/logger"
	"github.com/neontj/signquote/pkg/validator"
)

// Result is the caller-facing outcome of a submission.
type Result struct {
	OK      bool `json:"ok"`
	DryRun  bool `json:"dryRun,omitempty"`
	Error   Kind `json:"error,omitempty"`
	Details any  `json:"details,omitempty"`
	// Reference identifies the submission in logs and the notification.
	Reference string `json:"-"`
	// RetryAfter is set for rate-limited submissions.
	RetryAfter time.Duration `json:"-"`
}

// Status returns the HTTP status for the result.
func (r Result) Status() int {
	return r.Error.Status()
}

// Client identifies the submitting client.
type Client struct {
	IP string
}

// Mail is the delivery envelope configuration.
type Mail struct {
	Provider string
	From     string
	To       []string
	Timeout  time.Duration
}

// Dispatcher runs the submission pipeline: validate, admit, price, compose,
// then deliver or log in dry-run mode. Delivery is never retried.
type Dispatcher struct {
	cfg       Config
	validator *Validator
	guard     Admitter
	engine    *pricing.Engine
	composer  *Composer
	sender    email.Sender
	mail      Mail
	previews  file.Storage
	logger    *slog.Logger
	newRef    func() string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSender sets the mail collaborator and its envelope. Without a sender
// every submission runs in dry-run mode.
func WithSender(sender email.Sender, mail Mail) DispatcherOption {
	return func(d *Dispatcher) {
		d.sender = sender
		d.mail = mail
	}
}

// WithPreviewStorage uploads preview images so the notification links them.
func WithPreviewStorage(s file.Storage) DispatcherOption {
	return func(d *Dispatcher) {
		d.previews = s
	}
}

// WithEngine replaces the pricing engine.
func WithEngine(e *pricing.Engine) DispatcherOption {
	return func(d *Dispatcher) {
		if e != nil {
			d.engine = e
		}
	}
}

// WithValidator replaces the validator built from Config.StrictFields.
func WithValidator(v *Validator) DispatcherOption {
	return func(d *Dispatcher) {
		if v != nil {
			d.validator = v
		}
	}
}

// WithLogger sets the operator logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithReferenceFunc replaces the quote reference generator.
func WithReferenceFunc(fn func() string) DispatcherOption {
	return func(d *Dispatcher) {
		if fn != nil {
			d.newRef = fn
		}
	}
}

// NewDispatcher builds a dispatcher around guard.
func NewDispatcher(cfg Config, guard Admitter, opts ...DispatcherOption) (*Dispatcher, error) {
	if guard == nil {
		return nil, ErrGuardRequired
	}
	d := &Dispatcher{
		cfg:       cfg,
		validator: NewValidator(WithStrictFields(cfg.StrictFields)),
		guard:     guard,
		engine:    pricing.NewEngine(nil),
		composer:  NewComposer(),
		logger:    slog.New(slog.DiscardHandler),
		newRef:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DryRun reports whether submissions skip delivery.
func (d *Dispatcher) DryRun() bool {
	return d.cfg.DryRun || d.sender == nil
}

// Submit runs raw through the pipeline and maps every failure to a Kind.
func (d *Dispatcher) Submit(ctx context.Context, raw []byte, client Client) Result {
	ref := d.newRef()
	log := d.logger.With(logger.Component("quote_dispatcher"), logger.QuoteRef(ref))
	start := time.Now()

	sub, err := d.validator.Validate(raw)
	if err != nil {
		log.InfoContext(ctx, "quote rejected by validation",
			logger.Outcome(string(KindInvalidRequest)),
			slog.Any("fields", validator.ExtractValidationErrors(err).Fields()),
		)
		res := d.fail(ref, KindInvalidRequest, nil)
		if d.cfg.ShowValidationDetails() {
			res.Details = validator.ExtractValidationErrors(err)
		}
		return res
	}

	admission := d.guard.Admit(ctx, client.IP, sub.Company, sub.Meta.ChallengeToken)
	switch admission.Outcome {
	case OutcomeAdmitted:
	case OutcomeDiscarded:
		return Result{OK: true, Reference: ref}
	case OutcomeRateLimited:
		res := d.fail(ref, KindRateLimited, nil)
		if admission.RateLimit != nil {
			res.RetryAfter = admission.RateLimit.RetryAfter()
		}
		return res
	default:
		return d.fail(ref, KindChallengeFailed, nil)
	}

	breakdown := d.engine.Breakdown(sub.Design.PricingConfiguration())
	log = log.With(slog.Int("estimate", int(breakdown.Total)))

	dryRun := d.DryRun()
	if !dryRun && (d.mail.From == "" || len(d.mail.To) == 0) {
		log.ErrorContext(ctx, "mail delivery is not configured",
			logger.Provider(d.mail.Provider),
			slog.Bool("from_set", d.mail.From != ""),
			slog.Int("to_count", len(d.mail.To)),
			logger.Error(ErrNotConfigured),
		)
		return d.fail(ref, KindNotConfigured, map[string]any{"from": d.mail.From, "toCount": len(d.mail.To)})
	}

	if !dryRun {
		d.uploadPreview(ctx, log, ref, sub)
	}

	note, err := d.composer.Compose(ctx, ref, sub, breakdown.Total)
	if err != nil {
		log.ErrorContext(ctx, "failed to compose notification", logger.Error(err))
		return d.fail(ref, KindServerError, err.Error())
	}

	if dryRun {
		log.InfoContext(ctx, "dry run, notification not sent",
			logger.Outcome("dry_run"),
			slog.String("subject", note.Subject),
			slog.Any("to", d.mail.To),
			slog.String("reply_to", sub.Customer.Email),
			slog.String("text", note.Text),
			slog.Int("html_bytes", len(note.HTML)),
			slog.Any("breakdown", breakdown),
		)
		return Result{OK: true, DryRun: true, Reference: ref}
	}

	sendCtx := ctx
	if d.mail.Timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.mail.Timeout)
		defer cancel()
	}

	err = d.sender.Send(sendCtx, email.Message{
		From:    d.mail.From,
		To:      d.mail.To,
		ReplyTo: sub.Customer.Email,
		Subject: note.Subject,
		Text:    note.Text,
		HTML:    note.HTML,
		Tag:     "quote",
	})
	if err != nil {
		provider, code, isDelivery := email.DeliveryCode(err)
		if !isDelivery {
			provider = d.mail.Provider
		}
		log.ErrorContext(ctx, "failed to send quote notification",
			logger.Provider(provider),
			slog.String("code", code),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		kind := KindServerError
		if isDelivery || errors.Is(err, email.ErrFailedToSendEmail) {
			kind = KindSendFailed
		}
		return d.fail(ref, kind, map[string]any{"provider": provider, "code": code, "message": err.Error()})
	}

	log.InfoContext(ctx, "quote notification sent",
		logger.Outcome("sent"),
		logger.Provider(d.mail.Provider),
		logger.Duration(time.Since(start)),
	)
	return Result{OK: true, Reference: ref}
}

// uploadPreview replaces the inline preview with a hosted URL. Failures only
// log; the notification then embeds the data URL.
func (d *Dispatcher) uploadPreview(ctx context.Context, log *slog.Logger, ref string, sub *Submission) {
	if d.previews == nil || sub.Meta.PreviewImage == "" {
		return
	}

	blob, err := file.ParseDataURL(sub.Meta.PreviewImage, MaxPreviewBytes)
	if err != nil {
		log.WarnContext(ctx, "preview image rejected, keeping inline", logger.Error(err))
		return
	}
	obj, err := d.previews.Put(ctx, ref+blob.Extension(), blob)
	if err != nil {
		log.WarnContext(ctx, "preview upload failed, keeping inline", logger.Error(err))
		return
	}
	sub.PreviewURL = obj.URL
}

// fail builds a failed result. details are attached only for internal
// failures in debug mode.
func (d *Dispatcher) fail(ref string, kind Kind, details any) Result {
	res := Result{Error: kind, Reference: ref}
	if kind.Internal() && d.cfg.Debug() {
		res.Details = details
	}
	return res
}
