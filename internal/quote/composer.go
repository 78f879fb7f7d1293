package quote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/neontj/signquote/internal/pricing"
	"github.com/neontj/signquote/pkg/email/templates"
	"github.com/neontj/signquote/pkg/sanitizer"
)

// Placeholders for absent optional fields.
const (
	NotProvided     = "Not provided"
	UnknownPage     = "Unknown"
	NoNotes         = "No additional notes"
	AttachedInHTML  = "Attached in HTML"
	SubjectPrefix   = "NeonTJ Quote: "
	SubjectExcerpt  = 50
	SubjectEllipsis = "..."
)

// Notification is a composed operator email.
type Notification struct {
	Subject string
	Text    string
	HTML    string
}

// Composer renders submissions into notifications.
type Composer struct {
	subjectPrefix string
}

// NewComposer returns a composer using the default subject prefix.
func NewComposer() *Composer {
	return &Composer{subjectPrefix: SubjectPrefix}
}

// Compose renders sub with the authoritative estimate. ref is the quote
// reference shown in the body. It fails only when required fields are
// missing or the HTML template fails.
func (c *Composer) Compose(ctx context.Context, ref string, sub *Submission, estimate pricing.Price) (Notification, error) {
	if sub == nil || strings.TrimSpace(sub.Customer.Name) == "" ||
		strings.TrimSpace(sub.Customer.Email) == "" || strings.TrimSpace(sub.Design.Text) == "" {
		return Notification{}, ErrIncompleteSubmission
	}

	v := newView(ref, sub, estimate)

	html, err := templates.Render(ctx, notificationPage(v))
	if err != nil {
		return Notification{}, errors.Join(ErrRenderFailed, err)
	}

	return Notification{
		Subject: c.Subject(sub.Design.Text),
		Text:    plainText(v),
		HTML:    html,
	}, nil
}

// Subject returns the prefix plus a collapsed excerpt of text.
func (c *Composer) Subject(text string) string {
	return c.subjectPrefix + sanitizer.Truncate(sanitizer.SingleLine(text), SubjectExcerpt, SubjectEllipsis)
}

// view is the display model shared by the text and HTML bodies.
type view struct {
	Reference      string
	Name           string
	Email          string
	Phone          string
	Text           string
	Font           string
	Size           string
	Multicolor     bool
	SingleColor    string
	LetterColors   []string
	Backboard      string
	Notes          string
	Page           string
	Estimate       string
	ClientEstimate string
	PreviewURL     string
	PreviewImage   string
}

func newView(ref string, sub *Submission, estimate pricing.Price) view {
	d := sub.Design
	size := d.Size()
	v := view{
		Reference:    ref,
		Name:         sub.Customer.Name,
		Email:        sub.Customer.Email,
		Phone:        orDefault(sub.Customer.Phone, NotProvided),
		Text:         d.Text,
		Font:         d.Font().Label,
		Size:         fmt.Sprintf("%s (%s)", size.Label, size.Dimensions()),
		Multicolor:   d.Multicolor(),
		SingleColor:  d.SingleColor,
		Backboard:    fmt.Sprintf("%s (%s)", d.Style().Label, d.Backboard().Label),
		Notes:        orDefault(sub.Customer.Notes, NoNotes),
		Page:         orDefault(sub.Meta.Page, UnknownPage),
		Estimate:     estimate.String(),
		PreviewURL:   sub.PreviewURL,
		PreviewImage: sub.Meta.PreviewImage,
	}
	if v.Multicolor {
		v.LetterColors = d.LetterColors()
	}
	if sub.Meta.Estimate != nil {
		if client := pricing.Price(math.Round(*sub.Meta.Estimate)); client != estimate {
			v.ClientEstimate = client.String()
		}
	}
	return v
}

func (v view) colors() string {
	if v.Multicolor {
		return "Multicolor: " + strings.Join(v.LetterColors, ", ")
	}
	return "Single (" + v.SingleColor + ")"
}

func (v view) estimate() string {
	if v.ClientEstimate != "" {
		return v.Estimate + " (client showed " + v.ClientEstimate + ")"
	}
	return v.Estimate
}

func (v view) preview() string {
	switch {
	case v.PreviewURL != "":
		return v.PreviewURL
	case v.PreviewImage != "":
		return AttachedInHTML
	default:
		return NotProvided
	}
}

// previewSrc returns the image source for the HTML body.
func (v view) previewSrc() string {
	if v.PreviewURL != "" {
		return v.PreviewURL
	}
	return v.PreviewImage
}

func plainText(v view) string {
	lines := []string{
		"New quote request from " + v.Name,
		"Reference: " + v.Reference,
		"",
		"Contact",
		"- Email: " + v.Email,
		"- Phone: " + v.Phone,
		"",
		"Design",
		"- Text:",
		v.Text,
		"- Font: " + v.Font,
		"- Size: " + v.Size,
		"- Colors: " + v.colors(),
		"- Backboard: " + v.Backboard,
		"",
		"Notes",
		v.Notes,
		"",
		"Meta",
		"- Page: " + v.Page,
		"- Estimate: " + v.estimate(),
		"- Preview: " + v.preview(),
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
