package quote

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

const (
	panelStyle   = "background:#121212;border:1px solid #333;border-radius:10px;padding:10px;"
	headingStyle = "margin:16px 0 6px 0;font-size:14px;color:#B7B7B7;"
	cellStyle    = "padding:4px 8px;font:13px/1.4 Inter,Arial,sans-serif;color:#EDEDED;"
)

// write emits static markup followed by escaped values.
func write(w io.Writer, markup string, values ...string) error {
	if _, err := io.WriteString(w, markup); err != nil {
		return err
	}
	for _, v := range values {
		if _, err := io.WriteString(w, templ.EscapeString(v)); err != nil {
			return err
		}
	}
	return nil
}

func notificationPage(v view) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<!doctype html><html><body style="margin:0;padding:0;background:#0B0B0C;">`+
			`<div style="max-width:640px;margin:0 auto;padding:20px;font:14px/1.6 Inter,Arial,sans-serif;color:#EDEDED;">`+
			`<h2 style="margin:0 0 12px 0;font-size:20px;">New quote request from `, v.Name); err != nil {
			return err
		}
		if err := write(w, `</h2><div style="font-size:12px;color:#8A8A8A;">Reference: `, v.Reference); err != nil {
			return err
		}
		if err := write(w, `</div>`); err != nil {
			return err
		}

		sections := []templ.Component{
			section("Contact", contactBlock(v)),
			section("Design", designBlock(v)),
			section("Notes", notesBlock(v)),
			section("Meta", metaBlock(v)),
		}
		for _, s := range sections {
			if err := s.Render(ctx, w); err != nil {
				return err
			}
		}
		return write(w, `</div></body></html>`)
	})
}

func section(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, `<h3 style="`+headingStyle+`">`, title); err != nil {
			return err
		}
		if err := write(w, `</h3><div style="`+panelStyle+`">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</div>`)
	})
}

func line(label, value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<div>- `, label); err != nil {
			return err
		}
		if err := write(w, `: `, value); err != nil {
			return err
		}
		return write(w, `</div>`)
	})
}

func group(items ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, item := range items {
			if err := item.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func contactBlock(v view) templ.Component {
	return group(
		templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			if err := write(w, `<div>- Email: <a href="mailto:`, v.Email); err != nil {
				return err
			}
			if err := write(w, `" style="color:#9AE6FF;">`, v.Email); err != nil {
				return err
			}
			return write(w, `</a></div>`)
		}),
		line("Phone", v.Phone),
	)
}

func designBlock(v view) templ.Component {
	return group(
		templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			if err := write(w, `<div style="margin-bottom:8px;">- <strong>Text</strong>:</div>`+
				`<pre style="white-space:pre-wrap;margin:0 0 8px 0;color:#EDEDED;">`, v.Text); err != nil {
				return err
			}
			return write(w, `</pre>`)
		}),
		line("Font", v.Font),
		line("Size", v.Size),
		line("Backboard", v.Backboard),
		swatches(v),
		previewImage(v.previewSrc()),
	)
}

func swatches(v view) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Color"
		if v.Multicolor {
			title = "Colors (per-letter)"
		}
		if err := write(w, `<p style="margin:8px 0 4px;font-weight:600;color:#EDEDED;">`, title); err != nil {
			return err
		}
		if err := write(w, `</p><table cellspacing="0" cellpadding="0" style="border-collapse:collapse;background:#121212;border:1px solid #333;border-radius:8px;overflow:hidden;"><tbody>`); err != nil {
			return err
		}
		if v.Multicolor {
			for i, hex := range v.LetterColors {
				if err := swatchRow("Letter "+strconv.Itoa(i+1), hex).Render(ctx, w); err != nil {
					return err
				}
			}
		} else if err := swatchRow("Color", v.SingleColor).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</tbody></table>`)
	})
}

func swatchRow(label, hex string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<tr><td style="`+cellStyle+`">`, label); err != nil {
			return err
		}
		if err := write(w, `</td><td style="padding:4px 8px;">`+
			`<span style="display:inline-block;width:14px;height:14px;border:1px solid #999;vertical-align:middle;background:`, hex); err != nil {
			return err
		}
		if err := write(w, `;"></span><span style="font:13px/1.4 Inter,Arial,sans-serif;color:#EDEDED;margin-left:8px;">`, hex); err != nil {
			return err
		}
		return write(w, `</span></td></tr>`)
	})
}

func previewImage(src string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if src == "" {
			return nil
		}
		if err := write(w, `<div style="margin-top:12px;"><img src="`, src); err != nil {
			return err
		}
		return write(w, `" alt="Sign preview" style="max-width:480px;width:100%;border-radius:12px;border:1px solid #333;"/></div>`)
	})
}

func notesBlock(v view) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if err := write(w, `<div style="white-space:pre-wrap;">`, v.Notes); err != nil {
			return err
		}
		return write(w, `</div>`)
	})
}

func metaBlock(v view) templ.Component {
	return group(
		line("Page", v.Page),
		line("Estimate", v.estimate()),
		line("Preview", v.preview()),
	)
}
