package httpapi

import (
	"net/http"
	"strings"

	"github.com/neontj/signquote/handler"
	"github.com/neontj/signquote/internal/catalog"
	"github.com/neontj/signquote/internal/pricing"
	"github.com/neontj/signquote/internal/quote"
	"github.com/neontj/signquote/pkg/binder"
	"github.com/neontj/signquote/pkg/sanitizer"
	"github.com/neontj/signquote/pkg/validator"
)

const maxEstimateBodyBytes = 64 << 10

type estimateResponse struct {
	OK        bool              `json:"ok"`
	Estimate  pricing.Price     `json:"estimate"`
	Display   string            `json:"display"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

func (a *api) estimate() http.HandlerFunc {
	h := func(_ handler.Context, req pricing.Configuration) handler.Response {
		req, err := normalizeEstimate(req)
		if err != nil {
			return handler.JSON(errorResponse{Error: string(quote.KindInvalidRequest), Details: validator.ExtractValidationErrors(err)},
				handler.WithJSONStatus(http.StatusBadRequest))
		}

		b := a.engine.Breakdown(req)
		return handler.JSON(estimateResponse{
			OK:        true,
			Estimate:  b.Total,
			Display:   b.Total.String(),
			Breakdown: b,
		})
	}

	return handler.Wrap(h,
		handler.WithBinder[handler.Context, pricing.Configuration](binder.JSON(maxEstimateBodyBytes)),
		handler.WithDecorators(handler.Recover[handler.Context, pricing.Configuration]()),
		handler.WithErrorHandler[handler.Context, pricing.Configuration](a.errorHandler()),
	)
}

// normalizeEstimate applies the submission rules for the priced fields.
// Optional enums may be empty and then price at their defaults.
func normalizeEstimate(cfg pricing.Configuration) (pricing.Configuration, error) {
	cfg.Text = sanitizer.Apply(cfg.Text, sanitizer.NormalizeNewlines, sanitizer.NFC, sanitizer.Trim)
	cfg.FontID = catalog.NormalizeFontID(cfg.FontID)
	cfg.SizeID = strings.ToLower(strings.TrimSpace(cfg.SizeID))
	cfg.BackboardStyle = strings.ToLower(strings.TrimSpace(cfg.BackboardStyle))
	cfg.BackboardColor = strings.ToLower(strings.TrimSpace(cfg.BackboardColor))
	cfg.ColorMode = strings.ToLower(strings.TrimSpace(cfg.ColorMode))

	err := validator.Apply(
		validator.Required("text", cfg.Text),
		validator.MaxChars("text", cfg.Text, quote.MaxTextChars),
		validator.MaxLines("text", cfg.Text, quote.MaxTextLines),
		validator.MaxLineChars("text", cfg.Text, quote.MaxTextLineChars),
		validator.InList("fontId", cfg.FontID, catalog.Fonts.Keys()),
		validator.Required("sizeId", cfg.SizeID),
		validator.When(cfg.SizeID != "", validator.InList("sizeId", cfg.SizeID, catalog.Sizes.Keys())),
		validator.When(cfg.BackboardStyle != "", validator.InList("backboardStyle", cfg.BackboardStyle, catalog.BackboardStyles.Keys())),
		validator.When(cfg.BackboardColor != "", validator.InList("backboardColor", cfg.BackboardColor, catalog.BackboardColors.Keys())),
		validator.When(cfg.ColorMode != "", validator.InList("colorMode", cfg.ColorMode, catalog.ColorModes.Keys())),
	)
	return cfg, err
}

type sizeEntry struct {
	catalog.Size
	Dimensions string `json:"dimensions"`
}

type catalogResponse struct {
	Fonts           []catalog.Font  `json:"fonts"`
	Sizes           []sizeEntry     `json:"sizes"`
	BackboardStyles []catalog.Style `json:"backboardStyles"`
	BackboardColors []catalog.Color `json:"backboardColors"`
	ColorModes      []catalog.Mode  `json:"colorModes"`
}

func (a *api) listCatalog(w http.ResponseWriter, r *http.Request) {
	sizes := catalog.Sizes.All()
	entries := make([]sizeEntry, len(sizes))
	for i, s := range sizes {
		entries[i] = sizeEntry{Size: s, Dimensions: s.Dimensions()}
	}

	_ = handler.JSON(catalogResponse{
		Fonts:           catalog.Fonts.All(),
		Sizes:           entries,
		BackboardStyles: catalog.BackboardStyles.All(),
		BackboardColors: catalog.BackboardColors.All(),
		ColorModes:      catalog.ColorModes.All(),
	}).Render(w, r)
}
