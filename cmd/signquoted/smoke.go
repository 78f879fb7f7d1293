package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/neontj/signquote/internal/httpapi"
	"github.com/neontj/signquote/pkg/config"
	"github.com/neontj/signquote/pkg/email"
)

var errSmokeFailed = errors.New("smoke.errors.failed")

// sampleQuote is a complete submission accepted by the default validator.
var sampleQuote = map[string]any{
	"customer": map[string]any{
		"name":  "Smoke Test",
		"email": "smoke@example.com",
		"notes": "Automated smoke test, safe to ignore.",
	},
	"design": map[string]any{
		"text":           "SMOKE",
		"fontId":         "n1",
		"sizeId":         "small",
		"colorMode":      "single",
		"singleColor":    "#FF00AA",
		"backboardStyle": "rectangle",
		"backboardColor": "black",
	},
	"meta": map[string]any{
		"page":     "/smoke",
		"estimate": 0,
	},
}

// smoke posts the sample quote to a running server, or with --mail sends a
// test message through the configured provider without a server.
func smoke(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("smoke", flag.ContinueOnError)
	fs.SetOutput(out)
	url := fs.String("url", "http://localhost:8080", "server base URL")
	mail := fs.Bool("mail", false, "send a test message through MAIL_PROVIDER instead")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if *mail {
		return smokeMail(ctx, out)
	}
	return smokeQuote(ctx, http.DefaultClient, strings.TrimRight(*url, "/"), out)
}

func smokeQuote(ctx context.Context, client *http.Client, baseURL string, out io.Writer) error {
	body, err := json.Marshal(sampleQuote)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/quote", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d %s ref=%s\n%s\n", resp.StatusCode, http.StatusText(resp.StatusCode),
		resp.Header.Get(httpapi.ReferenceHeader), bytes.TrimSpace(respBody))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", errSmokeFailed, resp.StatusCode)
	}
	return nil
}

func smokeMail(ctx context.Context, out io.Writer) error {
	var cfg email.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	sender, err := email.New(ctx, cfg)
	if err != nil {
		return err
	}

	err = sender.Send(ctx, email.Message{
		From:    cfg.Sender(),
		To:      cfg.Recipients(),
		Subject: "Mail Smoke Test",
		Text:    "If you got this, credentials and region are correct.",
		Tag:     "smoke",
	})
	if err != nil {
		if provider, code, ok := email.DeliveryCode(err); ok {
			fmt.Fprintf(out, "%s FAIL: code=%s\n", provider, code)
		}
		return errors.Join(errSmokeFailed, err)
	}
	fmt.Fprintf(out, "%s OK: sent to %d recipient(s)\n", cfg.ProviderName(), len(cfg.Recipients()))
	return nil
}
