package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cybergodev/jwtkit"
	"github.com/cybergodev/jwtkit/internal/history"
	"github.com/cybergodev/jwtkit/internal/qrcode"
)

// exportFile is written by "sign -export". Keys are never included.
type exportFile struct {
	Algorithm string         `json:"algorithm"`
	Payload   jwtkit.Payload `json:"payload"`
	Header    jwtkit.Header  `json:"header"`
	Token     string         `json:"token"`
	Generated time.Time      `json:"generated"`
}

func newFlagSet(a *app, name, args string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: jwtkit %s [flags] %s\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// keyFlags binds -key and -key-file.
type keyFlags struct {
	key     string
	keyFile string
}

func (k *keyFlags) bind(fs *flag.FlagSet, what string) {
	fs.StringVar(&k.key, "key", "", what)
	fs.StringVar(&k.keyFile, "key-file", "", "read the key from this file")
}

func (k *keyFlags) load() (string, error) {
	switch {
	case k.key != "" && k.keyFile != "":
		return "", errors.New("use either -key or -key-file, not both")
	case k.keyFile != "":
		data, err := os.ReadFile(k.keyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read key file: %w", err)
		}
		// a secret file usually ends with a newline that is not part of it
		return strings.TrimRight(string(data), "\r\n"), nil
	case k.key != "":
		return k.key, nil
	default:
		return "", errors.New("a key is required (-key or -key-file)")
	}
}

// readToken takes the token from the first argument, or stdin when the
// argument is "-" or missing.
func (a *app) readToken(args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("expected one token, got %d arguments", len(args))
	}
	if len(args) == 1 && args[0] != "-" {
		return strings.TrimSpace(args[0]), nil
	}

	data, err := io.ReadAll(io.LimitReader(a.stdin, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errors.New("no token given")
	}
	return token, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func runDecode(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "decode", "[token|-]")
	asJSON := fs.Bool("json", false, "print a single JSON document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.readToken(fs.Args())
	if err != nil {
		return err
	}

	decoded, err := a.engine.Decode(token)
	if err != nil {
		return err
	}
	a.remember(token, decoded.Header.Algorithm)

	if *asJSON {
		return a.printJSON(struct {
			Header    json.RawMessage `json:"header"`
			Payload   json.RawMessage `json:"payload"`
			Signature string          `json:"signature"`
		}{decoded.HeaderJSON, decoded.PayloadJSON, decoded.Signature})
	}

	fmt.Fprintf(a.stdout, "Header:\n%s\n\nPayload:\n%s\n\nSignature:\n%s\n",
		indentJSON(decoded.HeaderJSON), indentJSON(decoded.PayloadJSON), decoded.Signature)
	return nil
}

func runSign(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "sign", "")
	var keys keyFlags
	keys.bind(fs, "HMAC secret or PEM private key")
	alg := fs.String("alg", string(jwtkit.HS256), "signing algorithm")
	payloadJSON := fs.String("payload", "{}", "claims as a JSON object")
	payloadFile := fs.String("payload-file", "", "read the claims from this file")
	headerJSON := fs.String("header", "", "extra header parameters as a JSON object")
	expires := fs.String("exp", "", "set exp: hour, day, week or a duration such as 90m")
	issuedAt := fs.Bool("iat", false, "set iat to the current time")
	export := fs.String("export", "", "also write algorithm, header, payload and token as JSON to this file")
	showQR := fs.Bool("qr", false, "print the token as a QR code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	algorithm := jwtkit.Algorithm(*alg)
	key, err := keys.load()
	if err != nil {
		return err
	}

	payload, err := loadPayload(*payloadJSON, *payloadFile)
	if err != nil {
		return err
	}
	now := time.Now()
	if *expires != "" {
		d, err := parseExpiry(*expires)
		if err != nil {
			return err
		}
		payload.SetExpiry(d, now)
	}
	if *issuedAt {
		payload.IssuedAt = jwtkit.NewNumericDate(time.Unix(now.Unix(), 0))
	}

	var overrides map[string]any
	if *headerJSON != "" {
		if overrides, err = decodeObject(*headerJSON); err != nil {
			return fmt.Errorf("invalid -header: %w", err)
		}
	}

	token, err := a.engine.Sign(payload, key, algorithm, overrides)
	if err != nil {
		return err
	}
	a.remember(token, algorithm)

	fmt.Fprintln(a.stdout, token)

	if *export != "" {
		decoded, err := jwtkit.Decode(token)
		if err != nil {
			return err
		}
		if err := writeExport(*export, exportFile{
			Algorithm: string(algorithm),
			Payload:   payload,
			Header:    decoded.Header,
			Token:     token,
			Generated: now.UTC(),
		}); err != nil {
			return err
		}
	}

	if *showQR {
		return a.printQR(token)
	}
	return nil
}

func loadPayload(inline, file string) (jwtkit.Payload, error) {
	data := []byte(inline)
	if file != "" {
		var err error
		if data, err = os.ReadFile(file); err != nil {
			return jwtkit.Payload{}, fmt.Errorf("failed to read payload file: %w", err)
		}
	}

	var payload jwtkit.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return jwtkit.Payload{}, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	return payload, nil
}

func decodeObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("expected a JSON object")
	}
	return m, nil
}

func parseExpiry(s string) (time.Duration, error) {
	switch s {
	case "hour", "1h":
		return jwtkit.ExpiresInHour, nil
	case "day", "1d":
		return jwtkit.ExpiresInDay, nil
	case "week", "7d":
		return jwtkit.ExpiresInWeek, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid -exp %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid -exp %q: must be positive", s)
	}
	return d, nil
}

func writeExport(path string, export exportFile) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func runVerify(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "verify", "[token|-]")
	var keys keyFlags
	keys.bind(fs, "HMAC secret or PEM public key")
	alg := fs.String("alg", "", "expected algorithm (default: the token's alg header)")
	asJSON := fs.Bool("json", false, "print the result as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.readToken(fs.Args())
	if err != nil {
		return err
	}
	key, err := keys.load()
	if err != nil {
		return err
	}

	algorithm := jwtkit.Algorithm(*alg)
	if algorithm == "" {
		decoded, err := a.engine.Decode(token)
		if err != nil {
			return err
		}
		algorithm = decoded.Header.Algorithm
	}

	result := a.engine.VerifyWithContext(ctx, token, key, algorithm)

	if *asJSON {
		if err := a.printJSON(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(a.stdout, "valid (%s): %s\n", result.Algorithm, result.Message)
	} else {
		fmt.Fprintf(a.stdout, "invalid (%s): %s\n", result.Algorithm, result.Error)
	}

	if !result.Valid {
		return errInvalidToken
	}
	return nil
}

func runInspect(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "inspect", "[token|-]")
	asJSON := fs.Bool("json", false, "print the metadata as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.readToken(fs.Args())
	if err != nil {
		return err
	}
	decoded, err := a.engine.Decode(token)
	if err != nil {
		return err
	}

	md := jwtkit.Inspect(decoded, time.Now())
	if *asJSON {
		return a.printJSON(md)
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	row := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s:\t%s\n", name, value)
		}
	}
	row("Algorithm", string(md.Algorithm))
	row("Type", md.Type)
	row("Issuer", md.Issuer)
	row("Subject", md.Subject)
	row("Audience", strings.Join(md.Audience, ", "))
	row("Issued at", formatTime(md.IssuedAt))
	row("Not before", formatTime(md.NotBefore))
	row("Expires", formatTime(md.ExpiresAt))
	row("Time to expiry", md.TimeToExpiry)
	if md.NotYetValid {
		row("Status", "not yet valid")
	} else if md.Expired {
		row("Status", "expired")
	}
	return w.Flush()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return jwtkit.FormatTimestamp(t.Unix())
}

func runHistory(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "history", "[list|show <id>|remove <id>|clear]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.history.Enabled() {
		fmt.Fprintln(a.stderr, "token history is disabled (enable with -history on or JWTKIT_HISTORY_ENABLED=true)")
		return nil
	}

	sub, rest := "list", fs.Args()
	if len(rest) > 0 {
		sub, rest = rest[0], rest[1:]
	}

	switch sub {
	case "list":
		items := a.history.Items()
		if len(items) == 0 {
			fmt.Fprintln(a.stdout, "no tokens in history")
			return nil
		}
		w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tALG\tTOKEN")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID,
				jwtkit.FormatTimestamp(item.Timestamp.Unix()), item.Algorithm, item.Preview)
		}
		return w.Flush()
	case "show":
		if len(rest) != 1 {
			return errors.New("show needs an item id")
		}
		item, ok := a.history.Get(rest[0])
		if !ok {
			return fmt.Errorf("%w: %s", history.ErrNotFound, rest[0])
		}
		fmt.Fprintln(a.stdout, item.Token)
		return nil
	case "remove":
		if len(rest) != 1 {
			return errors.New("remove needs an item id")
		}
		return a.history.Remove(rest[0])
	case "clear":
		return a.history.Clear()
	default:
		return fmt.Errorf("unknown history command %q", sub)
	}
}

func runQR(_ context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "qr", "[token|-]")
	output := fs.String("o", "", "write a PNG image to this file instead of the terminal")
	size := fs.Int("size", qrcode.DefaultSize, "PNG edge length in pixels")
	dataURI := fs.Bool("data-uri", false, "print the PNG as a data URI")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.readToken(fs.Args())
	if err != nil {
		return err
	}

	switch {
	case *output != "":
		png, err := qrcode.Generate(token, *size)
		if err != nil {
			return err
		}
		return os.WriteFile(*output, png, 0o600)
	case *dataURI:
		uri, err := qrcode.DataURI(token, *size)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, uri)
		return nil
	default:
		return a.printQR(token)
	}
}

func (a *app) printQR(token string) error {
	art, err := qrcode.Terminal(token)
	if err != nil {
		return err
	}
	fmt.Fprint(a.stdout, art)
	return nil
}

func runVersion(_ context.Context, a *app, _ []string) error {
	fmt.Fprintf(a.stdout, "jwtkit version %s\n", version)
	fmt.Fprintf(a.stdout, "  Build time: %s\n", buildTime)
	fmt.Fprintf(a.stdout, "  Git commit: %s\n", gitCommit)
	return nil
}
