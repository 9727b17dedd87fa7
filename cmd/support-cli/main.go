// Interactive terminal client for the IT support intake assistant.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/client"
)

func main() {
	server := flag.String("server", envOr("SUPPORT_SERVER", "http://localhost:8080"), "support server base URL")
	name := flag.String("name", envOr("SUPPORT_NAME", ""), "display name sent with requests")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var opts []client.Option
	if *name != "" {
		opts = append(opts, client.WithUsername(*name))
	}
	api, err := client.New(*server, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	ctrl := client.NewController(api)

	ctx := context.Background()
	if err := ctrl.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "could not reach the support server:", err)
		os.Exit(1)
	}

	ui := &cli{ctrl: ctrl, in: bufio.NewScanner(os.Stdin)}
	ui.run(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type cli struct {
	ctrl    *client.Controller
	in      *bufio.Scanner
	printed int
}

func (c *cli) run(ctx context.Context) {
	fmt.Println("Connected. Type a button number, text, or /help.")
	for {
		c.render()
		fmt.Print("> ")
		if !c.in.Scan() {
			return
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if done := c.handle(ctx, line); done {
			return
		}
	}
}

// render prints transcript messages added since the last prompt, then the
// current affordances.
func (c *cli) render() {
	transcript := c.ctrl.Transcript()
	for ; c.printed < len(transcript); c.printed++ {
		m := transcript[c.printed]
		switch m.Origin {
		case client.OriginUser:
			fmt.Println("you:", m.Text)
		case client.OriginError:
			fmt.Println("!!", m.Text)
		default:
			fmt.Println()
			fmt.Println(m.Text)
			if m.TicketID != "" {
				fmt.Println("   ticket:", m.TicketID)
			}
		}
	}

	turn := c.ctrl.Turn()
	for i, b := range turn.Buttons {
		label := b.Label
		if b.Icon != "" {
			label = b.Icon + " " + label
		}
		fmt.Printf("  [%d] %s\n", i+1, label)
	}
	if turn.ShowCheckboxes {
		for i, cb := range turn.Checkboxes {
			fmt.Printf("  (%d) %s\n", i+1, cb.Label)
		}
		fmt.Println("  pick options with: /check 1,3")
	}
	if len(turn.Solutions) > 0 {
		fmt.Println("  rate each step with: /step <n> tried|not_tried|helpful|not_helpful")
	}
	if turn.ShowStarRating {
		fmt.Println("  rate the conversation with: /rate 1-5")
	}
	if turn.ShowAttachmentUpload {
		fmt.Printf("  attach screenshots with: /attach <file> (%d pending)\n", c.ctrl.Attachments().Len())
	}
	if turn.ShowTextInput {
		fmt.Println("  (type your message)")
	}
}

func (c *cli) handle(ctx context.Context, line string) bool {
	turn := c.ctrl.Turn()

	switch {
	case line == "/quit" || line == "/exit":
		return true

	case line == "/help":
		fmt.Println("commands: <button number>, free text, /check 1,3, /step <n> <status>, /rate 1-5, /attach <file>, /restart, /quit")
		return false

	case line == "/restart":
		c.report(c.ctrl.Restart(ctx))
		return false

	case strings.HasPrefix(line, "/attach "):
		c.attach(strings.TrimSpace(strings.TrimPrefix(line, "/attach ")))
		return false

	case strings.HasPrefix(line, "/rate "):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/rate ")))
		if err != nil {
			fmt.Println("!! usage: /rate 1-5")
			return false
		}
		c.report(c.ctrl.RateStars(ctx, n))
		return false

	case strings.HasPrefix(line, "/step "):
		c.stepFeedback(ctx, strings.Fields(strings.TrimPrefix(line, "/step ")))
		return false

	case strings.HasPrefix(line, "/check "):
		c.checkboxes(ctx, turn, strings.TrimSpace(strings.TrimPrefix(line, "/check ")))
		return false
	}

	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(turn.Buttons) {
		c.report(c.ctrl.Press(ctx, turn.Buttons[n-1]))
		return false
	}

	if turn.ShowTextInput {
		c.report(c.ctrl.SubmitText(ctx, line))
		return false
	}

	fmt.Println("!! pick a button by number, or /help")
	return false
}

func (c *cli) attach(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("!!", err)
		return
	}
	contentType := map[string]string{
		".jpg": "image/jpeg", ".jpeg": "image/jpeg", ".png": "image/png",
		".gif": "image/gif", ".webp": "image/webp",
	}[strings.ToLower(filepath.Ext(path))]

	errs := c.ctrl.Attachments().Add(client.PendingAttachment{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	})
	for _, err := range errs {
		fmt.Println("!!", err)
	}
	if len(errs) == 0 {
		fmt.Printf("attached %s (%d pending)\n", filepath.Base(path), c.ctrl.Attachments().Len())
	}
}

func (c *cli) stepFeedback(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Println("!! usage: /step <n> tried|not_tried|helpful|not_helpful")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("!! usage: /step <n> <status>")
		return
	}
	c.report(c.ctrl.ResolveStep(ctx, n, client.StepStatus(args[1])))
}

func (c *cli) checkboxes(ctx context.Context, turn client.Turn, picks string) {
	if !turn.ShowCheckboxes {
		fmt.Println("!! no options to select right now")
		return
	}
	var selected []string
	for _, p := range strings.Split(picks, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 || n > len(turn.Checkboxes) {
			fmt.Println("!! bad option:", p)
			return
		}
		selected = append(selected, turn.Checkboxes[n-1].Value)
	}
	c.report(c.ctrl.ConfirmCheckboxes(ctx, selected))
}

func (c *cli) report(err error) {
	if err != nil {
		fmt.Println("!!", err)
	}
}
