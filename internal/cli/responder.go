// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Responder answers one chat message, writing the reply to w.
type Responder interface {
	Respond(ctx context.Context, message string, w io.Writer) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, message string, w io.Writer) error

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, message string, w io.Writer) error {
	return f(ctx, message, w)
}

// EchoResponder repeats the message back. It stands in for a model client.
type EchoResponder struct {
	// Width wraps the reply; zero disables wrapping
	Width int
}

// Respond writes the labelled message to w.
func (r EchoResponder) Respond(ctx context.Context, message string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	label := "chad"
	indent := strings.Repeat(" ", len(label)+2)
	body := message
	if r.Width > len(indent) {
		body = WrapText(message, r.Width-len(indent))
	}
	body = strings.ReplaceAll(body, "\n", "\n"+indent)

	_, err := fmt.Fprintf(w, "%s: %s\n", AssistantStyle.Render(label), body)
	return err
}
