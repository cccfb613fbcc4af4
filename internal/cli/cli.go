// Package cli implements the interactive command loop shared logic. The
// dispatch lives here, separate from the readline plumbing in the main
// package, so it can be tested without a terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/acrispino/gemini-vision/internal/service"
)

const usage = `Commands:
  analyze <image> [prompt...]   describe an image
  compare <image1> <image2>     compare two images
  list                          list available images
  history                       show recent analyses
  quit                          exit`

type CLI struct {
	service *service.VisionService
	out     io.Writer
}

func New(svc *service.VisionService, out io.Writer) *CLI {
	return &CLI{service: svc, out: out}
}

// Execute runs a single command line and returns false when the loop should
// terminate. Malformed input prints the usage message and keeps the loop
// alive; quit is the only terminal command.
func (c *CLI) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "quit":
		return false

	case "list":
		names, err := c.service.List(ctx)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return true
		}
		if len(names) == 0 {
			fmt.Fprintln(c.out, "No images found.")
			return true
		}
		for _, name := range names {
			fmt.Fprintln(c.out, name)
		}

	case "analyze":
		if len(fields) < 2 {
			fmt.Fprintln(c.out, usage)
			return true
		}
		prompt := strings.Join(fields[2:], " ")
		out := c.service.Analyze(ctx, fields[1], prompt)
		fmt.Fprintln(c.out, out.String())

	case "compare":
		if len(fields) != 3 {
			fmt.Fprintln(c.out, usage)
			return true
		}
		out := c.service.Compare(ctx, fields[1], fields[2])
		fmt.Fprintln(c.out, out.String())

	case "history":
		analyses, err := c.service.History(ctx)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return true
		}
		if len(analyses) == 0 {
			fmt.Fprintln(c.out, "No analyses recorded yet.")
			return true
		}
		for _, a := range analyses {
			fmt.Fprintf(c.out, "[%s] %s %s: %s\n",
				a.CreatedAt.Format("2006-01-02 15:04"), a.Mode, a.Images, a.Response)
		}

	default:
		fmt.Fprintln(c.out, usage)
	}

	return true
}
