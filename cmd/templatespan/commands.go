package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"github.com/spf13/cobra"
)

var errMissingText = errors.New("--text is required")

type pairFlags struct {
	text     string
	template string
}

func (p *pairFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.text, "text", "", "rendered notification text")
	cmd.Flags().StringVar(&p.template, "template", "", "notification template with {{ key: value }} placeholders")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "templatespan",
		Short:        "Locate template placeholders inside rendered notification text",
		SilenceUsage: true,
	}
	root.AddCommand(newParseCmd(), newHighlightCmd(), newBatchCmd())
	return root
}

func newParseCmd() *cobra.Command {
	var pair pairFlags
	var resolvedOnly bool

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the placeholder spans as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pair.text == "" {
				return errMissingText
			}
			spans := notiftemplate.Parse(pair.text, pair.template)
			if resolvedOnly {
				spans = notiftemplate.Resolved(spans)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(spans)
		},
	}
	pair.register(cmd)
	cmd.Flags().BoolVar(&resolvedOnly, "resolved-only", false, "omit spans that could not be located")
	return cmd
}

func newHighlightCmd() *cobra.Command {
	var pair pairFlags
	var format, classPrefix string

	cmd := &cobra.Command{
		Use:   "highlight",
		Short: "Print the text with placeholder spans highlighted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pair.text == "" {
				return errMissingText
			}
			h, err := highlighter(format, classPrefix)
			if err != nil {
				return err
			}
			spans := notiftemplate.Parse(pair.text, pair.template)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), notiftemplate.Highlight(pair.text, spans, h))
			return err
		},
	}
	pair.register(cmd)
	cmd.Flags().StringVar(&format, "format", "html", "output format: html, markdown or plain")
	cmd.Flags().StringVar(&classPrefix, "class-prefix", "notification", "CSS class prefix for html output")
	return cmd
}

// batchLine is one JSON object per input line.
type batchLine struct {
	Text     string `json:"text"`
	Template string `json:"template"`
}

// batchSpans always carries the spans key, empty for lines without
// placeholders; lines that fail to decode produce a batchError instead.
type batchSpans struct {
	Line  int                             `json:"line"`
	Spans []notiftemplate.PlaceholderSpan `json:"spans"`
}

type batchError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch",
		Short: "Read {\"text\",\"template\"} JSON lines from stdin and print spans per line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runBatch(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)

	for n := 1; scanner.Scan(); n++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var res any
		var line batchLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			res = batchError{Line: n, Error: err.Error()}
		} else {
			res = batchSpans{Line: n, Spans: notiftemplate.Parse(line.Text, line.Template)}
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func highlighter(format, classPrefix string) (notiftemplate.Highlighter, error) {
	switch format {
	case "html":
		return notiftemplate.HTML(classPrefix), nil
	case "markdown", "plain":
		return notiftemplate.HighlighterFor(format), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
