package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"toolenv/internal/listing"
	"toolenv/internal/store"
	"toolenv/internal/telemetry"
	"toolenv/internal/tui"
)

const experimentalNotice = "`toolenv list` is experimental and may change without warning."

var listShowPaths bool

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed tools",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().BoolVar(&listShowPaths, "show-paths", false, "Show the environment directory of each tool")
	return cmd
}

type listOutput struct {
	Tools       []listedTool       `json:"tools"`
	Diagnostics []listedDiagnostic `json:"diagnostics"`
}

type listedTool struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Requirement   string `json:"requirement"`
	PythonVersion string `json:"python_version"`
	Root          string `json:"root"`
	Interpreter   string `json:"interpreter"`
}

type listedDiagnostic struct {
	Kind    string `json:"kind"`
	Tool    string `json:"tool"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func runList(cmd *cobra.Command, _ []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	styles := tui.NewStyles(stderr)

	warn(stderr, styles, experimentalNotice)

	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	svc := listing.New(store.New(s.cfg.ToolDir),
		listing.WithLogger(s.logger),
		listing.WithObserver(telemetry.Global()),
	)
	res, err := svc.List(commandContext(cmd))
	if err != nil {
		return err
	}

	if outputJSON {
		if err := writeListJSON(stdout, res); err != nil {
			return err
		}
	} else {
		writeListText(stdout, res, listShowPaths)
	}

	for _, d := range res.Diagnostics {
		if d.IsReceiptProblem() {
			warn(stderr, styles, d.Message())
		} else {
			fmt.Fprintln(stderr, d.Message())
		}
	}
	if res.Empty() {
		fmt.Fprintln(stderr, listing.NoToolsMessage)
	}
	return nil
}

func writeListText(w io.Writer, res listing.Result, showPaths bool) {
	if res.Empty() {
		return
	}
	for _, t := range res.Tools {
		if showPaths {
			fmt.Fprintf(w, "%s v%s (%s)\n", t.Name, t.Version, t.Root)
			continue
		}
		fmt.Fprintf(w, "%s v%s\n", t.Name, t.Version)
	}
	fmt.Fprintln(w)
}

func writeListJSON(w io.Writer, res listing.Result) error {
	out := listOutput{
		Tools:       make([]listedTool, 0, len(res.Tools)),
		Diagnostics: make([]listedDiagnostic, 0, len(res.Diagnostics)),
	}
	for _, t := range res.Tools {
		out.Tools = append(out.Tools, listedTool{
			Name:          t.Name,
			Version:       t.Version,
			Requirement:   t.Receipt.Requirement,
			PythonVersion: t.Receipt.PythonVersion,
			Root:          t.Root,
			Interpreter:   t.Interpreter,
		})
	}
	for _, d := range res.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, listedDiagnostic{
			Kind:    string(d.Kind),
			Tool:    d.Tool,
			Path:    d.Path,
			Message: d.Message(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func warn(w io.Writer, styles tui.Styles, msg string) {
	fmt.Fprintf(w, "%s %s\n", styles.Warning.Render("warning:"), msg)
}
