package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"toolenv/internal/config"
	"toolenv/internal/tui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML and check it",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.Close()

	results := s.cfg.Validate()

	if outputJSON {
		payload := struct {
			Source   string                    `json:"source,omitempty"`
			Config   config.Config             `json:"config"`
			Findings []config.ValidationResult `json:"findings"`
		}{Source: s.cfg.Source, Config: s.cfg, Findings: results}
		if payload.Findings == nil {
			payload.Findings = []config.ValidationResult{}
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		data, err := s.cfg.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		if len(data) == 0 || data[len(data)-1] != '\n' {
			fmt.Fprintln(cmd.OutOrStdout())
		}

		styles := tui.NewStyles(cmd.ErrOrStderr())
		for _, r := range results {
			if r.Level == "warning" {
				warn(cmd.ErrOrStderr(), styles, r.Message)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", styles.Status("failed").Render("error:"), r.Message)
			}
		}
	}

	if config.HasErrors(results) {
		return fmt.Errorf("configuration has errors")
	}
	return nil
}
