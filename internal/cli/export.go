package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/oficina/internal/browser"
	"github.com/opencode-ai/oficina/internal/danger"
	"github.com/opencode-ai/oficina/internal/logging"
)

var (
	exportOutput string
	exportOpen   bool
	exportYes    bool

	securityLogsPrint bool
)

func init() {
	rootCmd.AddCommand(exportUsersCmd)
	rootCmd.AddCommand(securityLogsCmd)

	exportUsersCmd.Flags().StringVarP(&exportOutput, "output", "o", "usuarios.csv", `destination file ("-" for stdout)`)
	exportUsersCmd.Flags().BoolVar(&exportOpen, "open", false, "open the export in the browser instead of downloading")
	exportUsersCmd.Flags().BoolVarP(&exportYes, "yes", "y", false, "answer yes to the confirmation")

	securityLogsCmd.Flags().BoolVar(&securityLogsPrint, "print", false, "print the URL instead of opening it")
}

type exportResult struct {
	Path  string `json:"path,omitempty"`
	URL   string `json:"url,omitempty"`
	Bytes int64  `json:"bytes"`
}

var exportUsersCmd = &cobra.Command{
	Use:   "export-users",
	Short: "Export the user list as CSV",
	Long:  "Confirm and download the user list from the server, or open the export in the browser with --open.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAnswers(exportYes, "oficina export-users"); err != nil {
			return err
		}

		cfg := GetConfig()
		confirmer := newConfirmer(exportYes, "")
		exportURL := cfg.Endpoint(cfg.Server.Paths.ExportUsers)

		if exportOpen {
			links := danger.NewLinks(exportURL, cfg.Endpoint(cfg.Server.Paths.SecurityLogs), browser.Opener{}, confirmer, newNotifier())
			if !links.ExportUsers() {
				return errAborted
			}
			if IsJSONOutput() || IsJSONLOutput() {
				return WriteOutput(os.Stdout, exportResult{URL: exportURL})
			}
			return nil
		}

		if !confirmer.Confirm(danger.ExportPrompt) {
			return errAborted
		}

		ctx := contextOf(cmd)
		client, err := newAdminClient(ctx, cfg)
		if err != nil {
			return err
		}

		out, path, closeOut, err := exportDestination(exportOutput)
		if err != nil {
			return err
		}

		step := startProgress("Exportando usuários")
		n, err := client.ExportUsers(ctx, out)
		if cerr := closeOut(); err == nil {
			err = cerr
		}
		if err != nil {
			step.Fail(err)
			if path != "" {
				_ = os.Remove(path)
			}
			return fmt.Errorf("failed to export users: %w", err)
		}
		step.Done()
		logger := logging.Component("cli")
		logger.Info().Str("path", path).Int64("bytes", n).Msg("users exported")

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, exportResult{Path: path, URL: exportURL, Bytes: n})
		}
		if path != "" {
			fmt.Fprintf(os.Stderr, "%s %s (%d bytes)\n", colorize("Exportado para", colorGreen), path, n)
		}
		return nil
	},
}

func exportDestination(output string) (io.Writer, string, func() error, error) {
	if output == "" || output == "-" {
		if IsJSONOutput() || IsJSONLOutput() {
			return nil, "", nil, &PreflightError{
				Message:  "cannot stream CSV to stdout with --json",
				Hint:     "Pass --output with a file name",
				NextStep: "oficina export-users --json --output usuarios.csv",
			}
		}
		return os.Stdout, "", func() error { return nil }, nil
	}
	path, err := filepath.Abs(output)
	if err != nil {
		return nil, "", nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to create %s: %w", output, err)
	}
	return file, path, file.Close, nil
}

var securityLogsCmd = &cobra.Command{
	Use:   "security-logs",
	Short: "Open the security log viewer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		logsURL := cfg.Endpoint(cfg.Server.Paths.SecurityLogs)

		if securityLogsPrint || IsJSONOutput() || IsJSONLOutput() {
			if IsJSONOutput() || IsJSONLOutput() {
				return WriteOutput(os.Stdout, map[string]string{"url": logsURL})
			}
			fmt.Println(logsURL)
			return nil
		}

		links := danger.NewLinks(cfg.Endpoint(cfg.Server.Paths.ExportUsers), logsURL, browser.Opener{}, nil, newNotifier())
		if !links.ViewSecurityLogs() {
			return fmt.Errorf("could not open %s", logsURL)
		}
		return nil
	},
}
