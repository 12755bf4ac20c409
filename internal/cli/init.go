package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/oficina/internal/browser"
	"github.com/opencode-ai/oficina/internal/config"
	"github.com/opencode-ai/oficina/internal/db"
)

var (
	initForce bool

	configDirFunc = defaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and local database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{
			createConfigFile(),
			createDatabase(),
			checkPrerequisites(),
		}

		if IsJSONOutput() || IsJSONLOutput() {
			out := make([]map[string]string, 0, len(results))
			for _, r := range results {
				out = append(out, map[string]string{"step": r.name, "status": r.status, "message": r.message})
			}
			return WriteOutput(os.Stdout, out)
		}

		failed := false
		for _, r := range results {
			color := colorGreen
			switch r.status {
			case "skipped":
				color = colorYellow
			case "failed":
				color = colorRed
				failed = true
			}
			fmt.Printf("%-22s %s %s\n", r.name, colorize(r.status, color), r.message)
		}
		if failed {
			return fmt.Errorf("init incomplete")
		}
		return nil
	},
}

type initResult struct {
	name    string
	status  string // done, skipped or failed
	message string
}

func defaultConfigDir() string {
	return config.DirFunc()
}

func createConfigFile() initResult {
	result := initResult{name: "Config file"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce && !confirm(fmt.Sprintf("%s já existe. Sobrescrever?", path)) {
		result.status = "skipped"
		result.message = path + " already exists (use --force to overwrite)"
		return result
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	if err := os.WriteFile(path, []byte(config.SampleFile), 0o600); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}

	result.status = "done"
	result.message = path
	return result
}

func createDatabase() initResult {
	result := initResult{name: "Database"}
	path := GetConfig().Storage.Path

	database, err := db.Open(db.Config{Path: path})
	if err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}
	defer database.Close()

	if err := database.Migrate(context.Background()); err != nil {
		result.status = "failed"
		result.message = err.Error()
		return result
	}

	result.status = "done"
	result.message = path
	return result
}

// checkPrerequisites looks for the program used to open server pages.
func checkPrerequisites() initResult {
	result := initResult{name: "Browser opener"}
	cmd, err := browser.Command(runtime.GOOS, "about:blank")
	if err != nil {
		result.status = "skipped"
		result.message = err.Error()
		return result
	}
	if _, err := exec.LookPath(cmd.Path); err != nil {
		result.status = "skipped"
		result.message = fmt.Sprintf("%s not found; export-users --open and security-logs need it", filepath.Base(cmd.Path))
		return result
	}
	result.status = "done"
	result.message = filepath.Base(cmd.Path)
	return result
}
