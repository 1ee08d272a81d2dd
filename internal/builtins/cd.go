// Package builtins implements the commands the shell interprets itself
// instead of launching a child process.
package builtins

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/guish-sh/guish/internal/environment"
)

// Cd changes the shell's working directory. With an argument it targets
// that path; with none it targets $HOME. A failed cd leaves the working
// directory unchanged and never terminates the shell — the caller reports
// the returned error and continues.
func Cd(args []string) error {
	var targetDir string
	if len(args) == 0 {
		targetDir = environment.GetHome()
		if targetDir == "" {
			return fmt.Errorf("cd: HOME not set")
		}
	} else {
		targetDir = args[0]
	}

	if targetDir == "~" {
		home := environment.GetHome()
		if home == "" {
			return fmt.Errorf("cd: HOME not set")
		}
		targetDir = home
	}

	if !filepath.IsAbs(targetDir) {
		currentDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cd: unable to get current directory: %w", err)
		}
		targetDir = filepath.Join(currentDir, targetDir)
	}
	targetDir = filepath.Clean(targetDir)

	info, err := os.Stat(targetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("cd: no such file or directory: %s", targetDir)
		}
		return fmt.Errorf("cd: %s: %w", targetDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cd: not a directory: %s", targetDir)
	}

	if err := os.Chdir(targetDir); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("cd: permission denied: %s", targetDir)
		}
		return fmt.Errorf("cd: %s: %w", targetDir, err)
	}

	return nil
}
