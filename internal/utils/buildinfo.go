// Package utils holds constants and small helpers shared across filetree packages.
package utils

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitDescribeTimeout = 2 * time.Second
)

// Version is stamped at link time with -ldflags "-X github.com/temirov/filetree/internal/utils.Version=v1.2.3".
var Version string

var errGitDirectoryNotFound = errors.New("git checkout not found")

// GetApplicationVersion reports the linked version, then the module version from the
// build info, then the nearest git tag of a checkout enclosing the working directory.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	if buildInfo, buildInfoAvailable := debug.ReadBuildInfo(); buildInfoAvailable {
		if moduleVersion := buildInfo.Main.Version; moduleVersion != "" && moduleVersion != develBuildVersion {
			return moduleVersion
		}
	}
	checkoutDirectory, checkoutError := findGitCheckout(".")
	if checkoutError != nil {
		return unknownVersion
	}
	if describedVersion := describeCheckout(checkoutDirectory); describedVersion != "" {
		return describedVersion
	}
	return unknownVersion
}

func describeCheckout(checkoutDirectory string) string {
	ctx, cancel := context.WithTimeout(context.Background(), gitDescribeTimeout)
	defer cancel()

	// #nosec G204
	describeCommand := exec.CommandContext(ctx, "git", "describe", "--tags", "--always", "--dirty")
	describeCommand.Dir = checkoutDirectory
	describeOutput, describeError := describeCommand.Output()
	if describeError != nil {
		return ""
	}
	return strings.TrimSpace(string(describeOutput))
}

// findGitCheckout walks upward from startDirectory to the first directory holding .git.
func findGitCheckout(startDirectory string) (string, error) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", absoluteError
	}
	for {
		if _, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", errGitDirectoryNotFound
		}
		currentDirectory = parentDirectory
	}
}
