// Package pathutils resolves the repository directory handed to git and the forge tool.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// RepositoryPathResolver turns a --repository value into a working directory.
// The zero value looks the home directory up with os.UserHomeDir.
type RepositoryPathResolver struct {
	HomeDirectory HomeDirectoryProvider
}

// Resolve trims the value, expands a leading "~" or "~/" and cleans the result.
// An empty value stays empty so both tools run in the current directory.
// Paths such as "~other/repository" are left unexpanded.
func (resolver RepositoryPathResolver) Resolve(repositoryPath string) string {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if len(trimmedPath) == 0 {
		return ""
	}

	if referencesHomeDirectory(trimmedPath) {
		if homeDirectory := resolver.homeDirectory(); len(homeDirectory) > 0 {
			return filepath.Join(homeDirectory, strings.TrimPrefix(trimmedPath, homeShortcutConstant))
		}
	}

	return filepath.Clean(trimmedPath)
}

func referencesHomeDirectory(candidatePath string) bool {
	if candidatePath == homeShortcutConstant {
		return true
	}
	return strings.HasPrefix(candidatePath, homeShortcutConstant+"/") ||
		strings.HasPrefix(candidatePath, homeShortcutConstant+string(os.PathSeparator))
}

func (resolver RepositoryPathResolver) homeDirectory() string {
	provider := resolver.HomeDirectory
	if provider == nil {
		provider = os.UserHomeDir
	}
	homeDirectory, lookupError := provider()
	if lookupError != nil {
		return ""
	}
	return homeDirectory
}
