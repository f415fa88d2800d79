// Package preflight verifies filesystem preconditions before a stage starts
// writing artifacts: directory access permissions and available disk space.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Result describes the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// writable, and traversable by the current process.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available to unprivileged writers.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minBytes {
		return Result{
			Name:   name,
			Detail: fmt.Sprintf("%s (error: %d MiB free, need %d MiB)", path, free/(1<<20), minBytes/(1<<20)),
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free/(1<<20))}
}
