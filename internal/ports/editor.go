package ports

import "os/exec"

// EditorOpener opens label files in an external editor
type EditorOpener interface {
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file, for use with bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
