// Package install offers the one-time self-install of the askgpt binary
// into ~/bin.
package install

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Path returns the install target, ~/bin/askgpt.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "bin", "askgpt"), nil
}

// MaybeOffer prompts to install the running binary to ~/bin/askgpt when
// it is not there yet. It is a best-effort courtesy: any failure is
// reported and otherwise ignored, and the caller should only invoke it
// on an interactive terminal.
func MaybeOffer(in io.Reader, out io.Writer) {
	target, err := Path()
	if err != nil {
		return
	}
	if _, err := os.Stat(target); err == nil {
		return
	}

	self, err := os.Executable()
	if err != nil {
		return
	}
	// Already running from ~/bin under another name, or from a go run
	// temp dir; don't nag.
	if filepath.Dir(self) == filepath.Dir(target) {
		return
	}

	fmt.Fprintln(out, "It seems this is the first time you are running askgpt.")
	fmt.Fprintf(out, "Would you like to install it to %s? (y/n): ", target)

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	if !strings.HasPrefix(answer, "y") {
		fmt.Fprintln(out, "Skipping installation. You can install it manually later.")
		return
	}

	if err := copyExecutable(self, target); err != nil {
		fmt.Fprintf(out, "Install failed: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Installed askgpt to %s.\n", target)
	fmt.Fprintln(out, "Add the following line to your ~/.bashrc if not already present:")
	fmt.Fprintln(out, `    export PATH="$HOME/bin:$PATH"`)
}

func copyExecutable(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
