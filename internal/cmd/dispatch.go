package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-askgpt/internal/chat"
	"github.com/wethinkt/go-askgpt/internal/cli"
	"github.com/wethinkt/go-askgpt/internal/config"
	"github.com/wethinkt/go-askgpt/internal/llm"
	"github.com/wethinkt/go-askgpt/internal/session"
)

// runRoot parses the documented flag surface and dispatches. -e and -f
// are run modifiers consumed first; everything else is a one-shot
// command, and bare argv enters interactive mode.
func runRoot(cmd *cobra.Command, args []string) error {
	// ASKGPT_HOME overrides the ~/.askgpt state root.
	cfg, err := config.NewManager(os.Getenv("ASKGPT_HOME"))
	if err != nil {
		return err
	}
	store := session.NewStore(cfg)

	appCfg, err := cfg.Load()
	if err != nil {
		return err
	}

	sentinel := appCfg.EOFWord
	var fileContent string
	hasFile := false

	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-e":
			if i+1 >= len(args) {
				return fmt.Errorf("-e requires an argument")
			}
			sentinel = args[i+1]
			i++
		case "-f":
			if i+1 >= len(args) {
				return fmt.Errorf("-f requires an argument")
			}
			data, err := os.ReadFile(args[i+1])
			if err != nil {
				return fmt.Errorf("read file input: %w", err)
			}
			fileContent = string(data)
			hasFile = true
			i++
		default:
			rest = append(rest, args[i])
		}
	}

	if len(rest) == 0 {
		return runInteractive(store, sentinel, fileContent, hasFile)
	}

	requireArg := func() (string, error) {
		if len(rest) != 2 {
			return "", fmt.Errorf("%s requires an argument", rest[0])
		}
		return rest[1], nil
	}

	switch rest[0] {
	case "-h", "--help", "help":
		return cmd.Help()

	case "-l":
		names, err := store.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil

	case "-c":
		name, err := requireArg()
		if err != nil {
			return err
		}
		if err := store.Create(name); err != nil {
			return err
		}
		fmt.Printf("Created and switched to session: %s\n", name)
		return nil

	case "-s":
		name, err := requireArg()
		if err != nil {
			return err
		}
		if err := store.Switch(name); err != nil {
			return err
		}
		fmt.Printf("Switched to session: %s\n", name)
		return nil

	case "-d":
		if len(rest) == 1 {
			return showHistory(store)
		}
		name := rest[1]
		if err := store.Delete(name); err != nil {
			return err
		}
		fmt.Printf("Session %s deleted.\n", name)
		return nil

	case "-n":
		name, created, err := store.EnsureCurrent()
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No current session found. Created '%s' and switched to it.\n", name)
		}
		fmt.Println(name)
		return nil

	case "-a":
		sess, err := loadCurrent(store)
		if err != nil {
			return err
		}
		return cli.WriteJSON(os.Stdout, sess)

	case "-p":
		sess, err := loadCurrent(store)
		if err != nil {
			return err
		}
		return cli.WriteJSON(os.Stdout, sess.Messages)

	case "-w":
		path, err := requireArg()
		if err != nil {
			return err
		}
		if err := cfg.SetWorkspace(path); err != nil {
			return err
		}
		fmt.Printf("Workspace set to %s\n", path)
		return nil

	case "-wc":
		if err := cfg.ClearWorkspace(); err != nil {
			return err
		}
		fmt.Println("Workspace reverted to default.")
		return nil

	case "-wl":
		entries, err := cfg.ListWorkspaces()
		if err != nil {
			return err
		}
		for _, e := range entries {
			marker := " "
			if e.Current {
				marker = "*"
			}
			label := e.Path
			if e.Default {
				label += " (default)"
			}
			fmt.Printf("%s %s\n", marker, label)
		}
		return nil

	case "-m":
		model, err := requireArg()
		if err != nil {
			return err
		}
		name, created, err := store.EnsureCurrent()
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("No current session found. Created '%s' and switched to it.\n", name)
		}
		if err := store.SetModel(name, model); err != nil {
			return err
		}
		fmt.Printf("Model for session %s changed to %s.\n", name, model)
		return nil

	case "-ms":
		model, err := requireArg()
		if err != nil {
			return err
		}
		if err := cfg.SetGlobalModel(model); err != nil {
			return err
		}
		fmt.Printf("Global default model changed to %s.\n", model)
		return nil

	case "-mc":
		if err := cfg.ClearGlobalModel(); err != nil {
			return err
		}
		fmt.Printf("Global default model reverted to %s.\n", config.DefaultModel)
		return nil
	}

	return fmt.Errorf("invalid option %q, see -h for help", rest[0])
}

// loadCurrent resolves the current session (recovering with
// master_session when none is set) and loads it.
func loadCurrent(store *session.Store) (*session.Session, error) {
	name, created, err := store.EnsureCurrent()
	if err != nil {
		return nil, err
	}
	if created {
		fmt.Printf("No current session found. Created '%s' and switched to it.\n", name)
	}
	return store.Load(name)
}

func showHistory(store *session.Store) error {
	sess, err := loadCurrent(store)
	if err != nil {
		return err
	}
	formatter := cli.NewHistoryFormatter(os.Stdout, stdoutIsTerminal())
	return formatter.Format(sess.Messages)
}

func runInteractive(store *session.Store, sentinel, fileContent string, hasFile bool) error {
	// The API key is a configuration error surfaced before any session
	// operation proceeds.
	completer, err := llm.NewClient()
	if err != nil {
		return err
	}

	maybeOfferInstall()

	tty := stdoutIsTerminal()
	return chat.Run(context.Background(), chat.Options{
		Store:       store,
		Completer:   completer,
		In:          os.Stdin,
		Out:         os.Stdout,
		Err:         os.Stderr,
		Sentinel:    sentinel,
		FileContent: fileContent,
		HasFile:     hasFile,
		Color:       tty,
		Markdown:    tty,
		Width:       terminalWidth(),
	})
}
