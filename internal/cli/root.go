// Package cli implements the chatsort CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/chatsort/internal/config"
	"github.com/rcliao/chatsort/internal/model"
	"github.com/rcliao/chatsort/internal/session"
	"github.com/rcliao/chatsort/internal/store"
	"github.com/rcliao/chatsort/internal/ui"
)

var (
	dbPath     string
	configPath string
	formatFlag string
	noColor    bool

	cfg = config.DefaultConfig()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "chatsort",
	Short: "Organize archived chats with keyword categories",
	Long: "Sort an archive of chat transcripts into categories using keyword and /regex/ rules.\n" +
		"The archive lives in SQLite; JSON documents go in with import and out with export.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $CHATSORT_DB or ~/.chatsort/chatsort.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $CHATSORT_CONFIG or ~/.chatsort/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func setup(cmd *cobra.Command, args []string) error {
	ui.Stdout = cmd.OutOrStdout()
	ui.Stderr = cmd.ErrOrStderr()
	ui.Init(noColor)

	c, err := config.Load(config.Path(configPath))
	if err != nil {
		return fail("load config", err)
	}
	cfg = c

	if formatFlag != "json" && formatFlag != "text" {
		return fmt.Errorf("unknown format %q (want json or text)", formatFlag)
	}
	return nil
}

func getDBPath() string {
	return cfg.DBPath(dbPath)
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// sessionStore opens the store behind openSession.
var sessionStore = func() (store.Store, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// edit is a session whose saves go back to the store. A failed save is kept
// so the command can report it after the mutation returns.
type edit struct {
	st   store.Store
	sess *session.Session
	err  error
}

// openSession loads the stored document into a session that saves back to
// the store after every mutation.
func openSession(ctx context.Context) (*edit, error) {
	st, err := sessionStore()
	if err != nil {
		return nil, fail("open store", err)
	}
	doc, err := st.Load(ctx)
	if err != nil {
		st.Close()
		return nil, fail("load", err)
	}

	e := &edit{st: st}
	save := session.PersistFunc(func(ctx context.Context, doc model.Document) error {
		err := e.st.Save(ctx, doc)
		if err != nil && e.err == nil {
			e.err = err
		}
		return err
	})
	e.sess = session.New(doc, session.WithPersister(save), session.WithLogger(ui.Logger))
	return e, nil
}

func (e *edit) Close() error { return e.st.Close() }

// saved returns the first save failure, if any.
func (e *edit) saved() error {
	if e.err != nil {
		return fail("save", e.err)
	}
	return nil
}

// finish reports a registry edit.
func (e *edit) finish(cmd *cobra.Command, changed bool) error {
	if err := e.saved(); err != nil {
		return err
	}
	printChanged(cmd, changed)
	return nil
}

// backupAndPrune snapshots the store before a bulk replacement.
func backupAndPrune(ctx context.Context, s *store.SQLiteStore, reason string) (string, error) {
	b, err := s.Backup(ctx, reason)
	if err != nil {
		return "", fail("backup", err)
	}
	if _, err := s.PruneBackups(ctx, cfg.Backups.Keep); err != nil {
		ui.Logger.Warn("prune backups failed", "err", err)
	}
	return b.ID, nil
}

func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

func textOutput() bool { return formatFlag == "text" }

func printJSON(w io.Writer, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(b))
}

type changeResult struct {
	OK      bool `json:"ok"`
	Changed bool `json:"changed"`
}

func printChanged(cmd *cobra.Command, changed bool) {
	if textOutput() {
		if changed {
			ui.Success("saved")
		} else {
			ui.Info("nothing changed")
		}
		return
	}
	printJSON(cmd.OutOrStdout(), changeResult{OK: true, Changed: changed})
}

// nonEmpty trims flag values and drops empty ones.
func nonEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
