package cli

import (
	"time"

	"todomap/internal/store"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *App) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Timestamped copies of the document",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "Backup directory (default: config backupDir, then backups/ beside the document)")

	// backupTarget resolves the store, backup dir and retention policy for one run.
	backupTarget := func() (store.Store, string, store.BackupPolicy, error) {
		cfg, err := store.LoadConfig()
		if err != nil {
			return store.Store{}, "", store.BackupPolicy{}, err
		}
		_, s, err := loadDocument(app)
		if err != nil {
			return store.Store{}, "", store.BackupPolicy{}, err
		}
		d := dir
		if d == "" {
			d = cfg.BackupDir
		}
		return s, s.BackupDir(d), cfg.BackupPolicyFor(s), nil
	}

	nowCmd := &cobra.Command{
		Use:   "now",
		Short: "Back up the document and prune old backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, d, policy, err := backupTarget()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := s.Backup(d, time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			removed, err := store.PruneBackups(nil, d, policy)
			if err != nil {
				// The backup itself succeeded.
				app.log().Warn("prune backups", "dir", d, "err", err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{
				"path":   path,
				"pruned": removed,
			}})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d, policy, err := backupTarget()
			if err != nil {
				return writeErr(cmd, err)
			}
			list, err := store.ListBackups(nil, d, policy.Prefix)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{
				Data: list,
				Meta: map[string]any{"dir": d, "keep": policy.Keep},
			})
		},
	}

	var keep int
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove all but the newest backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, d, policy, err := backupTarget()
			if err != nil {
				return writeErr(cmd, err)
			}
			if keep > 0 {
				policy.Keep = keep
			}
			removed, err := store.PruneBackups(nil, d, policy)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{"removed": removed}})
		},
	}
	pruneCmd.Flags().IntVar(&keep, "keep", 0, "How many to keep (default: config backupKeep, then 10)")

	cmd.AddCommand(nowCmd, listCmd, pruneCmd)
	return cmd
}
