package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := rootCmd()
	for _, name := range []string{"serve", "migrate"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("expected %q subcommand, got %v (%v)", name, cmd, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config flag")
	}
}

func TestMigrateCmd(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "jobboard.db")
	t.Setenv("JOBBOARD_DATABASE_DSN", dsn)
	t.Setenv("JOBBOARD_LOG_LEVEL", "error")

	for i := 0; i < 2; i++ {
		root := rootCmd()
		root.SetArgs([]string{"migrate"})
		if err := root.Execute(); err != nil {
			t.Fatalf("migrate run %d: %v", i+1, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "jobboard.db")); err != nil {
		t.Errorf("expected database file: %v", err)
	}
}

func TestMigrateCmd_BadConfig(t *testing.T) {
	t.Setenv("JOBBOARD_DATABASE_DRIVER", "mysql")

	root := rootCmd()
	root.SetArgs([]string{"migrate"})
	if err := root.Execute(); err == nil {
		t.Error("expected unsupported driver to fail")
	}
}
