// internal/commands/root_test.go
package calview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRootCmdRegistersSubcommands(t *testing.T) {
	paths := map[string]bool{
		"calview report":        false,
		"calview serve":         false,
		"calview select":        false,
		"calview list metrics":  false,
		"calview list commands": false,
		"calview show config":   false,
	}
	var walk func(cmds []*cobra.Command)
	walk = func(cmds []*cobra.Command) {
		for _, c := range cmds {
			if _, ok := paths[c.CommandPath()]; ok {
				paths[c.CommandPath()] = true
			}
			walk(c.Commands())
		}
	}
	walk(rootCmd.Commands())

	for path, found := range paths {
		if !found {
			t.Errorf("expected %q to be registered", path)
		}
	}
	if f := rootCmd.PersistentFlags().Lookup("finalResults"); f == nil {
		t.Error("expected the input table flags on the root command")
	}
}

func TestRootCmdUnknownSubcommand(t *testing.T) {
	b := new(bytes.Buffer)
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs([]string{"dashboard"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })

	if _, err := rootCmd.ExecuteC(); err == nil {
		t.Fatal("expected an error for an unknown subcommand")
	}
	if want := `unknown command "dashboard" for "calview"`; !strings.Contains(b.String(), want) {
		t.Fatalf("expected %q, got %q", want, b.String())
	}
}
