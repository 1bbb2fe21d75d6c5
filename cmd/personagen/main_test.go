package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"generate": false,
		"serve":    false,
		"sessions": false,
		"clean":    false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGenerateFlagDefaults(t *testing.T) {
	if f := generateCmd.Flags().Lookup("artifacts"); f == nil || f.DefValue != "5" {
		t.Errorf("artifacts flag default = %v", f)
	}
	if f := generateCmd.Flags().Lookup("temperature"); f == nil || f.DefValue != "0.75" {
		t.Errorf("temperature flag default = %v", f)
	}
	if f := generateCmd.Flags().Lookup("categories"); f == nil || f.DefValue != "code,config,docs" {
		t.Errorf("categories flag default = %v", f)
	}
}

func TestCleanRequiresPaths(t *testing.T) {
	for _, name := range []string{"in", "out"} {
		f := cleanCmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("clean flag %q missing", name)
		}
		if f.Annotations[cobra.BashCompOneRequiredFlag] == nil {
			t.Errorf("clean flag %q not marked required", name)
		}
	}
}
