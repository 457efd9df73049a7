package app

import (
	"sort"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		want   Command
		wantOK bool
	}{
		{"引数なしはserve", nil, CommandServe, true},
		{"serve", []string{"serve"}, CommandServe, true},
		{"healthcheck", []string{"healthcheck"}, CommandHealthcheck, true},
		{"-h はhelp", []string{"-h"}, CommandHelp, true},
		{"--help はhelp", []string{"--help"}, CommandHelp, true},
		{"users", []string{"users", "--page", "2"}, CommandUsers, true},
		{"freeze-wallet", []string{"freeze-wallet", "u1"}, CommandFreezeWallet, true},
		{"未知のコマンド", []string{"worker"}, Command("worker"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCommand(tt.args)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseCommand(%v) = (%q, %v), want (%q, %v)", tt.args, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCommands_AllHaveRunAndSummary(t *testing.T) {
	for name, spec := range commands {
		if spec.run == nil {
			t.Errorf("command %q has no run function", name)
		}
		if spec.summary == "" {
			t.Errorf("command %q has no summary", name)
		}
	}
}

func TestCommands_SessionRequirement(t *testing.T) {
	noSession := map[Command]bool{
		CommandServe:  true,
		CommandHelp:   true,
		CommandLogin:  true,
		CommandVerify: true,
		CommandLogout: true,
	}
	for name, spec := range commands {
		if spec.needsSession == noSession[name] {
			t.Errorf("command %q needsSession = %v", name, spec.needsSession)
		}
	}
}

func TestCommandNames_SortedWithHealthcheck(t *testing.T) {
	names := commandNames()
	if !sort.StringsAreSorted(names) {
		t.Errorf("commandNames() is not sorted: %v", names)
	}
	found := false
	for _, n := range names {
		if n == string(CommandHealthcheck) {
			found = true
		}
	}
	if !found {
		t.Error("commandNames() should include healthcheck")
	}
	if len(names) != len(commands)+1 {
		t.Errorf("len(commandNames()) = %d, want %d", len(names), len(commands)+1)
	}
}
