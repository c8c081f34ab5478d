package config

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	p, err := Parse("chain", nil, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Config != Default() {
		t.Fatalf("got %+v, want defaults %+v", p.Config, Default())
	}
}

func TestParseFlags(t *testing.T) {
	p, err := Parse("chain", []string{
		"-chain.blocks", "5",
		"-chain.difficulty", "2",
		"-mine.workers", "4",
		"-mine.maxAttempts", "1000",
		"-mine.timeout", "3s",
		"-verify.full",
		"-output.format", "JSON",
		"extra",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := p.Config
	if c.Chain.Blocks != 5 || c.Chain.Difficulty != 2 || !c.Chain.VerifyFull {
		t.Fatalf("chain config not applied: %+v", c.Chain)
	}
	if c.Mine.Workers != 4 || c.Mine.MaxAttempts != 1000 || c.Mine.Timeout != 3*time.Second {
		t.Fatalf("mine config not applied: %+v", c.Mine)
	}
	if c.Output.Format != "json" {
		t.Fatalf("output format %q, want json", c.Output.Format)
	}
	if len(p.Args) != 1 || p.Args[0] != "extra" {
		t.Fatalf("remaining args %v", p.Args)
	}
}

func TestParseEnvFallback(t *testing.T) {
	t.Setenv("POWCHAIN_DIFFICULTY", "1")
	t.Setenv("POWCHAIN_SIM_SEED", "99")
	t.Setenv("POWCHAIN_WORKERS", "not-a-number")

	p, err := Parse("chain", nil, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Config.Chain.Difficulty != 1 || p.Config.Sim.Seed != 99 {
		t.Fatalf("env not applied: %+v", p.Config)
	}
	if p.Config.Mine.Workers != Default().Mine.Workers {
		t.Fatalf("malformed env should fall back to default, got %d", p.Config.Mine.Workers)
	}

	p, err = Parse("chain", []string{"-chain.difficulty", "3"}, io.Discard)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Config.Chain.Difficulty != 3 {
		t.Fatalf("flag should override env, got %d", p.Config.Chain.Difficulty)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string][]string{
		"negative difficulty": {"-chain.difficulty", "-1"},
		"huge difficulty":     {"-chain.difficulty", "65"},
		"zero blocks":         {"-chain.blocks", "0"},
		"negative workers":    {"-mine.workers", "-2"},
		"bad log level":       {"-log.level", "loud"},
		"bad log format":      {"-log.format", "xml"},
		"bad output":          {"-output.format", "yaml"},
		"short tamper chain":  {"-demo.tamper", "-chain.blocks", "2"},
		"unknown flag":        {"-nope"},
	}
	for name, args := range cases {
		if _, err := Parse("chain", args, io.Discard); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseDifficultyErrorNamesFlag(t *testing.T) {
	_, err := Parse("chain", []string{"-chain.difficulty", "99"}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "chain.difficulty") {
		t.Fatalf("got %v", err)
	}
}
