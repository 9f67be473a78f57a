package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yaklabco/goxmlint/internal/cli"
)

func TestLintCommand_RuleFormatFlag(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	lintCmd, _, err := cmd.Find([]string{"lint"})
	if err != nil {
		t.Fatalf("lint command not found: %v", err)
	}

	// Check flag exists
	flag := lintCmd.Flags().Lookup("rule-format")
	assert.NotNil(t, flag, "rule-format flag should exist")
	assert.Equal(t, "id", flag.DefValue, "default value should be 'id'")
}

func TestLintCommand_FormatFlagMentionsAllFormats(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	lintCmd, _, err := cmd.Find([]string{"lint"})
	if err != nil {
		t.Fatalf("lint command not found: %v", err)
	}

	formatFlag := lintCmd.Flags().Lookup("format")
	assert.NotNil(t, formatFlag, "format flag should exist")
	for _, name := range []string{"text", "table", "json", "sarif", "summary"} {
		assert.Contains(t, formatFlag.Usage, name)
	}
}

func TestLintCommand_FailOnFlagDefault(t *testing.T) {
	t.Parallel()

	info := cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}

	cmd := cli.NewRootCommand(info)
	lintCmd, _, err := cmd.Find([]string{"lint"})
	if err != nil {
		t.Fatalf("lint command not found: %v", err)
	}

	// Empty default defers to config (fail_on) and its info fallback.
	flag := lintCmd.Flags().Lookup("fail-on")
	assert.NotNil(t, flag, "fail-on flag should exist")
	assert.Equal(t, "", flag.DefValue)
}
