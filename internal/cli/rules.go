package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxmlint/internal/logging"
	"github.com/yaklabco/goxmlint/pkg/config"
	"github.com/yaklabco/goxmlint/pkg/lint"
	_ "github.com/yaklabco/goxmlint/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/goxmlint/pkg/plugin"
)

type rulesFlags struct {
	ruleFormat string
	format     string
	pluginDirs []string
}

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Fixable     bool   `json:"fixable"`
	Plugin      string `json:"plugin,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, descriptions,
default severity, and whether they support auto-fixing. Rules from
plugin manifests are included when --plugin-dir is given.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			logger := logging.NewInteractive()

			registry := lint.DefaultRegistry
			if len(flags.pluginDirs) > 0 {
				pluginSet, loadErrs := plugin.NewLoader(flags.pluginDirs...).LoadAll()
				for _, loadErr := range loadErrs {
					logger.Warn("plugin skipped", logging.FieldError, loadErr)
				}
				pluginSet.RegisterRules(registry)
			}

			rules := registry.Rules()

			// Handle JSON output format.
			if flags.format == formatJSON {
				return outputRulesJSON(rules)
			}

			if len(rules) == 0 {
				logger.Info("no rules registered")
				return nil
			}

			logger.Info("available rules")

			ruleFormat := config.RuleFormat(flags.ruleFormat)

			for _, rule := range rules {
				fixable := "-"
				if rule.CanFix() {
					fixable = "yes"
				}

				ruleIdentifier := config.FormatRuleID(ruleFormat, rule.ID, rule.Name)

				keyvals := []any{
					logging.FieldSeverity, rule.Severity,
					logging.FieldFixable, fixable,
					logging.FieldDescription, rule.Description,
				}
				if rule.Plugin != "" {
					keyvals = append(keyvals, logging.FieldPlugin, rule.Plugin)
				}

				logger.Info(ruleIdentifier, keyvals...)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "id",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")
	cmd.Flags().StringSliceVar(&flags.pluginDirs, "plugin-dir", nil,
		"directories to search for plugin manifests")

	return cmd
}

// outputRulesJSON outputs rules as a JSON array.
func outputRulesJSON(rules []*lint.Rule) error {
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, ruleInfo{
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Category:    string(rule.Category),
			Severity:    string(rule.Severity),
			Fixable:     rule.CanFix(),
			Plugin:      rule.Plugin,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
