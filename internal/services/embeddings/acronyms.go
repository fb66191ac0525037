package embeddings

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultAcronyms is the built-in medical acronym table. Expansion keeps
// the acronym and appends the long form so both surface forms embed.
var defaultAcronyms = map[string]string{
	"PCOS":  "Polycystic Ovary Syndrome",
	"BMI":   "Body Mass Index",
	"FSH":   "Follicle Stimulating Hormone",
	"LH":    "Luteinizing Hormone",
	"AMH":   "Anti-Mullerian Hormone",
	"SHBG":  "Sex Hormone Binding Globulin",
	"OGTT":  "Oral Glucose Tolerance Test",
	"HDL":   "High-Density Lipoprotein",
	"LDL":   "Low-Density Lipoprotein",
	"IR":    "Insulin Resistance",
	"OCP":   "Oral Contraceptive Pill",
	"IVF":   "In Vitro Fertilization",
	"TSH":   "Thyroid Stimulating Hormone",
	"DHEA":  "Dehydroepiandrosterone",
	"GnRH":  "Gonadotropin-Releasing Hormone",
	"HbA1c": "Glycated Hemoglobin",
}

// AcronymExpander rewrites known acronyms to "ACRONYM (Expansion)".
// Only the first occurrence of each acronym in a text is expanded, and
// only on whole-word matches.
type AcronymExpander struct {
	table   map[string]string
	pattern *regexp.Regexp
}

// NewAcronymExpander builds an expander over the built-in table, with
// optional overrides merged from a YAML file of acronym: expansion pairs.
func NewAcronymExpander(overrideFile string) (*AcronymExpander, error) {
	table := make(map[string]string, len(defaultAcronyms))
	for k, v := range defaultAcronyms {
		table[k] = v
	}

	if overrideFile != "" {
		data, err := os.ReadFile(overrideFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read acronyms file: %w", err)
		}
		overrides := make(map[string]string)
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse acronyms file: %w", err)
		}
		for k, v := range overrides {
			table[k] = v
		}
	}

	// Longer acronyms first so HbA1c wins over partial overlaps
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, regexp.QuoteMeta(k))
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	pattern := regexp.MustCompile(`\b(` + strings.Join(keys, "|") + `)\b`)

	return &AcronymExpander{table: table, pattern: pattern}, nil
}

// Expand rewrites the first whole-word occurrence of each known acronym
// in a single pass. Later occurrences are left untouched.
func (a *AcronymExpander) Expand(text string) string {
	seen := make(map[string]bool)
	return a.pattern.ReplaceAllStringFunc(text, func(match string) string {
		if seen[match] {
			return match
		}
		seen[match] = true
		return match + " (" + a.table[match] + ")"
	})
}
