package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/vsxpack/pkg/vsx"
)

// renderReport writes the human-readable audit report.
func renderReport(w io.Writer, r *vsx.Result) {
	pack := r.Pack
	title := string(pack.ID)
	if pack.DisplayName != "" {
		title = fmt.Sprintf("%s (%s)", pack.DisplayName, pack.ID)
	}
	fmt.Fprintln(w, StyleTitle.Render(title))
	printKeyValue(w, "Members", fmt.Sprint(len(pack.Members)))
	if pack.Repo.URL != "" {
		printKeyValue(w, "Repository", pack.Repo.URL)
	}
	printKeyValue(w, "Run", r.RunID)
	printNewline(w)

	printInfo(w, "%s of %s members already on Open VSX",
		StyleNumber.Render(fmt.Sprint(len(r.Present))), StyleNumber.Render(fmt.Sprint(len(pack.Members))))
	switch {
	case r.SelfPresent:
		printInfo(w, "The pack itself is on Open VSX")
	case r.Self != nil:
		license := r.Self.License
		if license == "" {
			license = "no license"
		}
		printInfo(w, "The pack itself is missing from Open VSX (%s)", license)
	}

	if len(r.Deprecated) > 0 {
		printNewline(w)
		fmt.Fprintln(w, StyleError.Render("Deprecated"))
		for _, id := range r.Deprecated {
			line := StyleHighlight.Render(string(id))
			if repl := r.Replacements[id]; repl != "" {
				line += " " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(string(repl))
			}
			fmt.Fprintln(w, "  "+line)
		}
	}

	if len(r.Ineligible) > 0 {
		printNewline(w)
		fmt.Fprintln(w, StyleError.Render("Ineligible"))
		for _, id := range r.Ineligible {
			fmt.Fprintln(w, "  "+StyleHighlight.Render(string(id)))
		}
	}

	if len(r.Licensed) > 0 {
		printNewline(w)
		fmt.Fprintln(w, StyleSuccess.Render("Missing, openly licensed"))
		fmt.Fprintln(w, candidateTable(r, r.Licensed))
	}

	if len(r.Unlicensed) > 0 {
		printNewline(w)
		fmt.Fprintln(w, StyleWarning.Render("Missing, no recognized license"))
		fmt.Fprintln(w, candidateTable(r, r.Unlicensed))
	}

	printNewline(w)
	if n := r.WarningCount(); n > 0 {
		printWarning(w, "%d lookups degraded; affected extensions are reported as missing or unlicensed", n)
	}
	if r.AllConditionsMet() {
		printSuccess(w, "All conditions met")
	} else {
		printError(w, "Not all members can be registered")
	}
}

// candidateTable renders one bucket in bucket order.
func candidateTable(r *vsx.Result, ids []vsx.ID) string {
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		c := r.Candidates[id]
		if c == nil {
			continue
		}
		license := c.License
		if license == "" {
			license = "-"
		}
		repo := c.RepositoryURL
		if repo == "" {
			repo = "-"
		}
		rows = append(rows, []string{string(c.ID), license, shortDate(c.LastUpdated), repo, c.MarketplaceURL})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		}).
		Headers("EXTENSION", "LICENSE", "UPDATED", "REPOSITORY", "MARKETPLACE").
		Rows(rows...)
	return t.Render()
}

// shortDate trims a timestamp to its date; unknown dates render as "-".
func shortDate(s string) string {
	if s == "" {
		return "-"
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}

// jsonReport is the machine-readable report.
type jsonReport struct {
	*vsx.Result
	AllConditionsMet bool     `json:"all_conditions_met"`
	Warnings         []string `json:"warnings,omitempty"`
}

// writeJSONReport writes r as indented JSON.
func writeJSONReport(w io.Writer, r *vsx.Result) error {
	rep := jsonReport{Result: r, AllConditionsMet: r.AllConditionsMet()}
	var merr *multierror.Error
	if errors.As(r.Warnings, &merr) {
		for _, err := range merr.Errors {
			rep.Warnings = append(rep.Warnings, err.Error())
		}
	} else if r.Warnings != nil {
		rep.Warnings = []string{r.Warnings.Error()}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
