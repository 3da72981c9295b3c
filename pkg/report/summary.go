package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
)

// TargetSummary is the archive outcome of one target within a build,
// used to write the build's markdown summary.
type TargetSummary struct {
	Name     string
	Archived []string
	Missing  []string
}

// SummaryFileName is the markdown summary written into the build
// directory after perform.
const SummaryFileName = "archive-summary.md"

// WriteSummary writes a markdown summary of an archive run. The table
// lists every target with its archived and missing files so the build
// directory documents what perform did.
func WriteSummary(w io.Writer, project, buildID string, ranAt time.Time, success bool, targets []TargetSummary) error {
	md := markdown.NewMarkdown(w)

	md.H1("Archive Summary")
	md.PlainText("")

	status := "success"
	if !success {
		status = "failed"
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Project", "`" + project + "`"},
			{"Build", "`" + buildID + "`"},
			{"Ran At", ranAt.UTC().Format("2006-01-02 15:04:05 MST")},
			{"Status", status},
		},
	})
	md.PlainText("")

	md.H2("Targets")
	md.PlainText("")

	rows := make([][]string, 0, len(targets))
	for _, t := range targets {
		rows = append(rows, []string{
			"`" + t.Name + "`",
			strconv.Itoa(len(t.Archived)),
			strconv.Itoa(len(t.Missing)),
			fileCell(t.Missing),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Target", "Archived", "Missing", "Missing Files"},
		Rows:   rows,
	})

	return md.Build()
}

func fileCell(files []string) string {
	if len(files) == 0 {
		return "-"
	}
	quoted := make([]string, 0, len(files))
	for _, f := range files {
		quoted = append(quoted, "`"+f+"`")
	}
	return strings.Join(quoted, ", ")
}
