// Package report renders solver results for people and for JSON
// clients.
package report

import (
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"setcover/cover"
)

// Result is a solved instance. Cover is nil when the problem's subsets
// cannot cover the universe.
type Result struct {
	Name       string
	Problem    *cover.Family
	Cover      *cover.Family
	Duplicates int
	Elapsed    time.Duration
	Statistics string
}

type subsetView struct {
	Indices []int
	Cost    float64
}

type view struct {
	Result
	Universe   int
	Candidates int
	Subsets    []subsetView
	Uncovered  []int
	Lines      []string
}

func joinInt(s []int, prefix, sep string) string {
	parts := make([]string, len(s))
	for k, v := range s {
		parts[k] = prefix + strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

func joinStr(s []string, prefix, sep string) string {
	var sb strings.Builder
	for k, v := range s {
		if k > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(prefix)
		sb.WriteString(v)
	}
	return sb.String()
}

func newTemplate(name, content string) *template.Template {
	return template.Must(template.New(name).Funcs(
		template.FuncMap{"joinInt": joinInt, "joinStr": joinStr}).Parse(content))
}

// execute panics on template errors.
func execute(tmpl *template.Template, data interface{}) string {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		panic(err)
	}
	return sb.String()
}

var solutionTemplate = newTemplate("solution", `instance: {{ .Name }}
universe: {{ .Universe }}, subsets: {{ .Candidates }}
{{- if .Duplicates }}, duplicates dropped: {{ .Duplicates }}{{ end }}
{{ if .Cover -}}
cover cost: {{ .Cover.Cost }}
cover size: {{ len .Subsets }}
{{ range .Subsets }}  {{ joinInt .Indices "" " " }} ({{ .Cost }})
{{ end -}}
{{ else -}}
no cover exists, never covered: {{ joinInt .Uncovered "" " " }}
{{ end -}}
{{ if .Elapsed }}elapsed: {{ .Elapsed }}
{{ end -}}
{{ if .Lines }}statistics:
{{ joinStr .Lines "  " "\n" }}
{{ end -}}
`)

// sorted returns the subsets of f in Compare order.
func sorted(f *cover.Family) []*cover.Subset {
	subsets := f.Subsets()
	sort.Slice(subsets, func(a, b int) bool { return subsets[a].Compare(subsets[b]) < 0 })
	return subsets
}

func Render(r Result) string {
	v := view{Result: r}
	if r.Problem != nil {
		v.Universe = r.Problem.Universe()
		v.Candidates = r.Problem.Len()
		v.Uncovered = r.Problem.UncoveredIndices()
	}
	if r.Cover != nil {
		for _, s := range sorted(r.Cover) {
			v.Subsets = append(v.Subsets, subsetView{Indices: s.Indices(), Cost: s.Cost()})
		}
	}
	if stats := strings.TrimSpace(r.Statistics); stats != "" {
		v.Lines = strings.Split(stats, "\n")
	}
	return execute(solutionTemplate, v)
}

// Summary is the JSON form of a result.
type Summary struct {
	Cost       float64 `json:"cost"`
	Uncovered  int     `json:"uncovered"`
	Subsets    [][]int `json:"subsets"`
	Statistics string  `json:"statistics,omitempty"`
}

func Summarize(problem, c *cover.Family, statistics string) Summary {
	if c == nil {
		return Summary{Uncovered: problem.Uncovered(), Subsets: [][]int{}, Statistics: statistics}
	}
	s := Summary{Cost: c.Cost(), Uncovered: c.Uncovered(), Subsets: make([][]int, 0, c.Len()), Statistics: statistics}
	for _, sub := range sorted(c) {
		s.Subsets = append(s.Subsets, sub.Indices())
	}
	return s
}
