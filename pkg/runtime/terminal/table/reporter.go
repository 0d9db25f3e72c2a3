package table

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        32,
		ValueWidth:       14,
		UnitWidth:        5,
		DescriptionWidth: 48,
	}
}

// Reporter renders every report section as a fixed-width table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) formatRow(name string, value interface{}, unit string, desc string) string {
	return fmt.Sprintf("| %-*s | %*v | %-*s | %-*s |",
		c.config.NameWidth, name,
		c.config.ValueWidth, value,
		c.config.UnitWidth, unit,
		c.config.DescriptionWidth, desc)
}

func (c *Reporter) separator() string {
	return fmt.Sprintf("+%s+%s+%s+%s+",
		strings.Repeat("-", c.config.NameWidth+2),
		strings.Repeat("-", c.config.ValueWidth+2),
		strings.Repeat("-", c.config.UnitWidth+2),
		strings.Repeat("-", c.config.DescriptionWidth+2))
}

func (c *Reporter) Handle(report *domain.Report) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}

	funcMap := template.FuncMap{
		"formatRow": c.formatRow,
		"separator": c.separator,
	}

	tmpl := `{{.Title}}
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
Total Amount: {{.Currency}} {{printf "%.2f" .TotalAmount}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{separator}}
{{formatRow "Name" "Value" "Unit" "Description"}}
{{separator}}
{{range .Details}}{{formatRow .Name .Value .Unit .Description}}
{{end}}{{separator}}
{{end}}`

	t, err := template.New("table").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
