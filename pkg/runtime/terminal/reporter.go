package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/campaign-atlas/pkg/models/domain"
)

const reportTemplate = `{{.Title}}
Generated: {{.GeneratedAt.Format "2006-01-02 15:04:05"}}
Total Amount: {{.Currency}} {{printf "%.2f" .TotalAmount}}
{{range .Sections}}
=== {{.Title}} ===
{{range $key, $value := .Summary}}{{$key}}: {{$value}}
{{end}}{{range .Details}}- {{.Name}}: {{.Value}}{{if .Unit}} {{.Unit}}{{end}}{{if .Description}} ({{.Description}}){{end}}
{{end}}{{end}}`

// Reporter outputs reports to the console in a formatted text form
type Reporter struct {
	writer io.Writer
	tmpl   *template.Template
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) (*Reporter, error) {
	if writer == nil {
		writer = os.Stdout
	}
	t, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Reporter{writer: writer, tmpl: t}, nil
}

func (c *Reporter) Handle(report *domain.Report) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	return c.tmpl.Execute(c.writer, report)
}
