package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/campaign-atlas/pkg/frame"
)

const (
	CleanCampaignsFile = "clean_campaign_data.csv"
	CleanCustomersFile = "clean_customer_data.csv"
	SegmentsFile       = "customer_segments.csv"
	SummaryFile        = "campaign_insights_summary.csv"
	WorkbookFile       = "campaign_insights.xlsx"
)

// WriteFrame writes f as CSV to dir/name, creating dir when needed, and
// returns the written path.
func WriteFrame(f *frame.Frame, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := f.WriteCSV(file); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
