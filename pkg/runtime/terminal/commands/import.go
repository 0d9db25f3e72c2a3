package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/campaign-atlas/pkg/adapters"
	"github.com/de-tools/campaign-atlas/pkg/frame"
	"github.com/de-tools/campaign-atlas/pkg/models/domain"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	env           *Env
	campaignsPath string
	customersPath string
}

func NewImportCmd(env *Env) *cobra.Command {
	ic := &ImportCmd{env: env}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load campaign and customer CSV files into the local database",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.campaignsPath, "campaigns", "", "Path to the campaign CSV file")
	cmd.Flags().StringVar(&ic.customersPath, "customers", "", "Path to the customer CSV file")

	_ = cmd.MarkFlagRequired("campaigns")
	_ = cmd.MarkFlagRequired("customers")

	return cmd
}

func readCSV(path string, numeric []string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := frame.ReadCSV(file, numeric...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	campaignFrame, err := readCSV(ic.campaignsPath, domain.CampaignNumericColumns)
	if err != nil {
		return err
	}
	campaigns, err := adapters.FrameToCampaigns(campaignFrame)
	if err != nil {
		return fmt.Errorf("%s: %w", ic.campaignsPath, err)
	}

	customerFrame, err := readCSV(ic.customersPath, domain.CustomerNumericColumns)
	if err != nil {
		return err
	}
	customers := adapters.FrameToCustomers(customerFrame)

	backend, err := ic.env.open(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Import(ctx, campaigns, customers); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d campaigns and %d customers\n", len(campaigns), len(customers))
	return nil
}
