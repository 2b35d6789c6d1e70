// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and graph generation commands
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/pitch/proposals"
	"github.com/harperreed/pitch/viz"
)

func writeGraph(output, dot string) error {
	if output != "" {
		return os.WriteFile(output, []byte(dot), 0644)
	}
	fmt.Fprintln(stdout, dot)
	return nil
}

// VizGraphStakeholdersCommand generates a proposal's stakeholder map.
func VizGraphStakeholdersCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("viz graph stakeholders", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	id, err := requireID(fs, "proposal")
	if err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(svc).GenerateStakeholderGraph(ctx, id)
	if err != nil {
		return err
	}
	return writeGraph(*output, dot)
}

// VizGraphPipelineCommand generates a graph of proposals by status.
func VizGraphPipelineCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("viz graph pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	dot, err := viz.NewGraphGenerator(svc).GeneratePipelineGraph(ctx)
	if err != nil {
		return err
	}
	return writeGraph(*output, dot)
}

// VizDashboardCommand prints the terminal pipeline dashboard.
func VizDashboardCommand(ctx context.Context, svc *proposals.Service, args []string) error {
	fs := flag.NewFlagSet("viz dashboard", flag.ExitOnError)
	_ = fs.Parse(args)

	d, err := svc.Dashboard(ctx, "")
	if err != nil {
		return noticeError(err, "Failed to load proposals")
	}
	fmt.Fprint(stdout, viz.RenderDashboard(d, d.Proposals))
	return nil
}
